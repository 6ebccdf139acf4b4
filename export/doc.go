// Package export turns a frozen selection snapshot into an ordered,
// incremental stream of exported images.
//
// One producer goroutine walks the snapshot in selection order and, per
// entry, decodes the asset, applies rotation, crops, resizes, encodes,
// and writes through a Sink. Each entry yields exactly one Result on
// the returned channel before the next entry starts, so consumers can
// upload or display early results while later ones are still
// processing. A failing asset produces a failure Result and the stream
// continues; only context cancellation ends the stream early.
//
// Decoded pixel buffers are scoped to a single entry, so peak memory is
// one asset regardless of selection size.
package export
