package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/assetpick/assetpick/internal/imgops"
	"github.com/assetpick/assetpick/selection"
	"github.com/assetpick/assetpick/source"
)

// jpegQuality is the re-encode quality for exported images.
const jpegQuality = 90

// Exporter runs the crop/resize/encode pipeline over a selection
// snapshot.
type Exporter struct {
	src  Opener
	cfg  selection.CropConfig
	sink Sink
	log  *zap.Logger
}

// Opener is the slice of the asset source the pipeline needs: access
// to original bytes. source.AssetSource satisfies it.
type Opener interface {
	Open(ctx context.Context, asset source.Asset) (io.ReadCloser, error)
}

// NewExporter creates an exporter. A nil logger disables logging.
func NewExporter(src Opener, cfg selection.CropConfig, sink Sink, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{src: src, cfg: cfg, sink: sink, log: log}
}

// Export processes the snapshot in order and returns the result
// stream. The channel is unbuffered: each entry's result is delivered
// before work on the next entry begins, and a slow consumer
// backpressures the pipeline.
//
// Per-asset failures are reported in-stream and do not stop later
// entries. Cancelling ctx stops the pipeline cooperatively: the check
// happens between entries, in-flight work on the current entry is
// abandoned without a result, and the channel closes. Results already
// received remain valid.
func (e *Exporter) Export(ctx context.Context, entries []selection.Entry) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		for i, ent := range entries {
			if ctx.Err() != nil {
				e.log.Info("export cancelled",
					zap.Int("emitted", i),
					zap.Int("total", len(entries)))
				return
			}

			res := e.exportOne(ctx, ent)
			if res.Failed() && ctx.Err() != nil {
				// The failure came from cancellation mid-entry, not
				// from the asset. Abandon without reporting.
				e.log.Info("export cancelled",
					zap.Int("emitted", i),
					zap.Int("total", len(entries)))
				return
			}

			if res.Failed() {
				e.log.Warn("asset export failed",
					zap.String("asset", ent.Asset.ID),
					zap.String("kind", res.Kind.String()),
					zap.Error(res.Err))
			} else {
				e.log.Debug("asset exported",
					zap.String("asset", ent.Asset.ID),
					zap.String("location", res.Location))
			}

			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// exportOne runs the full pipeline for a single entry. The decoded
// buffers it allocates die with this call, keeping one asset in memory
// at a time.
func (e *Exporter) exportOne(ctx context.Context, ent selection.Entry) Result {
	fail := func(kind Kind, err error) Result {
		return Result{Asset: ent.Asset, Params: ent.Params, Err: err, Kind: kind}
	}

	rc, err := e.src.Open(ctx, ent.Asset)
	if err != nil {
		return fail(KindIO, fmt.Errorf("open: %w", err))
	}

	img, err := imgops.Decode(rc)
	rc.Close()
	if err != nil {
		return fail(KindDecode, err)
	}

	img = imgops.Rotate(img, int(ent.Params.Rotation))

	rect := ent.Params.Rect.Clip()
	cropped, err := imgops.CropNormalized(img, rect.X, rect.Y, rect.W, rect.H)
	if err != nil {
		return fail(KindDecode, err)
	}

	scale := ent.Params.Scale
	if scale <= 0 {
		scale = 1
	}
	target := int(math.Round(e.cfg.PreferredOutputSize / scale))
	resized := imgops.ResizeLongEdge(cropped, target)

	var buf bytes.Buffer
	if err := imgops.EncodeJPEG(&buf, resized, jpegQuality); err != nil {
		return fail(KindEncode, err)
	}

	name := uuid.New().String() + ".jpg"
	location, err := e.sink.Write(ctx, name, &buf)
	if err != nil {
		return fail(KindIO, fmt.Errorf("sink: %w", err))
	}

	return Result{Asset: ent.Asset, Location: location, Params: ent.Params}
}
