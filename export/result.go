package export

import (
	"fmt"

	"github.com/assetpick/assetpick/selection"
	"github.com/assetpick/assetpick/source"
)

// Kind classifies a per-asset export failure.
type Kind int

const (
	// KindNone means the result is a success.
	KindNone Kind = iota
	// KindDecode covers undecodable bytes and crop regions with no
	// pixel area.
	KindDecode
	// KindEncode covers re-encoding failures.
	KindEncode
	// KindIO covers source open and sink write failures.
	KindIO
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindIO:
		return "io"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is one exported asset, success or failure. The stream of
// Results preserves selection order.
type Result struct {
	// Asset is the source handle this result belongs to.
	Asset source.Asset
	// Location is where the sink put the encoded image (a file path or
	// object URL). Empty on failure.
	Location string
	// Params are the crop parameters that were applied.
	Params selection.CropParams
	// Err is nil on success; on failure it describes what went wrong
	// for this asset only.
	Err error
	// Kind classifies Err.
	Kind Kind
}

// Failed reports whether this result is a per-asset failure.
func (r Result) Failed() bool {
	return r.Err != nil
}
