package source

import (
	"context"
	"image"
	"io"

	"github.com/assetpick/assetpick/permission"
)

// MediaType identifies the kind of media an asset holds.
type MediaType int

const (
	// MediaImage is a still image.
	MediaImage MediaType = iota
	// MediaVideo is a video. Reserved; the export pipeline only
	// handles still images.
	MediaVideo
)

// Asset is an opaque, stable-identity handle to a media item in the
// library. The core references assets, it never copies their pixels.
type Asset struct {
	ID     string
	Width  int
	Height int
	Type   MediaType
}

// Album is a grouping of assets in the library.
type Album struct {
	ID    string
	Name  string
	Count int
}

// AssetSource is the external media-library provider contract.
//
// Implementations must return the same Asset.ID for the same underlying
// media item across calls; the selection store keys on it.
type AssetSource interface {
	// Albums lists the albums available to the session.
	Albums(ctx context.Context) ([]Album, error)

	// Assets returns one page of an album's assets. Pages are 0-based
	// and stable for the lifetime of a session.
	Assets(ctx context.Context, albumID string, page, pageSize int) ([]Asset, error)

	// Thumbnail renders a preview whose long edge is at most size
	// pixels.
	Thumbnail(ctx context.Context, asset Asset, size int) (image.Image, error)

	// Open streams the asset's original encoded bytes.
	Open(ctx context.Context, asset Asset) (io.ReadCloser, error)

	// CheckPermission performs the platform media-library permission
	// check. Called exactly once per session, through the permission
	// gate, before any other method.
	CheckPermission(ctx context.Context) (permission.State, error)
}
