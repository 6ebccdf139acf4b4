package pick

import (
	"context"

	"github.com/assetpick/assetpick/cropctl"
	"github.com/assetpick/assetpick/export"
	"github.com/assetpick/assetpick/selection"
	"github.com/assetpick/assetpick/source"
)

// Defaults for the configuration surface.
const (
	DefaultMaxAssets = 10
	DefaultPageSize  = 80
	DefaultGridCount = 4
)

// Env is what an Interactor gets to work with: the session's asset
// source for browsing, the selection store and crop controller to bind
// the UI to, and the layout hints from Options.
type Env struct {
	Source    source.AssetSource
	Store     *selection.Store
	Crop      *cropctl.Controller
	PageSize  int
	GridCount int
}

// Interactor drives the selection/crop interaction step and reports
// whether the user confirmed the selection. Returning false with a nil
// error is a cancellation: no decision was made.
type Interactor interface {
	Run(ctx context.Context, env Env) (confirmed bool, err error)
}

// InteractorFunc adapts a function to the Interactor interface.
type InteractorFunc func(ctx context.Context, env Env) (bool, error)

// Run calls f.
func (f InteractorFunc) Run(ctx context.Context, env Env) (bool, error) {
	return f(ctx, env)
}

// confirmSelection is the default interactor: it confirms the
// pre-seeded selection as-is.
type confirmSelection struct{}

func (confirmSelection) Run(ctx context.Context, env Env) (bool, error) {
	return true, nil
}

// Options is the per-session configuration surface.
type Options struct {
	// MaxAssets caps the selection size. Default 10.
	MaxAssets int
	// PageSize is the asset-grid page size hint passed to the
	// interactor. Default 80.
	PageSize int
	// CropRatios is the ordered aspect-ratio choices (width/height)
	// for the crop step. Default [1.0, 0.8].
	CropRatios []float64
	// PreferredOutputSize is the export long-edge target in pixels.
	// Default 1080.
	PreferredOutputSize float64
	// CloseOnComplete releases the session slot as soon as the export
	// stream terminates. When false the caller keeps the session (and
	// its reentrancy guard) until Picker.End. DefaultOptions sets it.
	CloseOnComplete bool
	// SelectedAssets pre-seeds the selection store.
	SelectedAssets []source.Asset
	// GridCount is a grid-column layout hint for the interactor; it
	// has no effect on the core. Default 4.
	GridCount int
	// Sink receives the exported images. Default: a fresh temp
	// directory sink.
	Sink export.Sink
	// Interactor drives the selection/crop step. Default: confirm the
	// pre-seeded selection unchanged.
	Interactor Interactor
	// OnCompleted, when set, is handed the export result stream. The
	// same channel is returned in Result.Exports; exactly one consumer
	// must drain it.
	OnCompleted func(<-chan export.Result)
	// OnPermissionDenied handles the denial notice. Default: a warning
	// through the picker's logger with remediation text.
	OnPermissionDenied func(message string)
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		MaxAssets:           DefaultMaxAssets,
		PageSize:            DefaultPageSize,
		CropRatios:          selection.DefaultCropConfig().AspectRatios,
		PreferredOutputSize: selection.DefaultCropConfig().PreferredOutputSize,
		CloseOnComplete:     true,
		GridCount:           DefaultGridCount,
	}
}

// normalized fills zero-valued fields with defaults. CloseOnComplete
// is left alone: false is a meaningful choice.
func (o Options) normalized() Options {
	if o.MaxAssets <= 0 {
		o.MaxAssets = DefaultMaxAssets
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if len(o.CropRatios) == 0 {
		o.CropRatios = selection.DefaultCropConfig().AspectRatios
	}
	if o.PreferredOutputSize <= 0 {
		o.PreferredOutputSize = selection.DefaultCropConfig().PreferredOutputSize
	}
	if o.GridCount <= 0 {
		o.GridCount = DefaultGridCount
	}
	if o.Interactor == nil {
		o.Interactor = confirmSelection{}
	}
	return o
}

// cropConfig derives the immutable per-session crop configuration.
func (o Options) cropConfig() selection.CropConfig {
	return selection.CropConfig{
		PreferredOutputSize: o.PreferredOutputSize,
		AspectRatios:        o.CropRatios,
	}
}
