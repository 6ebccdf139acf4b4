package pick

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/assetpick/assetpick/cropctl"
	"github.com/assetpick/assetpick/export"
	"github.com/assetpick/assetpick/permission"
	"github.com/assetpick/assetpick/selection"
	"github.com/assetpick/assetpick/source"
)

var (
	// ErrSessionActive reports a Pick while a previous session is
	// still live. The live session is untouched.
	ErrSessionActive = errors.New("picking session already active")

	// ErrCancelled reports that the user dismissed the picker without
	// deciding. Distinct from confirming an empty selection, which
	// succeeds with an empty asset list.
	ErrCancelled = errors.New("picking cancelled")

	// ErrPermissionDenied reports that media-library access was
	// denied; the denial notice has already been delivered.
	ErrPermissionDenied = errors.New("media library permission denied")
)

// deniedMessage is the default remediation text shown on denial.
const deniedMessage = "Access to the photo library was denied. " +
	"Allow photo access for this app in the system settings and try again."

// Result is a confirmed session's outcome: the raw selected assets, in
// selection order, and the lazy export stream. Exports preserves that
// order and must be drained (or the session context cancelled).
type Result struct {
	Assets  []source.Asset
	Exports <-chan export.Result
}

// Picker runs picking sessions. One session may be live at a time per
// Picker; the zero value is not usable, call New.
type Picker struct {
	log    *zap.Logger
	active atomic.Bool
}

// New creates a Picker. A nil logger disables logging.
func New(log *zap.Logger) *Picker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Picker{log: log}
}

// Pick runs one session: permission gate, selection/crop interaction,
// then export of the confirmed snapshot.
//
// Session-fatal conditions return synchronously: ErrSessionActive,
// ErrCancelled, ErrPermissionDenied, or a permission.ErrUnavailable
// wrap. Per-asset export failures are never returned here; they travel
// inside the result stream.
func (p *Picker) Pick(ctx context.Context, src source.AssetSource, opts Options) (*Result, error) {
	opts = opts.normalized()

	if !p.active.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}
	started := false
	defer func() {
		if !started {
			p.active.Store(false)
		}
	}()

	if err := p.checkPermission(ctx, src, opts); err != nil {
		return nil, err
	}

	store := selection.NewStore(opts.MaxAssets, opts.SelectedAssets...)
	cfg := opts.cropConfig()
	ctl := cropctl.NewController(store, cfg)

	confirmed, err := opts.Interactor.Run(ctx, Env{
		Source:    src,
		Store:     store,
		Crop:      ctl,
		PageSize:  opts.PageSize,
		GridCount: opts.GridCount,
	})
	if err != nil {
		return nil, fmt.Errorf("selection interaction: %w", err)
	}
	if !confirmed {
		p.log.Info("picking cancelled by user")
		return nil, ErrCancelled
	}

	// A crop session left open at confirm time is committed, not
	// dropped.
	if _, open := ctl.Session(); open {
		if err := ctl.Commit(); err != nil {
			return nil, fmt.Errorf("committing open crop session: %w", err)
		}
	}

	sink := opts.Sink
	if sink == nil {
		sink, err = export.NewTempSink()
		if err != nil {
			return nil, err
		}
	}

	snapshot := store.Snapshot()
	assets := make([]source.Asset, len(snapshot))
	for i, e := range snapshot {
		assets[i] = e.Asset
	}

	p.log.Info("selection confirmed",
		zap.Int("assets", len(assets)),
		zap.Float64("output_size", cfg.PreferredOutputSize))

	stream := export.NewExporter(src, cfg, sink, p.log).Export(ctx, snapshot)
	results := make(chan export.Result)
	go func() {
		defer close(results)
		if opts.CloseOnComplete {
			defer p.End()
		}
		for r := range stream {
			select {
			case results <- r:
			case <-ctx.Done():
				return
			}
		}
	}()

	if opts.OnCompleted != nil {
		opts.OnCompleted(results)
	}

	started = true
	return &Result{Assets: assets, Exports: results}, nil
}

// End releases the session slot. Needed only when CloseOnComplete is
// false; idempotent and safe to call at any time.
func (p *Picker) End() {
	p.active.Store(false)
}

// Active reports whether a session currently holds the slot.
func (p *Picker) Active() bool {
	return p.active.Load()
}

// checkPermission runs the gate and handles denial reporting.
func (p *Picker) checkPermission(ctx context.Context, src source.AssetSource, opts Options) error {
	notify := opts.OnPermissionDenied
	if notify == nil {
		notify = func(msg string) {
			p.log.Warn("permission denied", zap.String("notice", msg))
		}
	}

	state, err := permission.NewGate(src.CheckPermission).Check(ctx)
	if err != nil {
		notify(deniedMessage)
		return err
	}

	switch state {
	case permission.Denied:
		notify(deniedMessage)
		return ErrPermissionDenied
	case permission.Limited:
		p.log.Warn("media library access is limited")
	}
	return nil
}
