package cropctl

import (
	"errors"
	"fmt"

	"github.com/assetpick/assetpick/selection"
)

// State identifies where the controller is in the crop-review flow.
// Committing and Cancelled are pass-through states: the controller
// reports them to observers registered for the transition but always
// comes to rest in Idle.
type State int

const (
	Idle State = iota
	Editing
	Committing
	Cancelled
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Committing:
		return "committing"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNotSelected reports a Begin for an asset that is not in the
// selection store.
var ErrNotSelected = errors.New("asset not selected")

// ErrNoSession reports an adjustment or commit with no session open.
var ErrNoSession = errors.New("no crop session active")

// Session is the transient editing state for one asset.
type Session struct {
	AssetID string
	Pending selection.CropParams
	Dirty   bool
}

// TransitionFunc observes state transitions, including the
// pass-through Committing and Cancelled states. Used by UIs to animate
// the crop view.
type TransitionFunc func(from, to State)

// Controller is the crop-review state machine for one picking session.
// It holds a transient reference to the session's selection store; the
// store remains owned by the orchestrator.
type Controller struct {
	store *selection.Store
	cfg   selection.CropConfig

	state State
	sess  *Session

	onTransition TransitionFunc
}

// NewController binds a controller to a store and crop configuration.
func NewController(store *selection.Store, cfg selection.CropConfig) *Controller {
	return &Controller{store: store, cfg: cfg}
}

// OnTransition registers a transition observer. Pass nil to remove it.
func (c *Controller) OnTransition(fn TransitionFunc) {
	c.onTransition = fn
}

// State returns the controller's current resting state.
func (c *Controller) State() State {
	return c.state
}

// Session returns a copy of the open session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.sess == nil {
		return Session{}, false
	}
	return *c.sess, true
}

// Begin opens a crop session for the given asset, seeded from the
// entry's current crop parameters. An open session for another asset
// is committed first.
func (c *Controller) Begin(assetID string) error {
	if c.sess != nil {
		if c.sess.AssetID == assetID {
			return nil
		}
		if err := c.Commit(); err != nil {
			return err
		}
	}

	entry, ok := c.store.Entry(assetID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSelected, assetID)
	}

	c.sess = &Session{AssetID: assetID, Pending: entry.Params}
	c.transition(Editing)
	return nil
}

// SetRect replaces the pending crop rect. The rect is clipped into
// [0,1]².
func (c *Controller) SetRect(r selection.Rect) error {
	if c.sess == nil {
		return ErrNoSession
	}
	c.sess.Pending.Rect = r.Clip()
	c.sess.Dirty = true
	return nil
}

// SetRotation replaces the pending rotation.
func (c *Controller) SetRotation(rot selection.Rotation) error {
	if c.sess == nil {
		return ErrNoSession
	}
	c.sess.Pending.Rotation = rot
	c.sess.Dirty = true
	return nil
}

// SetScale replaces the pending scale. Non-positive scales are
// rejected.
func (c *Controller) SetScale(scale float64) error {
	if c.sess == nil {
		return ErrNoSession
	}
	if scale <= 0 {
		return fmt.Errorf("invalid scale %v", scale)
	}
	c.sess.Pending.Scale = scale
	c.sess.Dirty = true
	return nil
}

// SetAspectRatio switches the pending aspect ratio, re-deriving the
// pending rect as the largest rect of the new ratio inside the current
// one, centered.
func (c *Controller) SetAspectRatio(index int) error {
	if c.sess == nil {
		return ErrNoSession
	}
	if index < 0 || index >= len(c.cfg.AspectRatios) {
		return fmt.Errorf("aspect ratio index %d out of range", index)
	}
	c.sess.Pending.AspectRatioIndex = index
	c.sess.Pending.Rect = selection.FitRatio(c.sess.Pending.Rect, c.cfg.Ratio(index))
	c.sess.Dirty = true
	return nil
}

// Commit writes the pending parameters back into the selection store
// and closes the session.
func (c *Controller) Commit() error {
	if c.sess == nil {
		return ErrNoSession
	}

	c.transition(Committing)
	c.store.UpdateCrop(c.sess.AssetID, c.sess.Pending)
	c.sess = nil
	c.transition(Idle)
	return nil
}

// Cancel discards the pending parameters and closes the session. The
// store entry is untouched. A no-op with no session open.
func (c *Controller) Cancel() {
	if c.sess == nil {
		return
	}

	c.transition(Cancelled)
	c.sess = nil
	c.transition(Idle)
}

func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
}
