package permission

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// State is the outcome of a media-library permission check.
type State int

const (
	// Granted means full library access.
	Granted State = iota
	// Limited means the OS granted access to a user-chosen subset of
	// the library. Sufficient to run a session.
	Limited
	// Denied means no access; the session must abort with a notice.
	Denied
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Granted:
		return "granted"
	case Limited:
		return "limited"
	case Denied:
		return "denied"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrUnavailable reports that the platform permission check itself
// failed. This is distinct from Denied: the caller may want custom
// recovery instead of the standard denial notice.
var ErrUnavailable = errors.New("permission check unavailable")

// CheckFunc performs the platform permission check.
type CheckFunc func(ctx context.Context) (State, error)

// Gate wraps a platform permission check for a single picking session.
//
// The first Check call runs the platform check; concurrent and later
// calls wait for and reuse that result. A checker error or panic is
// reported as ErrUnavailable, never silently treated as Denied.
type Gate struct {
	check CheckFunc

	mu    sync.Mutex
	done  bool
	state State
	err   error
}

// NewGate creates a gate around the given platform check.
func NewGate(check CheckFunc) *Gate {
	return &Gate{check: check}
}

// Check runs the platform permission check once and returns its result.
func (g *Gate) Check(ctx context.Context) (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done {
		return g.state, g.err
	}

	state, err := g.run(ctx)
	if err != nil {
		state = Denied
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	g.done = true
	g.state = state
	g.err = err
	return g.state, g.err
}

// run invokes the checker, converting a panic into an error. Platform
// bindings are allowed to throw; the core is not.
func (g *Gate) run(ctx context.Context) (state State, err error) {
	if g.check == nil {
		return Denied, fmt.Errorf("%w: no checker configured", ErrUnavailable)
	}
	defer func() {
		if r := recover(); r != nil {
			state = Denied
			err = fmt.Errorf("%w: checker panic: %v", ErrUnavailable, r)
		}
	}()
	return g.check(ctx)
}
