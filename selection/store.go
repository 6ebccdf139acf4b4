package selection

import (
	"errors"
	"sync"

	"github.com/assetpick/assetpick/source"
)

// ErrLimitReached reports an Add beyond the store's asset cap. The
// store is unchanged; UI feedback only, never fatal to the session.
var ErrLimitReached = errors.New("selection limit reached")

// Entry is one selected asset with its crop parameters.
//
// Order is the insertion sequence number. It is assigned from a counter
// that never decreases, so removing an entry never renumbers the rest,
// and re-adding a removed asset places it after every live entry.
// Iteration order of the store is selection order, which Reorder may
// change independently of Order values.
type Entry struct {
	Asset  source.Asset
	Params CropParams
	Order  int
}

// Store is the mutable ordered set of selected assets. Keyed by asset
// ID; safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	maxAssets int
	nextOrder int
	entries   []Entry
	index     map[string]int // asset ID -> position in entries
}

// NewStore creates a store capped at maxAssets, optionally pre-seeded
// with previously selected assets (in the given order, with default
// crop parameters). Seed assets beyond the cap are dropped.
func NewStore(maxAssets int, seed ...source.Asset) *Store {
	if maxAssets < 1 {
		maxAssets = 1
	}
	s := &Store{
		maxAssets: maxAssets,
		index:     make(map[string]int),
	}
	for _, a := range seed {
		if s.Add(a) != nil {
			break
		}
	}
	return s
}

// Add appends the asset with default crop parameters. Adding an asset
// that is already selected is a no-op; adding past the cap returns
// ErrLimitReached and leaves the store unchanged.
func (s *Store) Add(asset source.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[asset.ID]; ok {
		return nil
	}
	if len(s.entries) >= s.maxAssets {
		return ErrLimitReached
	}

	s.index[asset.ID] = len(s.entries)
	s.entries = append(s.entries, Entry{
		Asset:  asset,
		Params: DefaultCropParams(),
		Order:  s.nextOrder,
	})
	s.nextOrder++
	return nil
}

// Remove drops the asset from the selection. Remaining entries keep
// their Order values. Unknown IDs are ignored.
func (s *Store) Remove(assetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[assetID]
	if !ok {
		return
	}
	s.entries = append(s.entries[:pos], s.entries[pos+1:]...)
	delete(s.index, assetID)
	s.reindex(pos)
}

// Reorder moves the asset to newIndex in iteration order. Order values
// are untouched. Unknown IDs are an error; newIndex is clamped.
func (s *Store) Reorder(assetID string, newIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[assetID]
	if !ok {
		return errors.New("asset not selected: " + assetID)
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(s.entries) {
		newIndex = len(s.entries) - 1
	}
	if newIndex == pos {
		return nil
	}

	e := s.entries[pos]
	s.entries = append(s.entries[:pos], s.entries[pos+1:]...)
	s.entries = append(s.entries[:newIndex], append([]Entry{e}, s.entries[newIndex:]...)...)

	lo := pos
	if newIndex < lo {
		lo = newIndex
	}
	s.reindex(lo)
	return nil
}

// UpdateCrop replaces the crop parameters of a selected asset. A
// silent no-op when the asset is not selected; that is a caller error,
// not a store state.
func (s *Store) UpdateCrop(assetID string, params CropParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[assetID]; ok {
		s.entries[pos].Params = params
	}
}

// Entry returns the entry for an asset ID.
func (s *Store) Entry(assetID string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[assetID]; ok {
		return s.entries[pos], true
	}
	return Entry{}, false
}

// Len returns the number of selected assets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// MaxAssets returns the selection cap.
func (s *Store) MaxAssets() int {
	return s.maxAssets
}

// Assets returns the selected assets in iteration order.
func (s *Store) Assets() []source.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]source.Asset, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Asset
	}
	return out
}

// Snapshot returns a point-in-time copy of the selection in iteration
// order. Later store mutations do not affect a taken snapshot; this is
// the export pipeline's input.
func (s *Store) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// reindex rebuilds index positions from pos onward. Caller holds mu.
func (s *Store) reindex(pos int) {
	for i := pos; i < len(s.entries); i++ {
		s.index[s.entries[i].Asset.ID] = i
	}
}
