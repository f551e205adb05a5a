package logic

import "sync"

// MemorySelectionStore is an in-memory implementation of SelectionStore
type MemorySelectionStore struct {
	mu       sync.RWMutex
	selected map[string]bool
	required map[string]bool
	expanded map[string]bool
}

// NewMemorySelectionStore creates an empty store
func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{
		selected: make(map[string]bool),
		required: make(map[string]bool),
		expanded: make(map[string]bool),
	}
}

func (s *MemorySelectionStore) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[id]
}

func (s *MemorySelectionStore) IsRequired(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.required[id]
}

// IsEffectivelySelected reports membership in selected ∪ required
func (s *MemorySelectionStore) IsEffectivelySelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[id] || s.required[id]
}

func (s *MemorySelectionStore) IsExpanded(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded[id]
}

// Select adds ids to the selected set
func (s *MemorySelectionStore) Select(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.selected[id] = true
	}
}

// Unselect removes ids from the selected set. The required set is left untouched.
func (s *MemorySelectionStore) Unselect(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.selected, id)
	}
}

// Replace atomically swaps in authoritative selected and required sets
func (s *MemorySelectionStore) Replace(selected, required []string) {
	sel := make(map[string]bool, len(selected))
	for _, id := range selected {
		sel[id] = true
	}
	req := make(map[string]bool, len(required))
	for _, id := range required {
		req[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = sel
	s.required = req
}

// Prune drops selected and required ids for which valid returns false,
// and expanded ids for which validNode returns false. It returns the dropped selection ids.
func (s *MemorySelectionStore) Prune(valid func(id string) bool, validNode func(id string) bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := make(map[string]bool)
	for id := range s.selected {
		if !valid(id) {
			delete(s.selected, id)
			dropped[id] = true
		}
	}
	for id := range s.required {
		if !valid(id) {
			delete(s.required, id)
			dropped[id] = true
		}
	}
	for id := range s.expanded {
		if !validNode(id) {
			delete(s.expanded, id)
		}
	}

	out := make([]string, 0, len(dropped))
	for id := range dropped {
		out = append(out, id)
	}
	return out
}

func (s *MemorySelectionStore) SetExpanded(id string, expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expanded {
		s.expanded[id] = true
	} else {
		delete(s.expanded, id)
	}
}

// SetAllExpanded replaces the expanded set
func (s *MemorySelectionStore) SetAllExpanded(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.expanded[id] = true
	}
}

// Snapshot returns copies of all three sets
func (s *MemorySelectionStore) Snapshot() StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreSnapshot{
		Selected: copySet(s.selected),
		Required: copySet(s.required),
		Expanded: copySet(s.expanded),
	}
}

func copySet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		if v {
			out[k] = true
		}
	}
	return out
}
