package logic

// SelectionStore holds the selected, required and expanded id sets
type SelectionStore interface {
	IsSelected(id string) bool
	IsRequired(id string) bool
	IsEffectivelySelected(id string) bool
	IsExpanded(id string) bool
	Select(ids ...string)
	Unselect(ids ...string)
	Replace(selected, required []string)
	Prune(valid func(id string) bool, validNode func(id string) bool) []string
	SetExpanded(id string, expanded bool)
	SetAllExpanded(ids []string)
	Snapshot() StoreSnapshot
}

// StoreSnapshot is a point-in-time copy of a SelectionStore
type StoreSnapshot struct {
	Selected map[string]bool
	Required map[string]bool
	Expanded map[string]bool
}
