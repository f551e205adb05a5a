package domain

import "sort"

// Component is a single installable unit of the catalogue
type Component struct {
	ID           string
	Name         string
	Description  string
	DateModified string
	DownloadSize uint64
	InstallSize  uint64
	Path         string
	Hash         string
	DependsOn    []string // full component ids
	Required     bool     // cannot be deselected through this node
	Installed    bool
}

// Category groups components and nested categories
type Category struct {
	ID            string
	Name          string
	Description   string
	Required      bool
	Subcategories []Category
	Components    []Component
}

// Catalogue is the component forest served for one installation channel
type Catalogue struct {
	URL        string
	Categories []Category
}

// Selection is the resolver's view of what is picked.
// Revision increases with every state the resolver publishes.
type Selection struct {
	Selected []string
	Required []string
	Revision uint64
}

// TriState is the derived checkbox state of a category
type TriState int

const (
	Unchecked TriState = iota
	Indeterminate
	Checked
)

func (s TriState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Members returns every component in the category subtree, subcategories first
func (c *Category) Members() []Component {
	var out []Component
	for i := range c.Subcategories {
		out = append(out, c.Subcategories[i].Members()...)
	}
	out = append(out, c.Components...)
	return out
}

// MemberIDs returns the ids of Members
func (c *Category) MemberIDs() []string {
	members := c.Members()
	ids := make([]string, len(members))
	for i, comp := range members {
		ids[i] = comp.ID
	}
	return ids
}

// FindComponent looks up a component anywhere in the forest
func (c *Catalogue) FindComponent(id string) *Component {
	if c == nil {
		return nil
	}
	var found *Component
	c.Walk(func(cat *Category, depth int) bool {
		for i := range cat.Components {
			if cat.Components[i].ID == id {
				found = &cat.Components[i]
				return false
			}
		}
		return true
	})
	return found
}

// FindCategory looks up a category anywhere in the forest
func (c *Catalogue) FindCategory(id string) *Category {
	if c == nil {
		return nil
	}
	var found *Category
	c.Walk(func(cat *Category, depth int) bool {
		if cat.ID == id {
			found = cat
			return false
		}
		return true
	})
	return found
}

// HasComponent reports whether id names a component
func (c *Catalogue) HasComponent(id string) bool {
	return c.FindComponent(id) != nil
}

// HasNode reports whether id names a component or a category
func (c *Catalogue) HasNode(id string) bool {
	return c.FindComponent(id) != nil || c.FindCategory(id) != nil
}

// Components returns all components in tree order
func (c *Catalogue) Components() []Component {
	if c == nil {
		return nil
	}
	var out []Component
	for i := range c.Categories {
		out = append(out, c.Categories[i].Members()...)
	}
	return out
}

// CategoryComponents returns the member ids of a category, nil if it does not exist
func (c *Catalogue) CategoryComponents(id string) []string {
	cat := c.FindCategory(id)
	if cat == nil {
		return nil
	}
	return cat.MemberIDs()
}

// Walk visits categories depth-first in pre-order. Returning false stops the walk.
func (c *Catalogue) Walk(fn func(cat *Category, depth int) bool) {
	var walk func(cats []Category, depth int) bool
	walk = func(cats []Category, depth int) bool {
		for i := range cats {
			if !fn(&cats[i], depth) {
				return false
			}
			if !walk(cats[i].Subcategories, depth+1) {
				return false
			}
		}
		return true
	}
	walk(c.Categories, 0)
}

// SortedIDs returns the keys of a set in ascending order
func SortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id, ok := range set {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
