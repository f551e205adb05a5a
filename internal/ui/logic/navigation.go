package logic

import (
	"compgrip/internal/domain"
)

// RowKind tells category rows from component rows
type RowKind int

const (
	RowCategory RowKind = iota
	RowComponent
)

// Row is one visible line of the tree
type Row struct {
	Kind      RowKind
	ID        string
	Depth     int
	Parent    int // index of the parent row, -1 at top level
	Category  *domain.Category
	Component *domain.Component
}

// IsCategory reports whether the row is a category header
func (r Row) IsCategory() bool {
	return r.Kind == RowCategory
}

// FlattenVisible lists the rows of every category and, for expanded categories, their members.
// Subcategories come before a category's own components.
func FlattenVisible(cat *domain.Catalogue, expanded map[string]bool) []Row {
	if cat == nil {
		return nil
	}
	var rows []Row
	var visit func(c *domain.Category, depth, parent int)
	visit = func(c *domain.Category, depth, parent int) {
		idx := len(rows)
		rows = append(rows, Row{Kind: RowCategory, ID: c.ID, Depth: depth, Parent: parent, Category: c})
		if !expanded[c.ID] {
			return
		}
		for i := range c.Subcategories {
			visit(&c.Subcategories[i], depth+1, idx)
		}
		for i := range c.Components {
			comp := &c.Components[i]
			rows = append(rows, Row{Kind: RowComponent, ID: comp.ID, Depth: depth + 1, Parent: idx, Component: comp})
		}
	}
	for i := range cat.Categories {
		visit(&cat.Categories[i], 0, -1)
	}
	return rows
}

// IndexOf returns the row index of id, or -1
func IndexOf(rows []Row, id string) int {
	for i, row := range rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// Navigator handles navigation and viewport management
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{viewportHeight: 20}
}

// UpdateState updates the navigator's state
func (n *Navigator) UpdateState(selectedIndex, viewportOffset, viewportHeight, totalItems int) {
	n.selectedIndex = selectedIndex
	n.viewportOffset = viewportOffset
	n.viewportHeight = viewportHeight
	n.totalItems = totalItems
}

// SetSelectedIndex clamps index to the rows and scrolls it into view
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = index
	n.clamp()
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Move shifts the cursor by delta rows
func (n *Navigator) Move(delta int) (int, int) {
	return n.SetSelectedIndex(n.selectedIndex + delta)
}

// PageUp moves the cursor one viewport up
func (n *Navigator) PageUp() (int, int) {
	return n.Move(-n.pageSize())
}

// PageDown moves the cursor one viewport down
func (n *Navigator) PageDown() (int, int) {
	return n.Move(n.pageSize())
}

// GetMaxIndex returns the maximum selectable index
func (n *Navigator) GetMaxIndex() int {
	return n.totalItems - 1
}

func (n *Navigator) pageSize() int {
	if n.viewportHeight > 2 {
		return n.viewportHeight - 2
	}
	return 1
}

func (n *Navigator) clamp() {
	if n.selectedIndex > n.totalItems-1 {
		n.selectedIndex = n.totalItems - 1
	}
	if n.selectedIndex < 0 {
		n.selectedIndex = 0
	}
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible,
// leaving room for the "more above" and "more below" indicators
func (n *Navigator) ensureSelectedVisible() {
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	needsTopIndicator := n.viewportOffset > 0
	needsBottomIndicator := n.viewportOffset+n.viewportHeight < n.totalItems
	if !needsBottomIndicator && needsTopIndicator {
		if n.totalItems-n.viewportOffset > n.viewportHeight-1 {
			needsBottomIndicator = true
		}
	}

	effectiveHeight := n.viewportHeight
	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}

	if n.selectedIndex >= n.viewportOffset+effectiveHeight {
		n.viewportOffset = n.selectedIndex - effectiveHeight + 1
	}

	maxOffset := n.totalItems - effectiveHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
