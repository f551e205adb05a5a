package input

import (
	"compgrip/internal/ui/logic"
	"compgrip/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
	Rows  []logic.Row
}

// CurrentIndex returns the current selected index
func (c *ModelContext) CurrentIndex() int {
	return c.State.SelectedIndex
}

// TotalItems returns the total number of visible rows
func (c *ModelContext) TotalItems() int {
	return len(c.Rows)
}

// CurrentID returns the id of the row under the cursor
func (c *ModelContext) CurrentID() string {
	if row, ok := c.current(); ok {
		return row.ID
	}
	return ""
}

// IsOnCategory returns true if the cursor is on a category header
func (c *ModelContext) IsOnCategory() bool {
	row, ok := c.current()
	return ok && row.IsCategory()
}

// IsExpanded returns true if the cursor is on an expanded category
func (c *ModelContext) IsExpanded() bool {
	row, ok := c.current()
	return ok && row.IsCategory() && c.State.View.Expanded[row.ID]
}

// HasParent returns true if the row under the cursor is nested
func (c *ModelContext) HasParent() bool {
	row, ok := c.current()
	return ok && row.Parent >= 0
}

func (c *ModelContext) current() (logic.Row, bool) {
	i := c.State.SelectedIndex
	if i < 0 || i >= len(c.Rows) {
		return logic.Row{}, false
	}
	return c.Rows[i], true
}
