package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"compgrip/internal/coordinator"
	"compgrip/internal/domain"
	"compgrip/internal/ui/logic"
)

// TreeRenderer renders category and component rows
type TreeRenderer struct {
	styles *Styles
}

// NewTreeRenderer creates a new tree renderer
func NewTreeRenderer(styles *Styles) *TreeRenderer {
	return &TreeRenderer{styles: styles}
}

// CheckBox returns the marker for a tri-state value
func CheckBox(state domain.TriState) string {
	switch state {
	case domain.Checked:
		return "[x]"
	case domain.Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

// RenderRow renders one row. spinner is drawn next to ids with a request in flight.
func (t *TreeRenderer) RenderRow(row logic.Row, view coordinator.View, isSelected bool,
	showSizes bool, spinner string, width int) string {

	indent := strings.Repeat("  ", row.Depth)
	var line string
	if row.IsCategory() {
		line = indent + t.renderCategory(row.Category, view)
	} else {
		line = indent + "  " + t.renderComponent(row.Component, view, showSizes)
	}

	if view.InFlight[row.ID] && spinner != "" {
		line += " " + spinner
	}

	if isSelected {
		if width > 0 {
			if lineLen := lipgloss.Width(line); lineLen < width {
				line += strings.Repeat(" ", width-lineLen)
			}
		}
		return t.styles.SelectionBg.Render(line)
	}
	return line
}

func (t *TreeRenderer) renderCategory(cat *domain.Category, view coordinator.View) string {
	arrow := "▶"
	if view.Expanded[cat.ID] {
		arrow = "▼"
	}

	state := view.Tree[cat.ID]
	box := CheckBox(state)
	switch state {
	case domain.Checked:
		box = t.styles.Checked.Render(box)
	case domain.Indeterminate:
		box = t.styles.Partial.Render(box)
	}

	count := len(view.Catalogue.CategoryComponents(cat.ID))
	return fmt.Sprintf("%s %s %s %s", arrow, box, displayName(cat.Name, cat.ID), t.styles.Dim.Render(fmt.Sprintf("(%d)", count)))
}

func (t *TreeRenderer) renderComponent(comp *domain.Component, view coordinator.View, showSizes bool) string {
	state := view.ComponentState(*comp)
	var box string
	switch {
	case state.Locked:
		box = t.styles.Locked.Render("[#]")
	case state.Checked:
		box = t.styles.Checked.Render("[x]")
	default:
		box = "[ ]"
	}

	line := fmt.Sprintf("%s %s", box, displayName(comp.Name, comp.ID))
	if comp.Installed {
		line += " " + t.styles.Dim.Render("(installed)")
	}
	if showSizes && comp.DownloadSize > 0 {
		line += " " + t.styles.Size.Render(humanize.IBytes(comp.DownloadSize))
	}
	return line
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
