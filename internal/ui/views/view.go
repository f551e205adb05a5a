package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"compgrip/internal/coordinator"
	"compgrip/internal/ui/logic"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Title          string
	Rows           []logic.Row
	View           coordinator.View
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	ShowSizes      bool
	Spinner        string
	Loading        bool
	LoadError      string
	StatusMessage  string
	StatusIsError  bool
	PlanSummary    string
	ConfirmMessage string
	HelpView       string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	treeRender  *TreeRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		treeRender:  NewTreeRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	switch {
	case state.Loading:
		content.WriteString(r.styles.Dim.Render(state.Spinner + " Loading component list..."))
	case state.LoadError != "":
		content.WriteString(r.styles.StatusError.Render("Failed to load component list: " + state.LoadError))
	case len(state.Rows) == 0:
		content.WriteString(r.styles.Dim.Render("The component list is empty."))
	default:
		content.WriteString(r.renderTree(state))
	}

	footer := r.renderFooter(state)

	// push the footer to the bottom; Main adds one line of padding above and below
	availableLines := state.Height - 2
	if availableLines <= 0 {
		availableLines = 22
	}
	currentLines := strings.Count(content.String(), "\n") + 1
	footerLines := strings.Count(footer, "\n") + 1
	if padding := availableLines - currentLines - footerLines; padding > 0 {
		content.WriteString(strings.Repeat("\n", padding))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	finalContent := mainStyle.Render(content.String())

	if state.ConfirmMessage != "" {
		prompt := state.ConfirmMessage + "\n\n" + r.styles.Dim.Render("y: yes • n/esc: no")
		return r.popupRender.RenderPopupOverlay(finalContent, prompt, state.Height, state.Width)
	}

	return finalContent
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render(state.Title)
	busy := len(state.View.InFlight)
	if busy == 0 {
		return logo
	}

	right := r.styles.Dim.Render(fmt.Sprintf("%s Working %d", state.Spinner, busy))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if paddingWidth < 2 {
		paddingWidth = 2
	}
	// the title style carries a bottom margin, keep the indicator on its first line
	lines := strings.SplitN(logo, "\n", 2)
	lines[0] += strings.Repeat(" ", paddingWidth) + right
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderFooter(state ViewState) string {
	var lines []string
	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = r.styles.StatusError
		}
		lines = append(lines, style.Render(state.StatusMessage))
	}
	if state.PlanSummary != "" {
		lines = append(lines, r.styles.Plan.Render(state.PlanSummary))
	}
	if state.HelpView != "" {
		lines = append(lines, state.HelpView)
	}
	return strings.Join(lines, "\n")
}

// renderTree renders the visible window of rows with scroll indicators
func (r *Renderer) renderTree(state ViewState) string {
	total := len(state.Rows)
	height := state.ViewportHeight
	if height < 1 {
		height = 1
	}

	needsTopIndicator := state.ViewportOffset > 0
	effectiveHeight := height
	if needsTopIndicator {
		effectiveHeight--
	}
	needsBottomIndicator := state.ViewportOffset+effectiveHeight < total
	if needsBottomIndicator {
		effectiveHeight--
	}
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}

	width := state.Width - 4
	var lines []string
	if needsTopIndicator {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", state.ViewportOffset)))
	}
	end := state.ViewportOffset + effectiveHeight
	if end > total {
		end = total
	}
	for i := state.ViewportOffset; i < end; i++ {
		lines = append(lines, r.treeRender.RenderRow(state.Rows[i], state.View, i == state.SelectedIndex,
			state.ShowSizes, state.Spinner, width))
	}
	if needsBottomIndicator {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", total-end)))
	}
	return strings.Join(lines, "\n")
}
