package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"compgrip/internal/ui/state"
)

// Coordinator is the part of the propagation coordinator the UI drives
type Coordinator interface {
	Toggle(ctx context.Context, id string) error
	SetExpanded(id string, expanded bool)
	ExpandAll()
	CollapseAll()
}

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	Ctx         context.Context
	State       *state.AppState
	Coordinator Coordinator
}

// ToggleDoneMsg is delivered when a toggle request returns
type ToggleDoneMsg struct {
	ID  string
	Err error
}

// ToggleCommand selects or unselects a row. The request runs off the UI goroutine
// because it may wait on the resolver or on a confirmation prompt.
type ToggleCommand struct {
	ctx *CommandContext
	id  string
}

// NewToggleCommand creates a new toggle command
func NewToggleCommand(ctx *CommandContext, id string) *ToggleCommand {
	return &ToggleCommand{ctx: ctx, id: id}
}

// Execute starts the toggle
func (c *ToggleCommand) Execute() tea.Cmd {
	if c.id == "" {
		return nil
	}
	ctx, coord, id := c.ctx.Ctx, c.ctx.Coordinator, c.id
	return func() tea.Msg {
		return ToggleDoneMsg{ID: id, Err: coord.Toggle(ctx, id)}
	}
}

// ExpandCommand changes the expanded flag of one category
type ExpandCommand struct {
	ctx      *CommandContext
	id       string
	expanded bool
}

// NewExpandCommand creates a new expand command
func NewExpandCommand(ctx *CommandContext, id string, expanded bool) *ExpandCommand {
	return &ExpandCommand{ctx: ctx, id: id, expanded: expanded}
}

// Execute applies the change
func (c *ExpandCommand) Execute() tea.Cmd {
	c.ctx.Coordinator.SetExpanded(c.id, c.expanded)
	return nil
}

// ExpandAllCommand expands or collapses every category
type ExpandAllCommand struct {
	ctx    *CommandContext
	expand bool
}

// NewExpandAllCommand creates a new expand-all command
func NewExpandAllCommand(ctx *CommandContext, expand bool) *ExpandAllCommand {
	return &ExpandAllCommand{ctx: ctx, expand: expand}
}

// Execute applies the change
func (c *ExpandAllCommand) Execute() tea.Cmd {
	if c.expand {
		c.ctx.Coordinator.ExpandAll()
		c.ctx.State.SetStatus("Expanded all categories")
	} else {
		c.ctx.Coordinator.CollapseAll()
		c.ctx.State.SetStatus("Collapsed all categories")
	}
	return nil
}
