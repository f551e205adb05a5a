package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"compgrip/internal/ui/state"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor
func NewExecutor(ctx context.Context, state *state.AppState, coord Coordinator) *Executor {
	return &Executor{
		ctx: &CommandContext{
			Ctx:         ctx,
			State:       state,
			Coordinator: coord,
		},
	}
}

// ExecuteToggle creates and executes a toggle command
func (e *Executor) ExecuteToggle(id string) tea.Cmd {
	return NewToggleCommand(e.ctx, id).Execute()
}

// ExecuteSetExpanded creates and executes an expand command
func (e *Executor) ExecuteSetExpanded(id string, expanded bool) tea.Cmd {
	return NewExpandCommand(e.ctx, id, expanded).Execute()
}

// ExecuteExpandAll creates and executes an expand-all command
func (e *Executor) ExecuteExpandAll(expand bool) tea.Cmd {
	return NewExpandAllCommand(e.ctx, expand).Execute()
}
