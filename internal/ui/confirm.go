package ui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"compgrip/internal/ui/state"
)

// ErrNoProgram is returned when a confirmation is requested before the program runs
var ErrNoProgram = errors.New("confirmation prompt is not available")

// Confirmer asks the running program a yes/no question. Confirm blocks the calling
// goroutine until the user answers or ctx is cancelled; the UI keeps running.
type Confirmer struct {
	mu      sync.Mutex
	program *tea.Program
}

// NewConfirmer creates a confirmer; SetProgram must be called before it is used
func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// SetProgram attaches the program prompts are sent to
func (c *Confirmer) SetProgram(p *tea.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program = p
}

// Confirm implements coordinator.Confirmer
func (c *Confirmer) Confirm(ctx context.Context, message string) (bool, error) {
	c.mu.Lock()
	p := c.program
	c.mu.Unlock()
	if p == nil {
		return false, ErrNoProgram
	}

	reply := make(chan bool, 1)
	p.Send(confirmRequestMsg{request: state.ConfirmRequest{Message: message, Reply: reply}})

	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
