package state

import (
	"compgrip/internal/coordinator"
)

// ConfirmRequest is a question from the coordinator waiting for y/n
type ConfirmRequest struct {
	Message string
	Reply   chan bool
}

// AppState contains all the application state
type AppState struct {
	// Last consistent read of the coordinator
	View coordinator.View

	// Cursor and viewport
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int

	// Prompts waiting for an answer; the first one is shown
	Confirms []ConfirmRequest

	// UI state
	Loading       bool
	LoadError     string
	StatusMessage string
	StatusIsError bool
	ShowSizes     bool
	InPager       bool
	Quitting      bool
	Confirmed     bool
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		View: coordinator.View{
			Selected: make(map[string]bool),
			Required: make(map[string]bool),
			Expanded: make(map[string]bool),
			InFlight: make(map[string]bool),
		},
		ViewportHeight: 20, // Default
		Loading:        true,
		ShowSizes:      true,
	}
}

// SetStatus replaces the status line
func (s *AppState) SetStatus(msg string) {
	s.StatusMessage = msg
	s.StatusIsError = false
}

// SetError replaces the status line with an error
func (s *AppState) SetError(msg string) {
	s.StatusMessage = msg
	s.StatusIsError = true
}

// PushConfirm queues a prompt
func (s *AppState) PushConfirm(req ConfirmRequest) {
	s.Confirms = append(s.Confirms, req)
}

// ActiveConfirm returns the prompt on screen, if any
func (s *AppState) ActiveConfirm() (ConfirmRequest, bool) {
	if len(s.Confirms) == 0 {
		return ConfirmRequest{}, false
	}
	return s.Confirms[0], true
}

// AnswerConfirm replies to the prompt on screen and pops it
func (s *AppState) AnswerConfirm(yes bool) bool {
	req, ok := s.ActiveConfirm()
	if !ok {
		return false
	}
	s.Confirms = s.Confirms[1:]
	select {
	case req.Reply <- yes:
	default:
	}
	return true
}

// DeclineAll answers every queued prompt with no
func (s *AppState) DeclineAll() {
	for s.AnswerConfirm(false) {
	}
}

// IsBusy reports whether any toggle is in flight
func (s *AppState) IsBusy() bool {
	return len(s.View.InFlight) > 0
}
