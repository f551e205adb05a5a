package ui

import (
	"compgrip/internal/domain"
	"compgrip/internal/eventbus"
	"compgrip/internal/ui/state"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// loadedMsg is sent once the first catalogue fetch returns
type loadedMsg struct {
	catalogue *domain.Catalogue
	err       error
}

// confirmRequestMsg carries a coordinator question into the UI loop
type confirmRequestMsg struct {
	request state.ConfirmRequest
}

// pauseRenderingMsg signals that an external pager owns the terminal
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals that the pager has exited
type resumeRenderingMsg struct{}
