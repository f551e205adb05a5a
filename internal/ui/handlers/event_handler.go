package handlers

import (
	"fmt"
	"log"

	"compgrip/internal/coordinator"
	"compgrip/internal/eventbus"
	"compgrip/internal/ui/state"
)

// EventHandler turns domain events into status line updates
type EventHandler struct {
	state *state.AppState
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState) *EventHandler {
	return &EventHandler{state: appState}
}

// HandleEvent processes domain events
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.CatalogueLoadedEvent:
		h.state.SetStatus(fmt.Sprintf("Loaded %d components", e.Components))

	case eventbus.CatalogueChangedEvent:
		h.state.SetStatus("Component list changed on disk, reloaded")

	case eventbus.ToggleCompletedEvent:
		h.handleToggle(e)

	case eventbus.ErrorEvent:
		h.state.SetError(fmt.Sprintf("Error: %s", e.Message))
	}
}

func (h *EventHandler) handleToggleError(id string, err error) {
	if err == nil {
		return
	}
	name := h.name(id)
	switch {
	case coordinator.IsStaleReference(err):
		// the row vanished under a catalogue replacement
		log.Printf("UI: dropped stale toggle for %s", id)
	case coordinator.IsComponentRequired(err):
		h.state.SetError(fmt.Sprintf("%s is required and cannot be changed", name))
	case coordinator.IsRequestInFlight(err):
		h.state.SetStatus(fmt.Sprintf("%s is still being updated", name))
	default:
		h.state.SetError(fmt.Sprintf("Could not update %s: %v", name, err))
	}
}

func (h *EventHandler) handleToggle(e eventbus.ToggleCompletedEvent) {
	if e.Err != nil {
		h.handleToggleError(e.ID, e.Err)
		return
	}
	name := h.name(e.ID)
	switch coordinator.RequestState(e.State) {
	case coordinator.StateDone:
		if coordinator.Op(e.Op) == coordinator.OpSelect {
			h.state.SetStatus(fmt.Sprintf("Selected %s", name))
		} else {
			h.state.SetStatus(fmt.Sprintf("Unselected %s", name))
		}
	case coordinator.StateAborted:
		h.state.SetStatus(fmt.Sprintf("Kept %s selected", name))
	}
}

func (h *EventHandler) name(id string) string {
	cat := h.state.View.Catalogue
	if comp := cat.FindComponent(id); comp != nil && comp.Name != "" {
		return comp.Name
	}
	if c := cat.FindCategory(id); c != nil && c.Name != "" {
		return c.Name
	}
	return id
}
