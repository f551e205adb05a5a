package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compgrip/internal/catalogue"
	"compgrip/internal/coordinator"
	"compgrip/internal/eventbus"
	"compgrip/internal/ui/state"
)

func newHandler(t *testing.T) (*EventHandler, *state.AppState) {
	t.Helper()
	cat, err := catalogue.ParseString(`<list>
  <category id="media" title="Media">
    <component id="player" title="Player"/>
  </category>
</list>`)
	require.NoError(t, err)
	st := state.NewAppState()
	st.View.Catalogue = cat
	return NewEventHandler(st), st
}

func toggled(id string, op coordinator.Op, rs coordinator.RequestState, err error) eventbus.ToggleCompletedEvent {
	return eventbus.ToggleCompletedEvent{ID: id, Op: string(op), State: string(rs), Err: err}
}

func TestHandleEventStatus(t *testing.T) {
	tests := []struct {
		name    string
		event   eventbus.DomainEvent
		want    string
		isError bool
	}{
		{"loaded", eventbus.CatalogueLoadedEvent{Components: 4}, "Loaded 4 components", false},
		{"changed", eventbus.CatalogueChangedEvent{Source: "x.xml"}, "Component list changed on disk, reloaded", false},
		{"error", eventbus.ErrorEvent{Message: "disk full"}, "Error: disk full", true},
		{"selected", toggled("media-player", coordinator.OpSelect, coordinator.StateDone, nil), "Selected Player", false},
		{"unselected", toggled("media-player", coordinator.OpUnselect, coordinator.StateDone, nil), "Unselected Player", false},
		{"declined", toggled("media-player", coordinator.OpUnselect, coordinator.StateAborted, nil), "Kept Player selected", false},
		{"category name", toggled("media", coordinator.OpSelect, coordinator.StateDone, nil), "Selected Media", false},
		{"required", toggled("media-player", coordinator.OpSelect, coordinator.StateAborted, coordinator.ErrComponentRequired),
			"Player is required and cannot be changed", true},
		{"in flight", toggled("media-player", coordinator.OpSelect, coordinator.StateAborted, coordinator.ErrRequestInFlight),
			"Player is still being updated", false},
		{"resolver failure", toggled("media-player", coordinator.OpSelect, coordinator.StateFailed, errors.New("timeout")),
			"Could not update Player: timeout", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, st := newHandler(t)
			h.HandleEvent(tt.event)
			assert.Equal(t, tt.want, st.StatusMessage)
			assert.Equal(t, tt.isError, st.StatusIsError)
		})
	}
}

func TestStaleToggleIsSilent(t *testing.T) {
	h, st := newHandler(t)
	st.SetStatus("before")

	h.HandleEvent(toggled("gone", coordinator.OpSelect, coordinator.StateDropped, coordinator.ErrStaleReference))
	assert.Equal(t, "before", st.StatusMessage)

	h.HandleEvent(eventbus.AppReadyEvent{Components: 1})
	assert.Equal(t, "before", st.StatusMessage, "unhandled events leave the status alone")
}
