package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCatalogueLoaded  EventType = "CatalogueLoaded"
	EventCatalogueChanged EventType = "CatalogueChanged"
	EventStateSynced      EventType = "StateSynced"
	EventToggleCompleted  EventType = "ToggleCompleted"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventAppReady         EventType = "AppReady"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CatalogueLoadedEvent is emitted once the catalogue for a session has been fetched
type CatalogueLoadedEvent struct {
	Source     string
	Components int
}

func (e CatalogueLoadedEvent) Type() EventType { return EventCatalogueLoaded }

// CatalogueChangedEvent is emitted when a watched catalogue source was rewritten
type CatalogueChangedEvent struct {
	Source    string
	Catalogue *Catalogue
}

func (e CatalogueChangedEvent) Type() EventType { return EventCatalogueChanged }

// StateSyncedEvent carries the resolver's authoritative state.
// Catalogue is nil unless the catalogue itself was replaced.
type StateSyncedEvent struct {
	Catalogue *Catalogue
	Selection Selection
}

func (e StateSyncedEvent) Type() EventType { return EventStateSynced }

// ToggleCompletedEvent is emitted when a select or unselect request reaches a terminal state
type ToggleCompletedEvent struct {
	RequestID string
	ID        string
	Op        string
	State     string
	Err       error
}

func (e ToggleCompletedEvent) Type() EventType { return EventToggleCompleted }

// ErrorEvent is emitted when an error occurs outside a toggle request
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path    string
	Name    string
	Channel string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// AppReadyEvent is emitted when the app is fully initialized and ready
type AppReadyEvent struct {
	Components int
}

func (e AppReadyEvent) Type() EventType { return EventAppReady }
