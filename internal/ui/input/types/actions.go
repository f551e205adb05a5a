package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end", "parent"
}

func (a NavigateAction) Type() string { return "navigate" }

// ToggleSelectionAction selects or unselects the row under the cursor
type ToggleSelectionAction struct {
	ID string
}

func (a ToggleSelectionAction) Type() string { return "toggle_selection" }

// Expansion actions
type SetExpandedAction struct {
	ID       string
	Expanded bool
}

func (a SetExpandedAction) Type() string { return "set_expanded" }

type ToggleExpandedAction struct {
	ID string
}

func (a ToggleExpandedAction) Type() string { return "toggle_expanded" }

type ExpandAllAction struct {
	Expand bool
}

func (a ExpandAllAction) Type() string { return "expand_all" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// AnswerConfirmAction replies to the prompt on screen
type AnswerConfirmAction struct {
	Yes bool
}

func (a AnswerConfirmAction) Type() string { return "answer_confirm" }

type ShowDetailsAction struct {
	ID string
}

func (a ShowDetailsAction) Type() string { return "show_details" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

// ConfirmSelectionAction accepts the current selection and ends the session
type ConfirmSelectionAction struct{}

func (a ConfirmSelectionAction) Type() string { return "confirm_selection" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
