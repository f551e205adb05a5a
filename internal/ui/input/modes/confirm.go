package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"compgrip/internal/ui/input/types"
)

// ConfirmMode answers the dependants prompt. Every other key is swallowed.
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{
			types.AnswerConfirmAction{Yes: false},
			types.QuitAction{Force: true},
		}, true

	case "y", "Y":
		return []types.Action{types.AnswerConfirmAction{Yes: true}}, true

	case "n", "N", "esc":
		return []types.Action{types.AnswerConfirmAction{Yes: false}}, true
	}

	return nil, true
}
