package modes

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"compgrip/internal/ui/input/types"
)

type NormalMode struct {
	keys        types.KeyMap
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.String() != "g" {
		m.lastKeyWasG = false
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true

	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{Force: false}}, true

	case key.Matches(msg, m.keys.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case key.Matches(msg, m.keys.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case key.Matches(msg, m.keys.PageUp):
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case key.Matches(msg, m.keys.PageDown):
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case key.Matches(msg, m.keys.Bottom):
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case key.Matches(msg, m.keys.Left):
		// collapse an open category, otherwise jump to the parent
		if ctx.IsOnCategory() && ctx.IsExpanded() {
			return []types.Action{types.SetExpandedAction{ID: ctx.CurrentID(), Expanded: false}}, true
		}
		if ctx.HasParent() {
			return []types.Action{types.NavigateAction{Direction: "parent"}}, true
		}
		return nil, true

	case key.Matches(msg, m.keys.Right):
		if !ctx.IsOnCategory() {
			return nil, true
		}
		if ctx.IsExpanded() {
			return []types.Action{types.NavigateAction{Direction: "down"}}, true
		}
		return []types.Action{types.SetExpandedAction{ID: ctx.CurrentID(), Expanded: true}}, true

	case key.Matches(msg, m.keys.Toggle):
		if ctx.CurrentID() == "" {
			return nil, true
		}
		return []types.Action{types.ToggleSelectionAction{ID: ctx.CurrentID()}}, true

	case key.Matches(msg, m.keys.Expand):
		if ctx.IsOnCategory() {
			return []types.Action{types.ToggleExpandedAction{ID: ctx.CurrentID()}}, true
		}
		return nil, true

	case key.Matches(msg, m.keys.Enter):
		// Enter expands a category header; on a component it accepts the selection
		if ctx.IsOnCategory() {
			return []types.Action{types.ToggleExpandedAction{ID: ctx.CurrentID()}}, true
		}
		return []types.Action{types.ConfirmSelectionAction{}}, true

	case key.Matches(msg, m.keys.Accept):
		return []types.Action{types.ConfirmSelectionAction{}}, true

	case key.Matches(msg, m.keys.ExpandAll):
		return []types.Action{types.ExpandAllAction{Expand: true}}, true

	case key.Matches(msg, m.keys.CollapseAll):
		return []types.Action{types.ExpandAllAction{Expand: false}}, true

	case key.Matches(msg, m.keys.Details):
		if ctx.CurrentID() == "" {
			return nil, true
		}
		return []types.Action{types.ShowDetailsAction{ID: ctx.CurrentID()}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	}

	if msg.String() == "g" {
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true
	}
	if msg.Type == tea.KeyHome {
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	}

	return nil, false
}
