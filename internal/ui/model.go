package ui

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"compgrip/internal/config"
	"compgrip/internal/coordinator"
	"compgrip/internal/eventbus"
	"compgrip/internal/resolver"
	"compgrip/internal/ui/commands"
	"compgrip/internal/ui/handlers"
	"compgrip/internal/ui/input"
	inputtypes "compgrip/internal/ui/input/types"
	"compgrip/internal/ui/logic"
	"compgrip/internal/ui/state"
	"compgrip/internal/ui/views"
)

// E2EEnv marks a run under the pty test driver
const E2EEnv = "COMPGRIP_E2E_TEST"

// Model represents the UI state
type Model struct {
	ctx   context.Context
	bus   eventbus.EventBus
	cfg   *config.Config
	coord *coordinator.Coordinator
	state *state.AppState // centralized state
	rows  []logic.Row     // visible tree rows, rebuilt on every refresh

	width   int
	height  int
	help    help.Model
	spinner spinner.Model

	// Handlers
	navigator    *logic.Navigator
	renderer     *views.Renderer
	eventHandler *handlers.EventHandler
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler
	pager        *PagerOps

	program *tea.Program
	plan    *resolver.Plan
	e2e     bool
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, bus eventbus.EventBus, cfg *config.Config, coord *coordinator.Coordinator) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	appState := state.NewAppState()
	appState.ShowSizes = cfg.UI.ShowSizes

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	m := &Model{
		ctx:          ctx,
		bus:          bus,
		cfg:          cfg,
		coord:        coord,
		state:        appState,
		help:         help.New(),
		spinner:      sp,
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(),
		eventHandler: handlers.NewEventHandler(appState),
		cmdExecutor:  commands.NewExecutor(ctx, appState, coord),
		inputHandler: input.New(),
		e2e:          os.Getenv(E2EEnv) == "1",
	}
	m.refresh()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Plan returns the accepted install plan, or nil if the user quit without accepting
func (m *Model) Plan() *resolver.Plan {
	return m.plan
}

// Init starts the spinner and the catalogue fetch
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCatalogue())
}

func (m *Model) loadCatalogue() tea.Cmd {
	ctx, coord := m.ctx, m.coord
	return func() tea.Msg {
		cat, err := coord.Load(ctx)
		return loadedMsg{catalogue: cat, err: err}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		if m.state.InPager {
			return m, nil
		}

		actions := m.inputHandler.HandleKey(msg, m.inputContext())
		var cmds []tea.Cmd
		for _, action := range actions {
			if cmd := m.processAction(action); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		m.refresh()
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// syncs land on the coordinator asynchronously; pick them up on every frame
		m.refresh()
		return m, cmd

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.state.Loading = false
		if msg.err != nil {
			log.Printf("UI: catalogue load failed: %v", msg.err)
			m.state.LoadError = msg.err.Error()
			return m, nil
		}
		if m.cfg.UI.ExpandAll {
			m.coord.ExpandAll()
		}
		m.refresh()
		if m.bus != nil {
			m.bus.Publish(eventbus.AppReadyEvent{Components: len(msg.catalogue.Components())})
		}
		return m, nil

	case EventMsg:
		m.eventHandler.HandleEvent(msg.Event)
		m.refresh()
		return m, nil

	case commands.ToggleDoneMsg:
		// outcomes reach the status line through ToggleCompletedEvent
		if msg.Err != nil {
			log.Printf("UI: toggle %s returned: %v", msg.ID, msg.Err)
		}
		m.refresh()
		return m, nil

	case confirmRequestMsg:
		m.state.PushConfirm(msg.request)
		m.inputHandler.ChangeMode(inputtypes.ModeConfirm, m.inputContext())
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			log.Printf("UI: %s pager failed: %v", msg.what, msg.err)
			m.state.SetError(fmt.Sprintf("Could not open %s: %v", msg.what, msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.state.InPager = true
		return m, nil

	case resumeRenderingMsg:
		m.state.InPager = false
		return m, nil
	}

	return m, nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.ToggleSelectionAction:
		return m.cmdExecutor.ExecuteToggle(a.ID)

	case inputtypes.SetExpandedAction:
		return m.cmdExecutor.ExecuteSetExpanded(a.ID, a.Expanded)

	case inputtypes.ToggleExpandedAction:
		return m.cmdExecutor.ExecuteSetExpanded(a.ID, !m.state.View.Expanded[a.ID])

	case inputtypes.ExpandAllAction:
		return m.cmdExecutor.ExecuteExpandAll(a.Expand)

	case inputtypes.AnswerConfirmAction:
		m.state.AnswerConfirm(a.Yes)
		if _, pending := m.state.ActiveConfirm(); !pending {
			m.inputHandler.ChangeMode(inputtypes.ModeNormal, m.inputContext())
		}

	case inputtypes.ShowDetailsAction:
		return m.showInPager("details", views.RenderDetails(m.state.View, a.ID))

	case inputtypes.ToggleHelpAction:
		return m.showInPager("help", RenderHelpContent(m.title(), m.inputHandler.Keys()))

	case inputtypes.ConfirmSelectionAction:
		if m.state.IsBusy() {
			m.state.SetStatus("Waiting for pending changes to finish...")
			return nil
		}
		plan := resolver.BuildPlan(m.state.View.Catalogue, m.state.View.Selected, m.state.View.Required)
		m.plan = &plan
		m.state.Confirmed = true
		log.Printf("UI: selection accepted: %s", plan.Summary())
		return tea.Quit

	case inputtypes.QuitAction:
		m.state.DeclineAll()
		m.state.Quitting = true
		return tea.Quit
	}

	return nil
}

// showInPager returns a command that shows content in ov, pausing rendering while it runs
func (m *Model) showInPager(what, content string) tea.Cmd {
	if m.program == nil {
		m.state.SetError(fmt.Sprintf("Could not open %s: no terminal", what))
		return nil
	}
	program, pager := m.program, m.pager
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := pager.Show(content)
		program.Send(resumeRenderingMsg{})
		return pagerMsg{what: what, err: err}
	}
}

func (m *Model) navigate(direction string) {
	m.syncNavigatorState()
	switch direction {
	case "up":
		m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Move(-1)
	case "down":
		m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Move(1)
	case "pageup":
		m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.PageUp()
	case "pagedown":
		m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.PageDown()
	case "home":
		m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(0)
	case "end":
		m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(m.navigator.GetMaxIndex())
	case "parent":
		if i := m.state.SelectedIndex; i >= 0 && i < len(m.rows) && m.rows[i].Parent >= 0 {
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(m.rows[i].Parent)
		}
	}
}

// refresh re-reads the coordinator and rebuilds the visible rows, keeping the cursor on the same id
func (m *Model) refresh() {
	currentID := ""
	if i := m.state.SelectedIndex; i >= 0 && i < len(m.rows) {
		currentID = m.rows[i].ID
	}

	m.state.View = m.coord.Snapshot()
	m.rows = logic.FlattenVisible(m.state.View.Catalogue, m.state.View.Expanded)

	if idx := logic.IndexOf(m.rows, currentID); idx >= 0 {
		m.state.SelectedIndex = idx
	}
	m.ensureSelectedVisible()
}

func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{State: m.state, Rows: m.rows}
}

// syncNavigatorState updates the navigator with current model state
func (m *Model) syncNavigatorState() {
	m.navigator.UpdateState(m.state.SelectedIndex, m.state.ViewportOffset, m.state.ViewportHeight, len(m.rows))
}

// ensureSelectedVisible ensures the selected item is visible in the viewport
func (m *Model) ensureSelectedVisible() {
	m.syncNavigatorState()
	m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(m.state.SelectedIndex)
}

// updateViewportHeight calculates the available height for the tree
func (m *Model) updateViewportHeight() {
	// padding (2), title with margin (2), footer (3) and the gap above it
	reservedLines := 8

	m.state.ViewportHeight = m.height - reservedLines
	if m.state.ViewportHeight < 1 {
		m.state.ViewportHeight = 1
	}
	m.ensureSelectedVisible()
}

func (m *Model) title() string {
	if m.cfg.Name != "" {
		return m.cfg.Name
	}
	return "compgrip"
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.state.Quitting || m.state.Confirmed {
		return ""
	}

	title := m.title()
	if m.e2e && !m.state.Loading {
		title += " __READY__"
	}

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Title:          title,
		Rows:           m.rows,
		View:           m.state.View,
		SelectedIndex:  m.state.SelectedIndex,
		ViewportOffset: m.state.ViewportOffset,
		ViewportHeight: m.state.ViewportHeight,
		ShowSizes:      m.state.ShowSizes,
		Spinner:        m.spinner.View(),
		Loading:        m.state.Loading,
		LoadError:      m.state.LoadError,
		StatusMessage:  m.state.StatusMessage,
		StatusIsError:  m.state.StatusIsError,
		HelpView:       m.help.View(m.inputHandler.Keys()),
	}
	if !m.state.Loading && m.state.LoadError == "" {
		plan := resolver.BuildPlan(m.state.View.Catalogue, m.state.View.Selected, m.state.View.Required)
		vs.PlanSummary = "Install: " + plan.Summary()
	}
	if req, ok := m.state.ActiveConfirm(); ok {
		vs.ConfirmMessage = req.Message
	}

	return m.renderer.Render(vs)
}
