// Package app is the bubbletea model that ties the screens, the pipeline
// refresh loop and the chrome together
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/ktopo/internal/components"
	"github.com/renato0307/ktopo/internal/logging"
	"github.com/renato0307/ktopo/internal/modals"
	"github.com/renato0307/ktopo/internal/screens"
	"github.com/renato0307/ktopo/internal/types"
)

// DefaultRefreshInterval is used when the configured interval is not positive
const DefaultRefreshInterval = 2 * time.Second

type Model struct {
	ctx             *types.AppContext
	state           types.AppState
	registry        *types.ScreenRegistry
	currentScreen   types.Screen
	previousScreen  string
	help            types.Screen
	header          *components.Header
	layout          *components.Layout
	statusBar       *components.StatusBar
	filterBar       *components.FilterBar
	detail          *components.Detail
	picker          *modals.ScreenPicker
	refreshInterval time.Duration
	// one pipeline run at a time; requests made meanwhile are queued
	refreshing    bool
	refreshQueued bool
}

func NewModel(ctx *types.AppContext, refreshInterval time.Duration) Model {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}

	registry := types.NewScreenRegistry()
	registry.Register(screens.NewNodesScreen(ctx))
	registry.Register(screens.NewEdgesScreen(ctx))
	registry.Register(screens.NewGroupsScreen(ctx))

	initialScreen, _ := registry.Get(screens.NodesScreenID)

	header := components.NewHeader(ctx, "ktopo")
	header.SetScreenTitle(initialScreen.Title())
	header.SetWidth(80)
	if ctx.Pipeline != nil {
		header.SetNamespace(ctx.Pipeline.Namespace())
	}

	statusBar := components.NewStatusBar(ctx.Theme)
	statusBar.SetWidth(80)

	m := Model{
		ctx: ctx,
		state: types.AppState{
			CurrentScreen: screens.NodesScreenID,
			Width:         80,
			Height:        24,
		},
		registry:        registry,
		currentScreen:   initialScreen,
		help:            screens.NewHelpScreen(ctx),
		header:          header,
		layout:          components.NewLayout(80, 24),
		statusBar:       statusBar,
		filterBar:       components.NewFilterBar(ctx.Theme),
		refreshInterval: refreshInterval,
		refreshing:      ctx.Pipeline != nil,
	}
	m.resizeScreens()
	return m
}

// Init starts the first refresh; NewModel already marks it in flight
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.scheduleTick())
}

// startRefresh runs the pipeline unless a run is already in flight
func (m *Model) startRefresh() tea.Cmd {
	if m.ctx.Pipeline == nil || m.refreshing {
		return nil
	}
	m.refreshing = true
	return m.refresh()
}

// requestRefresh is startRefresh for explicit requests, which are queued
// behind a run in flight instead of dropped
func (m *Model) requestRefresh() tea.Cmd {
	if m.refreshing {
		m.refreshQueued = true
		return nil
	}
	return m.startRefresh()
}

// refresh runs the pipeline off the update loop
func (m Model) refresh() tea.Cmd {
	p := m.ctx.Pipeline
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		return types.RefreshCompleteMsg{Result: p.Run()}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return types.RefreshTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.layout.SetSize(msg.Width, msg.Height)
		m.header.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.resizeScreens()
		if m.detail != nil {
			m.detail.SetSize(msg.Width, msg.Height-m.statusBar.GetHeight())
		}
		if m.picker != nil {
			m.picker.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case types.RefreshTickMsg:
		return m, tea.Batch(m.startRefresh(), m.scheduleTick())

	case types.RefreshRequestMsg:
		return m, m.requestRefresh()

	case types.RefreshCompleteMsg:
		m.refreshing = false
		if msg.Result != nil {
			m.state.LastRefresh = msg.Result.At
			m.state.RefreshTime = msg.Result.Duration
			m.header.SetLastRefresh(msg.Result.At)
			m.header.SetCounts(msg.Result.Data)
		}
		cmd := m.broadcast(msg)
		if m.refreshQueued {
			m.refreshQueued = false
			cmd = tea.Batch(cmd, m.startRefresh())
		}
		return m, cmd

	case types.StatusMsg:
		id := m.statusBar.SetMessage(msg.Message, msg.Type)
		if msg.Type == types.MessageTypeError {
			logging.Warn("status error", "message", msg.Message)
		}
		return m, tea.Tick(components.StatusBarDisplayDuration, func(time.Time) tea.Msg {
			return types.ClearStatusMsg{MessageID: id}
		})

	case types.ClearStatusMsg:
		m.statusBar.ClearMessage(msg.MessageID)
		return m, nil

	case types.ShowDetailMsg:
		m.detail = components.NewDetail(msg, m.ctx.Theme)
		m.detail.SetSize(m.state.Width, m.state.Height-m.statusBar.GetHeight())
		return m, nil

	case types.ExitDetailMsg:
		m.detail = nil
		return m, nil

	case types.ClosePickerMsg:
		m.picker = nil
		return m, nil

	case types.ScreenSwitchMsg:
		m.picker = nil
		return m.switchScreen(msg.ScreenID)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateScreen(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.ctx.Keys
	if msg.String() == keys.Quit {
		return m, tea.Quit
	}

	if m.detail != nil {
		if msg.String() == keys.Back || msg.String() == "q" {
			m.detail = nil
			return m, nil
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	if m.picker != nil {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	if m.filterBar.Active() {
		var cmd tea.Cmd
		m.filterBar, cmd = m.filterBar.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case keys.FilterActivate:
		return m, m.filterBar.Activate()
	case keys.Refresh:
		return m, tea.Batch(m.requestRefresh(), func() tea.Msg { return types.InfoMsg("Refreshing") })
	case keys.Help:
		return m.switchScreen(screens.HelpScreenID)
	case keys.ScreenPicker:
		m.picker = modals.NewScreenPicker(append(m.registry.All(), m.help), m.ctx.Theme)
		m.picker.SetSize(m.state.Width, m.state.Height)
		return m, nil
	case keys.NextScreen:
		id := m.state.CurrentScreen
		if id == screens.HelpScreenID {
			id = m.previousScreen
		}
		next, _ := m.registry.Next(id)
		return m.switchScreen(next.ID())
	case keys.Back:
		if m.filterBar.Value() != "" {
			m.filterBar.Clear()
			return m, m.updateScreen(types.ClearFilterMsg{})
		}
		if m.state.CurrentScreen == screens.HelpScreenID {
			return m.switchScreen(m.previousScreen)
		}
		return m, nil
	}

	return m, m.updateScreen(msg)
}

func (m Model) switchScreen(id string) (tea.Model, tea.Cmd) {
	screen, ok := m.registry.Get(id)
	if id == screens.HelpScreenID {
		screen, ok = m.help, true
	}
	if !ok || id == m.state.CurrentScreen {
		return m, nil
	}

	if m.state.CurrentScreen != screens.HelpScreenID {
		m.previousScreen = m.state.CurrentScreen
	}

	// the filter belongs to the screen being left
	m.filterBar.Clear()
	m.updateScreen(types.ClearFilterMsg{})

	m.currentScreen = screen
	m.state.CurrentScreen = id
	m.header.SetScreenTitle(screen.Title())
	m.resizeScreens()
	return m, screen.Init()
}

// updateScreen forwards msg to the current screen
func (m *Model) updateScreen(msg tea.Msg) tea.Cmd {
	model, cmd := m.currentScreen.Update(msg)
	m.currentScreen = model.(types.Screen)
	return cmd
}

// broadcast sends msg to every screen so hidden ones stay current
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, screen := range append(m.registry.All(), m.help) {
		_, cmd := screen.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) resizeScreens() {
	bodyHeight := m.layout.CalculateBodyHeight()
	for _, screen := range append(m.registry.All(), m.help) {
		if sized, ok := screen.(types.ScreenWithSize); ok {
			sized.SetSize(m.state.Width, bodyHeight)
		}
	}
}

func (m Model) View() string {
	if m.detail != nil {
		return m.detail.View() + "\n" + m.statusBar.View()
	}
	if m.picker != nil {
		return m.picker.CenteredView(m.state.Width, m.state.Height)
	}

	return m.layout.Render(
		m.header.View(),
		m.currentScreen.View(),
		m.filterBar.View(),
		m.ctx.Theme.Help.Render(m.currentScreen.HelpText()),
		m.statusBar.View(),
	)
}
