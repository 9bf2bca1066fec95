package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/geolist/internal/models"
	"github.com/desertthunder/geolist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConfirmView ViewState = iota
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.EnrichEngine
	library      models.Library
	width        int
	height       int
	groupList    list.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	help         help.Model
	keys         keyMap
}

type runProgressMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.RunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
// The library may be nil, in which case the engine builds one from
// its track producer when the run starts.
func NewModel(ctx context.Context, engine *tasks.EnrichEngine, library models.Library) *Model {
	return &Model{
		ctx:     ctx,
		view:    ConfirmView,
		engine:  engine,
		library: library,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init satisfies tea.Model; the confirm view needs no startup command.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.groupList.Width() == 0 {
			m.groupList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case runProgressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		if m.result != nil && m.result.Coordinates != nil {
			groups := m.result.Coordinates.Groups()
			items := make([]list.Item, len(groups))
			for i, group := range groups {
				items[i] = groupItem{group: group}
			}
			m.groupList = list.New(items, list.NewDefaultDelegate(), 0, 0)
			m.groupList.Title = "Artist Origins"
			m.groupList.SetSize(m.width-4, m.height-8)
		}
		return m, nil
	}

	if m.view == ResultView {
		var cmd tea.Cmd
		m.groupList, cmd = m.groupList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		return m, tea.Quit
	case "y", "enter":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.groupList, cmd = m.groupList.Update(msg)
	return m, cmd
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.Run(m.ctx, m.library, progressChan)
		m.result = result
		m.err = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return runProgressMsg(update)
	}
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Map your music library?")

	var info string
	if m.library != nil {
		info = fmt.Sprintf("\nArtists in library: %d\n", len(m.library))
	} else {
		info = "\nSaved tracks will be fetched from Spotify first.\n"
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Enriching Library")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTracks:
		phase = "Fetching saved tracks from Spotify..."
	case tasks.GroupArtists:
		phase = fmt.Sprintf("Grouping tracks by artist (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ResolveLocations:
		phase = fmt.Sprintf("Resolving artist locations (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.GeocodeLocations:
		phase = fmt.Sprintf("Geocoding locations (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	var detail string
	if name, ok := m.progress.Data.(string); ok && name != "" {
		detail = styles.help.Render(name)
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, detail)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Run failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Run Complete!")
	info := fmt.Sprintf(
		"\nArtists: %d\nDistinct coordinates: %d\nResolved: %d/%d\nGeocoded: %d (%d via fallback)\n",
		len(m.result.Library),
		m.result.Coordinates.Len(),
		m.result.ResolveStats.Success,
		m.result.ResolveStats.Total,
		m.result.GeocodeStats.Successful+m.result.GeocodeStats.SuccessfulRetries,
		m.result.GeocodeStats.SuccessfulRetries,
	)

	var failed string
	if m.result.GeocodeStats.Failed > 0 {
		failed = fmt.Sprintf("\n%s\n", styles.warn.Render(fmt.Sprintf("Failed to geocode %d locations", m.result.GeocodeStats.Failed)))
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s\n\n%s", title, info, failed, m.groupList.View(), helpView)
}
