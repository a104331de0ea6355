package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/pcpulse/internal/engine"
	"github.com/dm/pcpulse/internal/model"
)

// App is the root Bubble Tea model for pcpulse. It only renders what the
// sampler publishes; it never samples on its own.
type App struct {
	platform string
	interval time.Duration

	current     *model.Snapshot
	history     *History
	samples     int
	lastUpdated time.Time

	// Layout
	width, height int

	// UI state
	showHelp bool
	help     help.Model
}

// NewApp creates a new App for the given platform and sampling interval.
// The interval is only displayed.
func NewApp(platform string, interval time.Duration) *App {
	return &App{
		platform: platform,
		interval: interval,
		history:  NewHistory(0),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (app *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. It is the only place app state changes.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case SnapshotMsg:
		snap := msg.Snapshot
		app.current = &snap
		app.history.Push(snap)
		app.samples++
		app.lastUpdated = snap.Timestamp

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return app, tea.Quit
		case key.Matches(msg, keys.Help):
			app.showHelp = !app.showHelp
		}
	}

	return app, nil
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	var parts []string

	if h := renderHeader(app); h != "" {
		parts = append(parts, h)
	}
	if app.current == nil {
		parts = append(parts, StyleDim.Render("Waiting for the first sample..."))
	}
	if o := renderOverview(app); o != "" {
		parts = append(parts, o)
	}
	if p := renderPanels(app); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, renderFooter(app))

	return strings.Join(parts, "\n")
}

// Sender is the part of *tea.Program used to deliver messages.
type Sender interface {
	Send(msg tea.Msg)
}

// Consumer returns a sampler consumer that forwards every snapshot to the
// program as a SnapshotMsg.
func Consumer(p Sender) engine.Consumer {
	return func(s model.Snapshot) {
		p.Send(SnapshotMsg{Snapshot: s})
	}
}
