package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/pastel/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/pastel/internal/app"
	"github.com/MrJamesThe3rd/pastel/internal/config"
)

const debugLogFile = "pastel-tui.log"

type model struct {
	app *app.App

	currentView View
	width       int
	height      int

	dashboardView view.DashboardModel
	listView      view.ListModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewList      View = 2
	ViewImport    View = 3
	ViewExport    View = 4
)

func initialModel(a *app.App) model {
	return model{
		app:           a,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(a.Transactions),
		listView:      view.NewListModel(a.Transactions),
		importView:    view.NewImportModel(a.Transactions, a.Importer, a.Config.Parser.Timeout),
		exportView:    view.NewExportModel(a.Export, a.Transactions),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.app.Transactions)

				return m, tea.Batch(m.dashboardView.Init(), m.resize())
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.app.Transactions)

				return m, tea.Batch(m.listView.Init(), m.resize())
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Transactions, m.app.Importer, m.app.Config.Parser.Timeout)

				return m, tea.Batch(m.importView.Init(), m.resize())
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export, m.app.Transactions)

				return m, tea.Batch(m.exportView.Init(), m.resize())
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: m.width, Height: m.height}
	}
}

func (m model) active() view.View {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView
	case ViewList:
		return m.listView
	case ViewImport:
		return m.importView
	case ViewExport:
		return m.exportView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render(m.app.Config.App.Name) +
				fmt.Sprintf("  %d transações\n\n", m.app.Transactions.Len()) +
				"1. Painel\n" +
				"2. Transações\n" +
				"3. Importação inteligente\n" +
				"4. Exportar\n\n" +
				"q. Sair",
		)
	}

	v := m.active()
	if v == nil {
		return "Tela desconhecida"
	}

	return view.Frame(v)
}

// logOutput keeps log lines off the terminal the TUI draws on.
func logOutput(cfg *config.Config) (io.Writer, func()) {
	if cfg.Level() > slog.LevelDebug {
		return io.Discard, func() {}
	}

	f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard, func() {}
	}

	return f, func() { f.Close() }
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	out, closeLog := logOutput(cfg)
	defer closeLog()

	slog.SetDefault(cfg.NewLogger(out, cfg.Level()))

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start:", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
