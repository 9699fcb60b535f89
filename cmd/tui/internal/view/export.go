package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pastel/internal/export"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

const destinationSheets = "sheets"

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStateDestination
	exportStateExporting
	exportStateResult
)

type exportFields struct {
	Destination string
	Path        string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service
	txService     *transaction.Service

	state           exportState
	err             error
	timeframePicker TimeframePicker
	filter          transaction.ListFilter

	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model
	target  string
	summary string
}

func NewExportModel(svc *export.Service, txSvc *transaction.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	picker := NewTimeframePicker(TimeframeThisWeek)
	picker.Select(TimeframeThisMonth)

	return ExportModel{
		exportService:   svc,
		txService:       txSvc,
		state:           exportStateTimeframe,
		timeframePicker: picker,
		fields:          &exportFields{Destination: string(export.FormatXLSX), Path: "./exports"},
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Exportar transações" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: voltar ao menu"
	case exportStateExporting:
		return "Exportando..."
	}

	return "Esc: voltar | Enter: confirmar"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(sizeMsg)
		return m, nil
	}

	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.filter = tfMsg.Filter()
		m.form = m.buildDestinationForm()
		m.state = exportStateDestination

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStateDestination:
		return m.updateDestination(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateDestination(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = exportStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.filter, *m.fields))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.target = result.target
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) buildDestinationForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("destination").
				Title("Destino").
				Options(
					huh.NewOption("Planilha Excel (.xlsx)", string(export.FormatXLSX)),
					huh.NewOption("CSV (.csv)", string(export.FormatCSV)),
					huh.NewOption("Google Sheets", destinationSheets),
				).
				Value(&m.fields.Destination),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Diretório de saída").
				Description("O diretório será criado se não existir").
				Placeholder("./exports").
				Value(&m.fields.Path),
		).WithHideFunc(func() bool {
			return m.fields.Destination == destinationSheets
		}),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m ExportModel) formWidth() int {
	w, _ := m.fit(50, 0, 4, 0)
	return w
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case exportStateDestination:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exportando transações...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Erro: %v", m.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Exportação concluída: " + m.target)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Resumo:",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	target string
	body   string
	err    error
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(filter transaction.ListFilter, fields exportFields) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		target, err := m.export(ctx, filter, fields)
		if err != nil {
			return exportResultMsg{err: err}
		}

		txs := m.txService.List(ctx, filter)

		return exportResultMsg{target: target, body: m.exportService.Summary(txs)}
	}
}

func (m ExportModel) export(ctx context.Context, filter transaction.ListFilter, fields exportFields) (string, error) {
	if fields.Destination == destinationSheets {
		return m.exportService.AppendToSheets(ctx, filter)
	}

	format, err := export.ParseFormat(fields.Destination)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(fields.Path, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(fields.Path, format.Filename())

	return path, m.exportService.SaveFile(ctx, filter, path)
}
