package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pastel/internal/encoding"
	"github.com/MrJamesThe3rd/pastel/internal/importer"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

type importState int

const (
	importStateSource importState = iota
	importStatePaste
	importStateFilePick
	importStateParsing
	importStatePreview
	importStateResult
)

var importSources = []string{"Colar texto do extrato", "Selecionar arquivo"}

var importProviders = []importer.Provider{importer.ProviderGemini, importer.ProviderOllama, importer.ProviderRules}

// parseSessions numbers parses across every ImportModel, so a result from a
// model the user already left never matches the session of a new one.
var parseSessions atomic.Int64

type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service
	timeout       time.Duration

	state        importState
	sourceCursor int
	provider     importer.Provider

	textarea   textarea.Model
	filePicker filepicker.Model
	spinner    spinner.Model

	// session identifies the parse in flight. Results carrying any other
	// session were cancelled by the user and are dropped.
	session     int64
	cancelParse context.CancelFunc

	candidates []transaction.Input
	preview    list.Model
	selected   map[int]bool

	status string
	err    error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service, timeout time.Duration) ImportModel {
	ta := textarea.New()
	ta.Placeholder = "01/10/2023 UBER *TRIP 25,90\n02/10/2023 SALARIO MENSAL 3.500,00"
	ta.SetWidth(80)
	ta.SetHeight(12)
	ta.CharLimit = encoding.MaxStatementSize

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AllowedTypes = []string{".txt", ".csv"}
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ImportModel{
		txService:     txSvc,
		importService: impSvc,
		timeout:       timeout,
		provider:      impSvc.Provider(),
		textarea:      ta,
		filePicker:    fp,
		spinner:       s,
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Importação inteligente" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateSource:
		return "Esc: voltar | Enter: selecionar | p: provedor"
	case importStatePaste:
		return "Ctrl+S: analisar | Esc: voltar"
	case importStateParsing:
		return "Esc: cancelar"
	case importStatePreview:
		return "Espaço: marcar | a: todas | n: nenhuma | Enter: importar | Esc: descartar"
	}

	return "Esc: voltar | Enter: selecionar"
}

func (m ImportModel) Init() tea.Cmd {
	return nil
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateSource:
			return m.updateSource(msg)
		case importStatePaste:
			if msg.String() == "ctrl+s" {
				return m.startParse(m.parseText(m.textarea.Value()))
			}
		case importStatePreview:
			return m.updatePreview(msg)
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		m.textarea.SetWidth(m.textareaWidth())

		if m.state == importStatePreview {
			m.preview.SetSize(m.previewSize())
		}

		return m, nil

	case parseResultMsg:
		if msg.session != m.session || m.state != importStateParsing {
			return m, nil
		}

		m.cancelParse = nil

		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = parseErrorMessage(msg.err)

			return m, nil
		}

		m.candidates = msg.inputs
		m.selected = make(map[int]bool, len(msg.inputs))

		items := make([]list.Item, len(msg.inputs))
		for i := range msg.inputs {
			items[i] = candidateItem{input: msg.inputs[i], index: i}
			m.selected[i] = true
		}

		w, h := m.previewSize()
		m.preview = list.New(items, candidateDelegate{selected: m.selected}, w, h)
		m.preview.Title = fmt.Sprintf("%d transações encontradas", len(items))
		m.preview.SetShowStatusBar(false)
		m.preview.SetFilteringEnabled(false)
		m.preview.SetShowHelp(false)
		m.state = importStatePreview

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		m.err = nil
		m.status = fmt.Sprintf("%d transações importadas.", msg.count)
		m.candidates = nil

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateParsing {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd

	switch m.state {
	case importStatePaste:
		m.textarea, cmd = m.textarea.Update(msg)
	case importStateFilePick:
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			return m.startParse(m.parseFile(path))
		}
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateSource:
		return m, Back
	case importStateParsing:
		m.stopParse()
		m.state = importStateSource
		m.status = "Análise cancelada."

		return m, nil
	case importStatePreview, importStateResult:
		m.candidates = nil
		m.err = nil
		m.status = ""
	}

	m.state = importStateSource
	m.textarea.Blur()

	return m, nil
}

func (m ImportModel) updateSource(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.sourceCursor > 0 {
			m.sourceCursor--
		}
	case "down":
		if m.sourceCursor < len(importSources)-1 {
			m.sourceCursor++
		}
	case "p":
		m.provider = nextProvider(m.provider)
	case "enter":
		m.status = ""

		if m.sourceCursor == 0 {
			m.state = importStatePaste
			return m, m.textarea.Focus()
		}

		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.preview.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.candidates {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.candidates {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		inputs := m.chosen()
		if len(inputs) == 0 {
			m.status = "Nenhuma transação selecionada."
			return m, nil
		}

		return m, m.confirmCmd(inputs)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

type parseFunc func(ctx context.Context) ([]transaction.Input, error)

func (m ImportModel) startParse(parse parseFunc) (tea.Model, tea.Cmd) {
	ctx, cancel := m.parseCtx()
	session := parseSessions.Add(1)

	m.session = session
	m.cancelParse = cancel
	m.state = importStateParsing
	m.err = nil
	m.status = ""
	m.textarea.Blur()

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		defer cancel()

		inputs, err := parse(ctx)

		return parseResultMsg{session: session, inputs: inputs, err: err}
	})
}

// stopParse cancels the parse in flight and retires its session.
func (m *ImportModel) stopParse() {
	if m.cancelParse != nil {
		m.cancelParse()
		m.cancelParse = nil
	}

	m.session = parseSessions.Add(1)
}

func (m ImportModel) textareaWidth() int {
	w, _ := m.fit(80, 0, 6, 0)
	return w
}

func (m ImportModel) previewSize() (int, int) {
	return m.fit(90, 20, 4, 8)
}

func (m ImportModel) chosen() []transaction.Input {
	inputs := make([]transaction.Input, 0, len(m.candidates))

	for i, in := range m.candidates {
		if m.selected[i] {
			inputs = append(inputs, in)
		}
	}

	return inputs
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateSource:
		return m.viewSource()
	case importStatePaste:
		return lipgloss.NewStyle().Padding(1).Render(
			"Cole o texto do extrato:\n\n" + m.textarea.View() + "\n\n" + faintStyle.Render("Provedor: "+string(m.provider)),
		)
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Selecione o arquivo (%s):\n\n%s", m.provider, m.filePicker.View()),
		)
	case importStateParsing:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Analisando extrato com %s...", m.spinner.View(), m.provider),
		)
	case importStatePreview:
		view := m.preview.View()
		if m.status != "" {
			view += "\n" + errorStyle.Render(m.status)
		}

		return lipgloss.NewStyle().Padding(1).Render(view)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewSource() string {
	s := "Importar extrato:\n\n"

	for i, source := range importSources {
		cursor := " "
		if i == m.sourceCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, source)
	}

	s += fmt.Sprintf("\n[p] Provedor: %s", activeStyle(string(m.provider)))

	if m.status != "" {
		s += "\n\n" + faintStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc para voltar)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc para voltar)")
}

func nextProvider(p importer.Provider) importer.Provider {
	for i, candidate := range importProviders {
		if candidate == p {
			return importProviders[(i+1)%len(importProviders)]
		}
	}

	return importProviders[0]
}

func parseErrorMessage(err error) string {
	var parseErr *importer.Error
	if errors.As(err, &parseErr) {
		return parseErr.UserMessage()
	}

	switch {
	case errors.Is(err, importer.ErrEmptyStatement):
		return "O extrato está vazio."
	case errors.Is(err, encoding.ErrTooLarge):
		return "O arquivo é grande demais."
	}

	return fmt.Sprintf("Erro: %v", err)
}

// Messages

type parseResultMsg struct {
	session int64
	inputs  []transaction.Input
	err     error
}

type confirmResultMsg struct {
	count int
}

func (m ImportModel) parseCtx() (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(context.Background())
	}

	return context.WithTimeout(context.Background(), m.timeout)
}

func (m ImportModel) parseText(text string) parseFunc {
	svc, provider := m.importService, m.provider

	return func(ctx context.Context) ([]transaction.Input, error) {
		return svc.ParseWith(ctx, provider, text)
	}
}

func (m ImportModel) parseFile(path string) parseFunc {
	svc, provider := m.importService, m.provider

	return func(ctx context.Context) ([]transaction.Input, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		text, err := encoding.ReadText(f)
		if err != nil {
			return nil, err
		}

		return svc.ParseWith(ctx, provider, text)
	}
}

func (m ImportModel) confirmCmd(inputs []transaction.Input) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		txs := m.txService.AddBatch(ctx, inputs)

		return confirmResultMsg{count: len(txs)}
	}
}

// Candidate list item

type candidateItem struct {
	input transaction.Input
	index int
}

func (i candidateItem) Title() string       { return i.input.Description }
func (i candidateItem) Description() string { return i.input.Category }
func (i candidateItem) FilterValue() string { return i.input.Description }

// Candidate list delegate

type candidateDelegate struct {
	selected map[int]bool
}

func (d candidateDelegate) Height() int                             { return 2 }
func (d candidateDelegate) Spacing() int                            { return 0 }
func (d candidateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(candidateItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	in := item.input

	line1 := fmt.Sprintf("%s%s %s  %s  %s",
		cursor, checkbox,
		FormatDate(in.Date),
		FormatSigned(in.Type, in.Amount),
		in.Description,
	)

	line2 := faintStyle.Render(fmt.Sprintf("      %s · %s", in.Type.Label(), in.Category))

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
