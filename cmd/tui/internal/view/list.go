package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateAdd
	listStateDelete
)

var (
	typeFilterLabels = []string{"Todos", "Receitas", "Despesas", "Impostos"}
	dateFilterLabels = []string{"Todo o período", "Este mês", "Mês passado"}
)

// txFields backs the add form. It lives on the heap because huh keeps
// pointers to it while the model itself is copied on every update.
type txFields struct {
	Description string
	Amount      string
	Date        string
	Type        transaction.Type
	Category    string
	Confirm     bool
}

type ListModel struct {
	CommonModel
	txService *transaction.Service

	state  listState
	table  table.Model
	txs    []*transaction.Transaction
	form   *huh.Form
	fields *txFields

	typeFilterIdx int
	dateFilterIdx int

	filter transaction.ListFilter
	status string
	now    func() time.Time
}

func NewListModel(txSvc *transaction.Service) ListModel {
	columns := []table.Column{
		{Title: "Data", Width: 12},
		{Title: "Descrição", Width: 36},
		{Title: "Categoria", Width: 16},
		{Title: "Tipo", Width: 10},
		{Title: "Valor", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		txService: txSvc,
		table:     t,
		filter:    transaction.ListFilter{},
		now:       time.Now,
	}
}

func (m ListModel) Title() string { return "Transações" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateAdd:
		return "Navegue pelo formulário | Esc: cancelar"
	case listStateDelete:
		return "Confirme a exclusão | Esc: cancelar"
	}

	return "Esc: voltar | a: adicionar | d: excluir | t: tipo | p: período | r: atualizar"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Erro: %v", msg.err)
		}

		return m.closeForm(), m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		m.table.SetHeight(max(5, msg.Height-10))
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateAdd, listStateDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadTxsCmd()
		case "a":
			return m.enterAddMode()
		case "d", "delete":
			return m.enterDeleteMode()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilterLabels)
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "p":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilterLabels)
			m.applyFilter()

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.fields = &txFields{
		Date: FormatDate(m.now()),
		Type: transaction.TypeExpense,
	}

	m.form = newTransactionForm(m.fields)
	m.state = listStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) enterDeleteMode() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.fields = &txFields{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Excluir transação?").
				Description(fmt.Sprintf("%s  %s  %s", FormatDate(tx.Date), tx.Description, FormatAmount(tx.Amount))).
				Affirmative("Excluir").
				Negative("Cancelar").
				Value(&m.fields.Confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		state, fields := m.state, *m.fields
		m = m.closeForm()

		if state == listStateAdd {
			return m, m.addCmd(fields)
		}

		if !fields.Confirm {
			return m, nil
		}

		return m, m.deleteCmd(m.selected())
	case huh.StateAborted:
		return m.closeForm(), nil
	}

	return m, cmd
}

func (m ListModel) closeForm() ListModel {
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m ListModel) View() string {
	header := fmt.Sprintf(
		"Filtros: [t] Tipo: %s | [p] Período: %s | %d transações",
		activeStyle(typeFilterLabels[m.typeFilterIdx]),
		activeStyle(dateFilterLabels[m.dateFilterIdx]),
		len(m.txs),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != listStateBrowse && m.form != nil {
		title := "Nova transação"
		if m.state == listStateDelete {
			title = "Excluir transação"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter() {
	m.filter.Type = nil
	if m.typeFilterIdx > 0 {
		m.filter.Type = new(transaction.Types[m.typeFilterIdx-1])
	}

	m.filter.StartDate = nil
	m.filter.EndDate = nil

	switch m.dateFilterIdx {
	case 1:
		start, end := DateRange(TimeframeThisMonth, m.now())
		m.filter.StartDate, m.filter.EndDate = &start, &end
	case 2:
		start, end := DateRange(TimeframeLastMonth, m.now())
		m.filter.StartDate, m.filter.EndDate = &start, &end
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Description,
			tx.Category,
			tx.Type.Label(),
			FormatAmount(tx.Amount),
		})
	}

	m.table.SetRows(rows)
}

func (m ListModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func newTransactionForm(f *txFields) *huh.Form {
	typeOptions := make([]huh.Option[transaction.Type], len(transaction.Types))
	for i, t := range transaction.Types {
		typeOptions[i] = huh.NewOption(t.Label(), t)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Descrição").
				Value(&f.Description).
				Validate(notBlank("a descrição não pode ficar vazia")),

			huh.NewInput().
				Key("amount").
				Title("Valor").
				Placeholder("25,90").
				Value(&f.Amount).
				Validate(func(s string) error {
					_, err := transaction.ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("date").
				Title("Data").
				Placeholder("AAAA-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					_, err := transaction.ParseDate(s)
					return err
				}),

			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Tipo").
				Options(typeOptions...).
				Value(&f.Type),

			huh.NewInput().
				Key("category").
				Title("Categoria").
				Placeholder("Alimentação").
				Value(&f.Category).
				Validate(notBlank("a categoria não pode ficar vazia")),
		),
	).WithWidth(45).WithShowHelp(false)
}

func notBlank(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}

		return nil
	}
}

func (f txFields) input() (transaction.Input, error) {
	amount, err := transaction.ParseAmount(f.Amount)
	if err != nil {
		return transaction.Input{}, err
	}

	date, err := transaction.ParseDate(f.Date)
	if err != nil {
		return transaction.Input{}, err
	}

	in := transaction.Input{
		Description: strings.TrimSpace(f.Description),
		Amount:      amount,
		Date:        date,
		Type:        f.Type,
		Category:    strings.TrimSpace(f.Category),
	}

	return in, in.Validate()
}

// Messages

type loadListMsg struct {
	txs []*transaction.Transaction
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		return loadListMsg{txs: transaction.SortNewestFirst(m.txService.List(ctx, filter))}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) addCmd(fields txFields) tea.Cmd {
	return func() tea.Msg {
		in, err := fields.input()
		if err != nil {
			return listSaveMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		tx := m.txService.Add(ctx, in)

		return listSaveMsg{status: "Transação adicionada: " + tx.Description}
	}
}

func (m ListModel) deleteCmd(tx *transaction.Transaction) tea.Cmd {
	if tx == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		m.txService.Remove(ctx, tx.ID)

		return listSaveMsg{status: "Transação excluída: " + tx.Description}
	}
}
