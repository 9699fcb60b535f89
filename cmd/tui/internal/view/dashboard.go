package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pastel/internal/summary"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

const chartWidth = 40

type dashboardState int

const (
	dashboardStateTimeframe dashboardState = iota
	dashboardStateReport
)

type DashboardModel struct {
	CommonModel
	txService *transaction.Service

	state           dashboardState
	timeframePicker TimeframePicker

	selection TimeframeSelectedMsg
	count     int
	report    summary.Report
}

func NewDashboardModel(txSvc *transaction.Service) DashboardModel {
	picker := NewTimeframePicker(TimeframeThisWeek)
	picker.Select(TimeframeThisMonth)

	return DashboardModel{
		txService:       txSvc,
		timeframePicker: picker,
	}
}

// barWidth leaves room for the labels and amounts printed beside each bar.
func (m DashboardModel) barWidth() int {
	w, _ := m.fit(chartWidth, 0, 36, 0)
	return w
}

func (m DashboardModel) Title() string { return "Painel" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateReport {
		return "Esc: período | r: atualizar"
	}

	return "Esc: voltar | Enter: selecionar"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.selection = msg
		m.state = dashboardStateReport

		return m, m.loadCmd()

	case dashboardLoadedMsg:
		m.count = msg.count
		m.report = msg.report

		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg)
		return m, nil
	}

	if m.state == dashboardStateTimeframe {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = dashboardStateTimeframe
			return m, nil
		case "r":
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.state == dashboardStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	header := fmt.Sprintf("Período: %s | %d transações", activeStyle(m.selection.Label), m.count)

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		renderStats(m.report.Stats),
		"",
		lipgloss.NewStyle().Bold(true).Render("Fluxo"),
		m.renderFlow(m.report.Flow),
		"",
		lipgloss.NewStyle().Bold(true).Render("Despesas por categoria"),
		m.renderSlices(m.report.Slices),
	))
}

func renderStats(s summary.Stats) string {
	card := lipgloss.NewStyle().
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	balanceColor := transaction.TypeIncome.Color()
	if s.Balance.IsNegative() {
		balanceColor = transaction.TypeExpense.Color()
	}

	cards := []string{
		card.Render(statLine(transaction.TypeIncome.PluralLabel(), s.Income, transaction.TypeIncome.Color())),
		card.Render(statLine(transaction.TypeExpense.PluralLabel(), s.Expense, transaction.TypeExpense.Color())),
		card.Render(statLine(transaction.TypeTax.PluralLabel(), s.Tax, transaction.TypeTax.Color())),
		card.Render(statLine("Saldo", s.Balance, balanceColor)),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func statLine(label string, amount decimal.Decimal, color string) string {
	return faintStyle.Render(label) + "\n" +
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(FormatAmount(amount))
}

func (m DashboardModel) renderFlow(bars []summary.FlowBar) string {
	peak := decimal.Zero
	for _, b := range bars {
		peak = decimal.Max(peak, b.Amount)
	}

	var sb strings.Builder

	for _, b := range bars {
		bar := strings.Repeat("█", BarWidth(b.Amount, peak, m.barWidth()))
		fmt.Fprintf(&sb, "%-9s %s %s\n",
			b.Label,
			lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(bar),
			FormatAmount(b.Amount),
		)
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func (m DashboardModel) renderSlices(slices []summary.Slice) string {
	if len(slices) == 0 {
		return faintStyle.Render("Nenhuma despesa no período.")
	}

	hundred := decimal.NewFromInt(100)

	var sb strings.Builder

	for _, s := range slices {
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
		bar := strings.Repeat("■", BarWidth(s.Percent, hundred, m.barWidth()))

		fmt.Fprintf(&sb, "%s %-20s %s %s (%s%%)\n",
			color.Render("●"),
			truncate(s.Name, 20),
			color.Render(bar),
			FormatAmount(s.Amount),
			s.Percent.StringFixed(2),
		)
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// BarWidth scales amount against peak to at most width cells. Any non-zero
// amount gets at least one cell.
func BarWidth(amount, peak decimal.Decimal, width int) int {
	if !peak.IsPositive() || !amount.IsPositive() {
		return 0
	}

	cells := int(amount.Mul(decimal.NewFromInt(int64(width))).Div(peak).IntPart())

	return max(1, min(cells, width))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

type dashboardLoadedMsg struct {
	count  int
	report summary.Report
}

func (m DashboardModel) loadCmd() tea.Cmd {
	filter := m.selection.Filter()

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		txs := m.txService.List(ctx, filter)

		return dashboardLoadedMsg{count: len(txs), report: summary.Dashboard(txs)}
	}
}
