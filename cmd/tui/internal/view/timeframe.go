package view

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// Timeframe is a predefined or custom date range.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeThisYear
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = [...]string{
	TimeframeThisWeek:  "Esta semana",
	TimeframeLastWeek:  "Semana passada",
	TimeframeThisMonth: "Este mês",
	TimeframeLastMonth: "Mês passado",
	TimeframeThisYear:  "Este ano",
	TimeframeAll:       "Todo o período",
	TimeframeCustom:    "Período personalizado",
}

func (t Timeframe) String() string {
	if t < 0 || int(t) >= len(timeframeLabels) {
		return "Desconhecido"
	}

	return timeframeLabels[t]
}

// DateRange resolves a predefined timeframe relative to now. Weeks start on
// Monday. Both bounds are dates without a time of day.
func DateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	today := transaction.DateOnly(now)

	// days since Monday
	sinceMonday := (int(today.Weekday()) + 6) % 7
	monday := today.AddDate(0, 0, -sinceMonday)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch tf {
	case TimeframeThisWeek:
		return monday, today
	case TimeframeLastWeek:
		return monday.AddDate(0, 0, -7), monday.AddDate(0, 0, -1)
	case TimeframeThisMonth:
		return firstOfMonth, today
	case TimeframeLastMonth:
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth.AddDate(0, 0, -1)
	case TimeframeThisYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), today
	}

	return time.Time{}, time.Time{}
}

// TimeframeSelectedMsg is emitted once the user picks a range. Start and End
// are zero when All is set.
type TimeframeSelectedMsg struct {
	Label string
	Start time.Time
	End   time.Time
	All   bool
}

// Filter converts the selection into a store filter.
func (msg TimeframeSelectedMsg) Filter() transaction.ListFilter {
	if msg.All {
		return transaction.ListFilter{}
	}

	return transaction.ListFilter{StartDate: new(msg.Start), EndDate: new(msg.End)}
}

var (
	errInvalidDate   = errors.New("use o formato AAAA-MM-DD")
	errRangeReversed = errors.New("a data final é anterior à inicial")
)

type customRange struct {
	Start string
	End   string
}

func (r *customRange) bounds() (time.Time, time.Time, error) {
	start, err := transaction.ParseDate(r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate
	}

	end, err := transaction.ParseDate(r.End)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidDate
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errRangeReversed
	}

	return start, end, nil
}

// TimeframePicker lets the user choose one of the predefined ranges or type
// a custom one.
type TimeframePicker struct {
	selected Timeframe
	minFrame Timeframe
	now      func() time.Time

	// form is non-nil while a custom range is being typed.
	form  *huh.Form
	dates *customRange
}

func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	return TimeframePicker{
		selected: minFrame,
		minFrame: minFrame,
		now:      time.Now,
	}
}

// Select moves the cursor to tf, clamped to the picker's range.
func (m *TimeframePicker) Select(tf Timeframe) {
	m.selected = max(m.minFrame, min(tf, TimeframeCustom))
}

// IsSelecting reports whether the list of ranges is showing, as opposed to
// the custom range form.
func (m TimeframePicker) IsSelecting() bool {
	return m.form == nil
}

// Reset drops any custom range in progress. The cursor stays where it was.
func (m *TimeframePicker) Reset() {
	m.form = nil
	m.dates = nil
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if !m.IsSelecting() {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.Select(m.selected - 1)
	case "down", "j":
		m.Select(m.selected + 1)
	case "enter":
		return m.choose()
	}

	return m, nil
}

func (m TimeframePicker) choose() (TimeframePicker, tea.Cmd) {
	label := m.selected.String()

	switch m.selected {
	case TimeframeCustom:
		m.form = m.newRangeForm()
		return m, m.form.Init()
	case TimeframeAll:
		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Label: label, All: true}
		}
	}

	start, end := DateRange(m.selected, m.now())

	return m, func() tea.Msg {
		return TimeframeSelectedMsg{Label: label, Start: start, End: end}
	}
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.Reset()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	start, end, err := m.dates.bounds()
	m.Reset()

	if err != nil {
		return m, nil
	}

	return m, func() tea.Msg {
		return TimeframeSelectedMsg{Label: FormatDate(start) + " a " + FormatDate(end), Start: start, End: end}
	}
}

func (m *TimeframePicker) newRangeForm() *huh.Form {
	m.dates = &customRange{}
	dates := m.dates

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Início").
				Placeholder("AAAA-MM-DD").
				CharLimit(10).
				Value(&dates.Start).
				Validate(func(s string) error {
					if _, err := transaction.ParseDate(s); err != nil {
						return errInvalidDate
					}

					return nil
				}),
			huh.NewInput().
				Title("Fim").
				Placeholder("AAAA-MM-DD").
				CharLimit(10).
				Value(&dates.End).
				Validate(func(s string) error {
					end, err := transaction.ParseDate(s)
					if err != nil {
						return errInvalidDate
					}

					if start, err := transaction.ParseDate(dates.Start); err == nil && end.Before(start) {
						return errRangeReversed
					}

					return nil
				}),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m TimeframePicker) View() string {
	if !m.IsSelecting() {
		return "Período personalizado\n\n" + m.form.View() + "\n" + faintStyle.Render("Enter confirma, Esc volta")
	}

	var sb strings.Builder

	sb.WriteString("Selecione o período:\n\n")

	for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
		if tf == m.selected {
			sb.WriteString(accentStyle.Render("> " + tf.String()))
		} else {
			sb.WriteString("  " + tf.String())
		}

		sb.WriteByte('\n')
	}

	sb.WriteString("\n" + faintStyle.Render("↑/↓ move, Enter seleciona, Esc volta"))

	return sb.String()
}
