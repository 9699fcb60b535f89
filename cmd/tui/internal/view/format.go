package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pastel/internal/summary"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

const storeTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

func FormatAmount(d decimal.Decimal) string {
	return summary.FormatBRL(d)
}

// FormatSigned renders the amount with the sign implied by its type, colored
// like the dashboard flow chart.
func FormatSigned(t transaction.Type, d decimal.Decimal) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color())).Render(summary.SignedBRL(t, d))
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// StoreCtx returns a context with a standard timeout for store operations.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func activeStyle(s string) string {
	return accentStyle.Render(s)
}
