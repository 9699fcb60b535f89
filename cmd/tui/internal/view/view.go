package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is a screen reachable from the main menu.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel carries the terminal size a screen lays itself out in. Both
// fields stay zero until the first tea.WindowSizeMsg.
type CommonModel struct {
	Width  int
	Height int
}

func (c *CommonModel) SetSize(msg tea.WindowSizeMsg) {
	c.Width, c.Height = msg.Width, msg.Height
}

// fit returns the space left after margins, or fallback before any size is known.
func (c CommonModel) fit(fallbackW, fallbackH, marginW, marginH int) (int, int) {
	w, h := fallbackW, fallbackH

	if c.Width > 0 {
		w = max(20, min(fallbackW, c.Width-marginW))
	}

	if c.Height > 0 {
		h = max(5, min(fallbackH, c.Height-marginH))
	}

	return w, h
}

// BackMsg returns control to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).PaddingLeft(1)
	helpStyle  = lipgloss.NewStyle().Faint(true).PaddingLeft(1)
)

// Frame renders v under its title with its key help below.
func Frame(v View) string {
	return titleStyle.Render(v.Title()) + "\n" + v.View() + "\n" + helpStyle.Render(v.ShortHelp())
}
