package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("37"))            // dark green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))            // yellow
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // blue
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))            // cyan
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))           // light grey
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")) // purple
)

var styleSymbols = map[string]string{
	"pass":    "✓",
	"fail":    "✗",
	"warning": "!",
	"pending": "◉",
	"info":    "ℹ",
	"arrow":   "→",
	"bullet":  "•",
	"hline":   "━",
}

// printer writes styled lines to a command's output
type printer struct {
	w io.Writer
}

func (p printer) success(text string) {
	fmt.Fprintln(p.w, successStyle.Render(styleSymbols["pass"]+" "+text))
}

func (p printer) error(text string) {
	fmt.Fprintln(p.w, errorStyle.Render(styleSymbols["fail"]+" "+text))
}

func (p printer) warning(text string) {
	fmt.Fprintln(p.w, warningStyle.Render(styleSymbols["warning"]+" "+text))
}

func (p printer) pending(text string) {
	fmt.Fprintln(p.w, pendingStyle.Render(styleSymbols["pending"]+" "+text))
}

func (p printer) info(text string) {
	fmt.Fprintln(p.w, infoStyle.Render(styleSymbols["info"]+" "+text))
}

func (p printer) header(text string) {
	fmt.Fprintln(p.w, headerStyle.Render(text))
}

// newTable builds a bordered table with bold centered headers
func newTable(headers []string, rows [][]string) *table.Table {
	t := table.New().Headers(headers...)
	t = t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(0, 1)
		}
		return lipgloss.NewStyle().Padding(0, 1)
	})
	for _, r := range rows {
		t.Row(r...)
	}
	return t
}

// progressBar renders "•━━━━    • 42.0% •"
func progressBar(percent, width int) string {
	if width <= 0 {
		width = 30
	}
	if percent < 0 {
		percent = 0
	}
	filled := min(percent*width/100, width)
	bar := styleSymbols["bullet"]
	bar += strings.Repeat(styleSymbols["hline"], filled)
	bar += strings.Repeat(" ", width-filled)
	bar += styleSymbols["bullet"]
	return debugStyle.Render(fmt.Sprintf("%s %3d%% %s", bar, percent, styleSymbols["bullet"]))
}
