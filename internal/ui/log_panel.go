package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// LogPanel is the read-only status log, newest line at the bottom
type LogPanel struct {
	lines []string
	list  *widget.List
	now   func() time.Time
}

// NewLogPanel creates an empty status log
func NewLogPanel() *LogPanel {
	lp := &LogPanel{now: time.Now}
	lp.list = widget.NewList(
		func() int { return len(lp.lines) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(lp.lines) {
				obj.(*widget.Label).SetText(lp.lines[id])
			}
		},
	)
	return lp
}

// Container returns the log widget
func (lp *LogPanel) Container() fyne.CanvasObject {
	return lp.list
}

// Append adds a timestamped line, dropping the oldest beyond MaxLogLines
func (lp *LogPanel) Append(message string) {
	lp.lines = append(lp.lines, lp.now().Format(time.TimeOnly)+"  "+message)
	if over := len(lp.lines) - MaxLogLines; over > 0 {
		lp.lines = append(lp.lines[:0:0], lp.lines[over:]...)
	}
	lp.list.Refresh()
	lp.list.ScrollToBottom()
}

// Lines returns a copy of the log
func (lp *LogPanel) Lines() []string {
	return append([]string(nil), lp.lines...)
}
