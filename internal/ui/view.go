package ui

import (
	"strings"

	"github.com/atomicstack/menutrack/internal/theme"
	"github.com/charmbracelet/x/ansi"
)

// View implements tea.Model. The window lock is held while painting so
// workers cannot move overlays or change menu frames mid-frame.
func (m *Model) View() string {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		return ""
	}
	blank := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = blank
	}

	m.surf.LockNow()
	if m.bar != nil {
		lines[0] = m.viewBar(width)
	}
	for _, w := range m.overlays.Windows() {
		frame := w.Frame()
		for i, line := range strings.Split(w.Paint(m.drawer, styles), "\n") {
			y := frame.Min.Y + i
			if y < 0 || y >= height {
				continue
			}
			lines[y] = splice(lines[y], frame.Min.X, line, width)
		}
	}
	m.surf.Unlock()

	if status := m.statusLine(width); status != "" && height > 1 {
		lines[height-1] = splice(lines[height-1], 0, status, width)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewBar(width int) string {
	line := theme.Render(styles.Bar, strings.Repeat(" ", width))
	highlight := int(m.barHighlight.Load())
	for i, item := range m.bar.Items() {
		frame, ok := m.barItemFrame(i)
		if !ok || frame.Min.X >= width {
			continue
		}
		line = splice(line, frame.Min.X, m.drawer.DrawItem(item, frame, i == highlight), width)
	}
	return line
}

func (m *Model) statusLine(width int) string {
	var text string
	switch {
	case m.errMsg != "":
		text = theme.Render(styles.Error, m.errMsg)
	case m.infoMsg != "":
		text = theme.Render(styles.Info, m.infoMsg)
	case m.showFooter:
		text = theme.Render(styles.Footer, m.footerHelp())
	default:
		return ""
	}
	return ansi.Truncate(text, width, "…")
}

func (m *Model) footerHelp() string {
	parts := make([]string, 0, len(m.keymap.Bindings()))
	for _, b := range m.keymap.Bindings() {
		help := b.Help()
		if help.Key == "" {
			continue
		}
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " · ")
}

// splice writes fg over bg starting at column x, keeping the styled cells
// of bg on both sides. The result is width cells wide.
func splice(bg string, x int, fg string, width int) string {
	if x >= width {
		return bg
	}
	if x < 0 {
		fg = ansi.TruncateLeft(fg, -x, "")
		x = 0
	}
	fg = ansi.Truncate(fg, width-x, "")
	left := ansi.Truncate(bg, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	end := x + ansi.StringWidth(fg)
	right := ""
	if end < width {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}
