// Package layout provides the default frame and draw collaborators for
// terminal menus: one cell row per column item, label-width cells per bar
// item, and lipgloss rendering of a single item.
package layout

import (
	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/mattn/go-runewidth"
)

const (
	markColumn    = 2 // "✓ " or "• "
	arrowColumn   = 2 // " ▸"
	shortcutGap   = 3
	barPadding    = 1
	minItemWidth  = 8
	separatorRows = 1
)

// Cells lays items out in terminal cells.
type Cells struct{}

// ComputeItemFrames implements menu.Layouter.
func (Cells) ComputeItemFrames(m *menu.Menu) []geom.Rect {
	switch m.Layout() {
	case menu.LayoutRow:
		return rowFrames(m)
	case menu.LayoutMatrix:
		return matrixFrames(m)
	default:
		return columnFrames(m)
	}
}

// Measure computes and caches the text metrics of m.
func Measure(m *menu.Menu) menu.Metrics {
	metrics := menu.Metrics{CellHeight: 1}
	for _, item := range m.Items() {
		if item.IsSeparator() {
			continue
		}
		metrics.LabelWidth = max(metrics.LabelWidth, runewidth.StringWidth(item.Label))
		if !item.Shortcut.IsZero() {
			metrics.ShortcutWidth = max(metrics.ShortcutWidth, runewidth.StringWidth(item.Shortcut.String()))
		}
	}
	m.SetMetrics(metrics)
	return metrics
}

// ColumnWidth is the width of every item of a column menu.
func ColumnWidth(metrics menu.Metrics) int {
	width := markColumn + metrics.LabelWidth + arrowColumn
	if metrics.ShortcutWidth > 0 {
		width += shortcutGap + metrics.ShortcutWidth
	}
	return max(width, minItemWidth)
}

func columnFrames(m *menu.Menu) []geom.Rect {
	metrics := Measure(m)
	width := ColumnWidth(metrics)
	if maxWidth, _ := m.MaxSize(); maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	frames := make([]geom.Rect, m.CountItems())
	y := 0
	for i, item := range m.Items() {
		h := metrics.CellHeight
		if item.IsSeparator() {
			h = separatorRows
		}
		frames[i] = geom.R(0, y, width, h)
		y += h
	}
	return frames
}

func rowFrames(m *menu.Menu) []geom.Rect {
	metrics := Measure(m)
	frames := make([]geom.Rect, m.CountItems())
	x := 0
	maxWidth, _ := m.MaxSize()
	for i, item := range m.Items() {
		w := runewidth.StringWidth(item.Label) + 2*barPadding
		if item.IsSeparator() {
			w = 1
		}
		if maxWidth > 0 && x+w > maxWidth {
			w = max(maxWidth-x, 0)
		}
		frames[i] = geom.R(x, 0, w, metrics.CellHeight)
		x += w
	}
	return frames
}

func matrixFrames(m *menu.Menu) []geom.Rect {
	Measure(m)
	frames := make([]geom.Rect, m.CountItems())
	for i, item := range m.Items() {
		if frame, ok := m.MatrixFrame(item); ok {
			frames[i] = frame
		}
	}
	return frames
}
