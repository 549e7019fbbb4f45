package layout

import (
	"strings"

	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	checkGlyph     = "✓"
	radioGlyph     = "•"
	submenuGlyph   = "▸"
	separatorGlyph = "─"
	ellipsis       = "…"
)

// Drawer renders one item into a single line exactly frame.Dx() cells wide.
type Drawer struct {
	Styles *theme.Styles
}

// NewDrawer returns a drawer using the default theme.
func NewDrawer() *Drawer {
	return &Drawer{Styles: theme.Default()}
}

// DrawItem renders item for its frame. Only the highlight state comes from
// the tracking engine; everything else is read from the item.
func (d *Drawer) DrawItem(item *menu.Item, frame geom.Rect, highlighted bool) string {
	width := frame.Dx()
	if width <= 0 {
		return ""
	}
	styles := d.Styles
	if styles == nil {
		styles = theme.Default()
	}
	if item.IsSeparator() {
		return fit(theme.Render(styles.Separator, strings.Repeat(separatorGlyph, width)), width)
	}
	m := item.Menu()
	if m != nil && m.Layout() == menu.LayoutRow {
		style := styles.BarItem
		if highlighted {
			style = styles.BarItemHighlight
		}
		label := truncateLabel(item.Label, max(width-2*barPadding, 0))
		return fit(renderPadded(style, " "+label+" ", width), width)
	}

	base := styles.Item
	switch {
	case !item.Enabled():
		base = styles.ItemDisabled
	case highlighted:
		base = styles.ItemHighlight
	}

	mark := "  "
	if item.Marked() {
		glyph := checkGlyph
		if m != nil && m.RadioMode() {
			glyph = radioGlyph
		}
		mark = glyph + " "
	}

	var right string
	switch {
	case item.Submenu() != nil:
		right = " " + submenuGlyph
	case !item.Shortcut.IsZero():
		right = strings.Repeat(" ", shortcutGap) + item.Shortcut.String()
	default:
		right = "  "
	}

	labelWidth := width - ansi.StringWidth(mark) - ansi.StringWidth(right)
	if labelWidth < 0 {
		right = ""
		labelWidth = max(width-ansi.StringWidth(mark), 0)
	}
	label := truncateLabel(item.Label, labelWidth)
	gap := labelWidth - ansi.StringWidth(label)
	line := mark + label + strings.Repeat(" ", max(gap, 0)) + right
	return fit(renderPadded(base, line, width), width)
}

// truncateLabel shortens label to width cells. The ellipsis is only added
// when the label does not fit; truncate always reserves room for the tail.
func truncateLabel(label string, width int) string {
	if ansi.StringWidth(label) <= width {
		return label
	}
	return truncate.StringWithTail(label, uint(width), ellipsis)
}

func renderPadded(style *lipgloss.Style, text string, width int) string {
	if style == nil {
		return text
	}
	return style.Copy().Width(width).MaxWidth(width).Render(text)
}

// fit guarantees the rendered line is exactly width cells.
func fit(line string, width int) string {
	w := ansi.StringWidth(line)
	switch {
	case w > width:
		return ansi.Truncate(line, width, "")
	case w < width:
		return line + strings.Repeat(" ", width-w)
	default:
		return line
	}
}
