package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Bar               *lipgloss.Style
	BarItem           *lipgloss.Style
	BarItemHighlight  *lipgloss.Style
	Item              *lipgloss.Style
	ItemHighlight     *lipgloss.Style
	ItemDisabled      *lipgloss.Style
	Mark              *lipgloss.Style
	Shortcut          *lipgloss.Style
	ShortcutHighlight *lipgloss.Style
	Separator         *lipgloss.Style
	Arrow             *lipgloss.Style
	Overlay           *lipgloss.Style
	ScrollAffordance  *lipgloss.Style
	ScrollDisabled    *lipgloss.Style
	Status            *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Footer            *lipgloss.Style
}

var defaultStyles = Styles{
	Bar: ptr(
		lipgloss.NewStyle().Background(lipgloss.Color("236")),
	),
	BarItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
	),
	BarItemHighlight: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Background(lipgloss.Color("235")),
	),
	ItemHighlight: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	ItemDisabled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("235")),
	),
	Mark: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	),
	Shortcut: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	),
	ShortcutHighlight: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Separator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Background(lipgloss.Color("235")),
	),
	Arrow: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	Overlay: ptr(
		lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
	),
	ScrollAffordance: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("235")),
	),
	ScrollDisabled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Background(lipgloss.Color("235")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Render applies style when it is non-nil.
func Render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
