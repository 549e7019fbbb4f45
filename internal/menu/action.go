package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ActionResult reports what an item's action did back to the host program.
type ActionResult struct {
	Info string
	Err  error
}

// Report returns an action that posts an ActionResult naming the item.
func Report(format string) Action {
	return func(item *Item) tea.Cmd {
		return func() tea.Msg {
			return ActionResult{Info: fmt.Sprintf(format, item.Label)}
		}
	}
}
