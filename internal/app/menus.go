package app

import (
	"fmt"

	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const demoLines = 40

func ctrl(key string) menu.Shortcut {
	return menu.Shortcut{Key: key, Mods: menu.ModCtrl}
}

func toggle(item *menu.Item) tea.Cmd {
	return func() tea.Msg { return ui.MarkMsg{Item: item, Toggle: true} }
}

func quit(*menu.Item) tea.Cmd { return tea.Quit }

// barDefinitions describes the demo menu bar. The Go menu is long enough
// to scroll on ordinary terminals.
func barDefinitions() []menu.Definition {
	ran := menu.Report("ran %s")
	defs := []menu.Definition{
		{ID: "file", Label: "File", Trigger: 'f'},
		{ID: "file:new", Label: "New", Shortcut: ctrl("n"), Action: ran},
		{ID: "file:open", Label: "Open…", Shortcut: ctrl("o"), Action: ran},
		{ID: "file:recent", Label: "Open Recent"},
		{ID: "file:recent:notes", Label: "notes.md", Action: ran},
		{ID: "file:recent:todo", Label: "todo.txt", Action: ran},
		{ID: "file:recent:archive", Label: "Archive"},
		{ID: "file:recent:archive:2024", Label: "2024.tar", Action: ran},
		{ID: "file:recent:archive:2025", Label: "2025.tar", Action: ran},
		{ID: "file:sep", Separator: true},
		{ID: "file:quit", Label: "Quit", Shortcut: ctrl("q"), Action: quit},

		{ID: "edit", Label: "Edit", Trigger: 'e'},
		{ID: "edit:undo", Label: "Undo", Shortcut: ctrl("z"), Disabled: true},
		{ID: "edit:cut", Label: "Cut", Shortcut: ctrl("x"), Action: ran},
		{ID: "edit:copy", Label: "Copy", Action: ran},
		{ID: "edit:paste", Label: "Paste", Shortcut: ctrl("v"), Action: ran},
		{ID: "edit:sep", Separator: true},
		{ID: "edit:find", Label: "Find"},
		{ID: "edit:find:find", Label: "Find…", Shortcut: ctrl("f"), Action: ran},
		{ID: "edit:find:replace", Label: "Replace…", Shortcut: ctrl("r"), Action: ran},

		{ID: "view", Label: "View", Trigger: 'v'},
		{ID: "view:wrap", Label: "Word Wrap", Action: toggle, Marked: true},
		{ID: "view:ruler", Label: "Ruler", Action: toggle},
		{ID: "view:theme", Label: "Theme", Radio: true},
		{ID: "view:theme:light", Label: "Light", Action: toggle},
		{ID: "view:theme:dark", Label: "Dark", Action: toggle, Marked: true},
		{ID: "view:theme:system", Label: "System", Action: toggle},

		{ID: "go", Label: "Go", Trigger: 'g'},
	}
	for i := 1; i <= demoLines; i++ {
		defs = append(defs, menu.Definition{
			ID:     fmt.Sprintf("go:line%02d", i),
			Label:  fmt.Sprintf("Line %d", i*10),
			Action: ran,
		})
	}
	defs = append(defs,
		menu.Definition{ID: "help", Label: "Help", Trigger: 'h'},
		menu.Definition{ID: "help:about", Label: "About menutrack", Action: ran},
	)
	return defs
}

// buildMenus returns the bar and the context menu of the demo program.
func buildMenus() (*menu.Menu, *menu.Menu, error) {
	reg, err := menu.BuildRegistry("bar", "Menu Bar", menu.LayoutRow, barDefinitions())
	if err != nil {
		return nil, nil, fmt.Errorf("build menu bar: %w", err)
	}
	ctxReg, err := menu.BuildRegistry("context", "Context", menu.LayoutColumn, []menu.Definition{
		{ID: "cut", Label: "Cut", Action: menu.Report("ran %s")},
		{ID: "copy", Label: "Copy", Action: menu.Report("ran %s")},
		{ID: "paste", Label: "Paste", Action: menu.Report("ran %s")},
		{ID: "sep", Separator: true},
		{ID: "insert", Label: "Insert"},
		{ID: "insert:date", Label: "Date", Action: menu.Report("ran %s")},
		{ID: "insert:time", Label: "Time", Action: menu.Report("ran %s")},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build context menu: %w", err)
	}
	return reg.Root(), ctxReg.Root(), nil
}
