package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// newItemDelegate returns a list delegate that toggles the selected route.
func newItemDelegate(keys *delegateKeyMap) list.DefaultDelegate {
	d := list.NewDefaultDelegate()

	d.UpdateFunc = func(msg tea.Msg, m *list.Model) tea.Cmd {
		item, ok := m.SelectedItem().(RouteItem)
		if !ok {
			return nil
		}

		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.toggle) {
			updated := item.ToggleRemoved()
			m.SetItem(m.GlobalIndex(), updated)
			if updated.IsRemoved {
				return m.NewStatusMessage(statusMessageStyle("Removed " + item.Route.OperationID))
			}
			return m.NewStatusMessage(statusMessageStyle("Restored " + item.Route.OperationID))
		}
		return nil
	}

	help := []key.Binding{keys.toggle}
	d.ShortHelpFunc = func() []key.Binding { return help }
	d.FullHelpFunc = func() [][]key.Binding { return [][]key.Binding{help} }
	return d
}

type delegateKeyMap struct {
	toggle key.Binding
}

func newDelegateKeyMap() *delegateKeyMap {
	return &delegateKeyMap{
		toggle: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "remove/restore route"),
		),
	}
}
