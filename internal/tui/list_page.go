package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type listKeyMap struct {
	edit   key.Binding
	save   key.Binding
	finish key.Binding
	quit   key.Binding
}

func newListKeyMap() *listKeyMap {
	return &listKeyMap{
		edit: key.NewBinding(
			key.WithKeys("E", "e"),
			key.WithHelp("e", "edit description"),
		),
		save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		finish: key.NewBinding(
			key.WithKeys("F", "f"),
			key.WithHelp("f", "finish"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// FinishedMsg carries the edited routes to the export page.
type FinishedMsg struct {
	Items []RouteItem
}

// ListPageModel is the filterable route list with an inline description editor.
type ListPageModel struct {
	list      list.Model
	keys      *listKeyMap
	editing   bool
	editIndex int
	editor    descriptionEditor
}

func NewListPageModel(items []RouteItem) ListPageModel {
	keys := newListKeyMap()

	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, newItemDelegate(newDelegateKeyMap()), 0, 0)
	l.Title = titleStyle.Render("Jira routes")
	l.SetShowFilter(true)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.edit, keys.finish, keys.quit}
	}

	return ListPageModel{list: l, keys: keys, editIndex: -1}
}

func (m ListPageModel) Init() tea.Cmd {
	return nil
}

func (m ListPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(size.Width-h, size.Height-v)
	}
	if m.editing {
		return m.updateEditing(msg)
	}
	return m.updateList(msg)
}

func (m ListPageModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.save) {
		m.editing = false
		item, ok := m.list.Items()[m.editIndex].(RouteItem)
		if !ok {
			return m, nil
		}
		description := m.editor.Value()
		if description == item.Route.Description {
			description = ""
		}
		if description != item.NewDescription {
			cmd := m.list.SetItem(m.editIndex, item.WithDescription(description))
			return m, tea.Batch(cmd, m.list.NewStatusMessage(statusMessageStyle("Updated description of "+item.Route.OperationID)))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m ListPageModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Keys are left to the filter input while the user is typing a filter
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.edit):
			item, ok := m.list.SelectedItem().(RouteItem)
			if !ok {
				return m, nil
			}
			if item.IsRemoved {
				return m, m.list.NewStatusMessage(statusMessageStyle("Restore the route before editing it"))
			}
			m.editing = true
			m.editIndex = m.list.GlobalIndex()
			m.editor = newDescriptionEditor(item.Description())
			return m, nil
		case key.Matches(msg, m.keys.finish):
			items := m.Items()
			return m, func() tea.Msg { return FinishedMsg{Items: items} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ListPageModel) View() string {
	if m.editing {
		if item, ok := m.list.Items()[m.editIndex].(RouteItem); ok {
			return docStyle.Render(m.editor.View(item.Title()))
		}
	}
	return docStyle.Render(m.list.View())
}

// Items returns every route with its edits, filtered or not.
func (m ListPageModel) Items() []RouteItem {
	all := m.list.Items()
	items := make([]RouteItem, 0, len(all))
	for _, it := range all {
		if item, ok := it.(RouteItem); ok {
			items = append(items, item)
		}
	}
	return items
}
