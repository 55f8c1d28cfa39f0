package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const previewRoutes = 5

type mainPageKeyMap struct {
	open key.Binding
	quit key.Binding
}

func newMainPageKeyMap() *mainPageKeyMap {
	return &mainPageKeyMap{
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open route editor"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("ctrl+c/q", "quit"),
		),
	}
}

// MainPageModel is the landing page: a summary of the document and a preview.
type MainPageModel struct {
	keys   *mainPageKeyMap
	items  []RouteItem
	width  int
	height int
}

// OpenEditorMsg switches to the route editor.
type OpenEditorMsg struct{}

func NewMainPageModel(items []RouteItem) MainPageModel {
	return MainPageModel{keys: newMainPageKeyMap(), items: items}
}

func (m MainPageModel) Init() tea.Cmd {
	return nil
}

func (m MainPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.open):
			return m, func() tea.Msg { return OpenEditorMsg{} }
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MainPageModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	selected := 0
	for _, item := range m.items {
		if !item.IsRemoved {
			selected++
		}
	}

	centered := lipgloss.NewStyle().Padding(1, 0).Width(m.width - 4).Align(lipgloss.Center)
	description := centered.Render(fmt.Sprintf(
		"Choose which Jira operations are exposed as MCP tools and tune their descriptions.\n\n"+
			"%s selected of %d in the document.",
		pluralize(selected, "route"), len(m.items),
	))

	var preview strings.Builder
	for i, item := range m.items {
		if i == previewRoutes {
			fmt.Fprintf(&preview, "\n... and %d more", len(m.items)-previewRoutes)
			break
		}
		fmt.Fprintf(&preview, "%-7s %s\n", item.Route.Method, item.Route.Path)
	}
	previewBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(accent).
		Padding(1, 1).
		Width(m.width - 10).
		Render(preview.String())

	help := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#A49FA5"}).
		Width(m.width - 4).
		Align(lipgloss.Center).
		Render("enter: open editor  q: quit")

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		"",
		titleStyle.Render("Jira Route Selection"),
		description,
		previewBox,
		"",
		help,
	))
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", count, noun)
}
