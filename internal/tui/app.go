// Package tui is the interactive editor for route selection files.
package tui

import (
	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type page int

const (
	pageMain page = iota
	pageList
	pageExport
)

// AppModel switches between the landing page, the route list and the export page.
type AppModel struct {
	mainPage   MainPageModel
	listPage   ListPageModel
	exportView ExportView
	outputPath string
	page       page
}

// NewAppModel creates the editor for routes, seeded from selection. The export
// page proposes outputPath.
func NewAppModel(routes []*catalog.Route, selection *catalog.Selection, outputPath string) AppModel {
	items := newRouteItems(routes, selection)
	return AppModel{
		mainPage:   NewMainPageModel(items),
		listPage:   NewListPageModel(items),
		outputPath: outputPath,
		page:       pageMain,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.mainPage.Init(), m.listPage.Init())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenEditorMsg, BackToEditorMsg:
		m.page = pageList
		return m, nil

	case FinishedMsg:
		m.page = pageExport
		m.exportView = NewExportView(msg.Items, m.outputPath)
		return m, m.exportView.Init()

	case tea.KeyMsg:
		if msg.String() == "esc" && m.page == pageList && !m.listPage.editing && m.listPage.list.FilterState() == list.Unfiltered {
			m.page = pageMain
			return m, nil
		}

	case tea.WindowSizeMsg:
		var cmds []tea.Cmd
		var next tea.Model
		var cmd tea.Cmd

		next, cmd = m.mainPage.Update(msg)
		m.mainPage = next.(MainPageModel)
		cmds = append(cmds, cmd)

		next, cmd = m.listPage.Update(msg)
		m.listPage = next.(ListPageModel)
		cmds = append(cmds, cmd)

		next, cmd = m.exportView.Update(msg)
		m.exportView = next.(ExportView)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	var next tea.Model
	var cmd tea.Cmd
	switch m.page {
	case pageMain:
		next, cmd = m.mainPage.Update(msg)
		m.mainPage = next.(MainPageModel)
	case pageList:
		next, cmd = m.listPage.Update(msg)
		m.listPage = next.(ListPageModel)
	case pageExport:
		next, cmd = m.exportView.Update(msg)
		m.exportView = next.(ExportView)
	}
	return m, cmd
}

func (m AppModel) View() string {
	switch m.page {
	case pageMain:
		return m.mainPage.View()
	case pageExport:
		return m.exportView.View()
	default:
		return m.listPage.View()
	}
}

// Items returns the routes with their current edits.
func (m AppModel) Items() []RouteItem {
	return m.listPage.Items()
}

// Exported reports whether a selection file was written, and where.
func (m AppModel) Exported() (string, bool) {
	return m.exportView.Path, m.exportView.Success
}
