package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"
)

// BackToEditorMsg returns from the export page to the route list.
type BackToEditorMsg struct{}

// ExportView prompts for a file name and writes the selection file.
type ExportView struct {
	items     []RouteItem
	textInput textinput.Model
	width     int
	height    int
	status    string
	Success   bool
	Path      string
}

func NewExportView(items []RouteItem, defaultPath string) ExportView {
	ti := textinput.New()
	ti.Placeholder = "selection.yaml"
	ti.SetValue(defaultPath)
	ti.Focus()
	ti.Width = 40
	return ExportView{items: items, textInput: ti}
}

func (m ExportView) Init() tea.Cmd {
	return textinput.Blink
}

func (m ExportView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, func() tea.Msg { return BackToEditorMsg{} }
		case "enter":
			return m.export()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m ExportView) export() (tea.Model, tea.Cmd) {
	filename := strings.TrimSpace(m.textInput.Value())
	if filename == "" {
		m.status = "Please enter a file name"
		return m, nil
	}
	if !strings.HasSuffix(filename, ".yaml") && !strings.HasSuffix(filename, ".yml") {
		filename += ".yaml"
	}

	// An empty selection file would keep every route
	if len(BuildSelectionFile(m.items).Routes) == 0 {
		m.status = "Keep at least one route"
		return m, nil
	}

	if err := WriteSelectionFile(m.items, filename); err != nil {
		m.status = fmt.Sprintf("Export failed: %v", err)
		return m, nil
	}

	m.Success = true
	m.Path = filename
	m.status = completeMessageStyle("Exported to " + filename)
	return m, tea.Tick(time.Second, func(time.Time) tea.Msg { return tea.Quit() })
}

func (m ExportView) View() string {
	var sb strings.Builder
	for i := 0; i < (m.height-6)/2; i++ {
		sb.WriteString("\n")
	}
	sb.WriteString(centerText(titleStyle.Render("Export selection"), m.width))
	sb.WriteString("\n\n")
	sb.WriteString(centerText("Selection file:", m.width))
	sb.WriteString("\n")
	sb.WriteString(centerText(m.textInput.View(), m.width))
	sb.WriteString("\n\n")
	if m.status != "" {
		sb.WriteString(centerText(m.status, m.width))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(centerText("esc: back  enter: export", m.width))
	return sb.String()
}

// BuildSelectionFile turns the edited routes into a selection file. Kept
// routes are grouped by path; descriptions are written only where edited.
// Output order is stable.
func BuildSelectionFile(items []RouteItem) catalog.SelectionFile {
	var file catalog.SelectionFile
	methodsByPath := make(map[string][]string)

	for _, item := range items {
		if item.IsRemoved {
			continue
		}
		methodsByPath[item.Route.Path] = append(methodsByPath[item.Route.Path], item.Route.Method)
		if item.NewDescription != "" {
			file.Descriptions = append(file.Descriptions, catalog.DescriptionOverride{
				Path:        item.Route.Path,
				Method:      item.Route.Method,
				Description: item.NewDescription,
			})
		}
	}

	paths := make([]string, 0, len(methodsByPath))
	for path := range methodsByPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		methods := methodsByPath[path]
		sort.Strings(methods)
		file.Routes = append(file.Routes, catalog.PathSelection{Path: path, Methods: methods})
	}

	sort.SliceStable(file.Descriptions, func(i, j int) bool {
		a, b := file.Descriptions[i], file.Descriptions[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Method < b.Method
	})
	return file
}

// WriteSelectionFile writes the selection file for items to filename.
func WriteSelectionFile(items []RouteItem, filename string) error {
	data, err := yaml.Marshal(BuildSelectionFile(items))
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func centerText(text string, width int) string {
	if width <= len(text) {
		return text
	}
	return strings.Repeat(" ", (width-len(text))/2) + text
}
