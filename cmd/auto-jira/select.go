package main

import (
	"fmt"

	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/brizzai/auto-jira/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const defaultSelectionFile = "selection.yaml"

func newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select",
		Short: "Interactively choose exposed routes and edit their descriptions",
		Long: `select opens an editor over every route of the OpenAPI document. Routes
not in the current selection file start out removed. The result is written as
a new selection file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, false)
			if err != nil {
				return err
			}
			if cfg.OpenAPIFile == "" {
				return errNoOpenAPIFile
			}

			// The editor needs every route, so the catalog is loaded unfiltered
			all := catalog.NewOpenAPICatalog(nil)
			if err := all.Load(cfg.OpenAPIFile, ""); err != nil {
				return err
			}
			selection := catalog.NewSelection()
			if err := selection.Load(cfg.SelectionFile); err != nil {
				return err
			}

			output := cfg.SelectionFile
			if output == "" {
				output = defaultSelectionFile
			}

			p := tea.NewProgram(tui.NewAppModel(all.Routes(), selection, output), tea.WithAltScreen())
			m, err := p.Run()
			if err != nil {
				return fmt.Errorf("route editor failed: %w", err)
			}

			final, ok := m.(tui.AppModel)
			if !ok {
				return nil
			}
			path, exported := final.Exported()
			if !exported {
				pterm.Warning.Println("No selection file written")
				return nil
			}
			kept := 0
			for _, item := range final.Items() {
				if !item.IsRemoved {
					kept++
				}
			}
			pterm.Success.Printfln("Kept %s routes out of %s, written to %s",
				pterm.LightGreen(kept), pterm.White(len(all.Routes())), path)
			return nil
		},
	}
}
