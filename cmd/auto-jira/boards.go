package main

import (
	"strconv"

	"github.com/brizzai/auto-jira/internal/jira"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newBoardsCmd() *cobra.Command {
	var opts jira.BoardListOptions

	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List agile boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, true)
			if err != nil {
				return err
			}

			var client *jira.Client
			if err := populate(cfg, &client); err != nil {
				return err
			}

			res, err := client.Boards.List(cmd.Context(), &opts)
			if err != nil {
				return err
			}
			page, err := res.Unwrap()
			if err != nil {
				return err
			}

			data := pterm.TableData{{"ID", "Name", "Type", "Project"}}
			for _, b := range page.Values {
				project := ""
				if b.Location != nil {
					project = b.Location.ProjectKey
				}
				data = append(data, []string{strconv.Itoa(b.ID), b.Name, b.Type, project})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
			pterm.Info.Printfln("Showing %d of %d boards", len(page.Values), page.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ProjectKeyOrID, "project", "", "Only boards of this project")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Only boards whose name contains this text")
	cmd.Flags().StringSliceVar(&opts.Type, "type", nil, "Board types (scrum,kanban,simple)")
	cmd.Flags().IntVar(&opts.StartAt, "start-at", 0, "Index of the first board")
	cmd.Flags().IntVar(&opts.MaxResults, "max-results", 50, "Page size")
	return cmd
}
