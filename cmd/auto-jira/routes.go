package main

import (
	"errors"
	"strings"

	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/pterm/pterm"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

var errNoOpenAPIFile = errors.New("an OpenAPI document is required, set --openapi-file or openapi_file")

func newRoutesCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the selected routes of the OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, false)
			if err != nil {
				return err
			}
			if cfg.OpenAPIFile == "" {
				return errNoOpenAPIFile
			}

			var cat catalog.Catalog
			if err := populate(cfg, &cat); err != nil {
				return err
			}
			routes := cat.Routes()
			if filter != "" {
				routes = filterRoutes(routes, filter)
				if len(routes) == 0 {
					pterm.Warning.Printfln("No route matches %q", filter)
					return nil
				}
			}
			return pterm.DefaultTable.WithHasHeader().WithData(routeTable(routes)).Render()
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy match on operation id and path, best match first")
	return cmd
}

// routeSource matches against "operationId METHOD path", lower-cased.
type routeSource []*catalog.Route

func (s routeSource) String(i int) string {
	return strings.ToLower(s[i].OperationID + " " + s[i].Method + " " + s[i].Path)
}

func (s routeSource) Len() int { return len(s) }

func filterRoutes(routes []*catalog.Route, query string) []*catalog.Route {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return routes
	}
	matches := fuzzy.FindFrom(query, routeSource(routes))
	filtered := make([]*catalog.Route, len(matches))
	for i, m := range matches {
		filtered[i] = routes[m.Index]
	}
	return filtered
}

func routeTable(routes []*catalog.Route) pterm.TableData {
	data := pterm.TableData{{"Operation", "Method", "Path", "Params", "Summary"}}
	for _, r := range routes {
		params := make([]string, 0, len(r.Params)+1)
		for _, p := range r.Params {
			name := p.Name
			if p.Required {
				name += "*"
			}
			params = append(params, name)
		}
		if r.HasBody {
			params = append(params, r.BodyArgName())
		}
		data = append(data, []string{r.OperationID, r.Method, r.Path, strings.Join(params, ","), r.Summary})
	}
	return data
}
