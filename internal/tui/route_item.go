package tui

import (
	"fmt"

	"github.com/brizzai/auto-jira/internal/catalog"
)

// RouteItem is one route in the editor list. It implements list.Item.
type RouteItem struct {
	Route          *catalog.Route
	NewDescription string
	IsRemoved      bool
}

func (i RouteItem) Title() string {
	return fmt.Sprintf("%s  %s %s", i.Route.OperationID, i.Route.Method, i.Route.Path)
}

func (i RouteItem) Description() string {
	if i.IsRemoved {
		return removedStyle.Render("[Removed]")
	}
	if i.NewDescription != "" {
		return i.NewDescription
	}
	return i.Route.Description
}

func (i RouteItem) WithDescription(description string) RouteItem {
	i.NewDescription = description
	return i
}

func (i RouteItem) ToggleRemoved() RouteItem {
	i.IsRemoved = !i.IsRemoved
	return i
}

func (i RouteItem) FilterValue() string {
	return i.Route.OperationID + " " + i.Route.Path + " " + i.Route.Description
}

// newRouteItems seeds the editor from the current selection: unselected
// routes start removed, overridden descriptions start edited.
func newRouteItems(routes []*catalog.Route, selection *catalog.Selection) []RouteItem {
	items := make([]RouteItem, len(routes))
	for i, r := range routes {
		item := RouteItem{Route: r, IsRemoved: !selection.Includes(r)}
		if d := selection.Description(r.Path, r.Method, ""); d != "" {
			item.NewDescription = d
		}
		items[i] = item
	}
	return items
}
