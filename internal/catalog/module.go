package catalog

import (
	"github.com/brizzai/auto-jira/internal/config"
	"go.uber.org/fx"
)

// Module provides a loaded route catalog
var Module = fx.Module("catalog",
	fx.Provide(
		NewSelection,
		fx.Annotate(
			NewLoadedCatalog,
			fx.As(new(Catalog)),
		),
	),
)

// NewLoadedCatalog creates a catalog and loads the configured OpenAPI document.
func NewLoadedCatalog(cfg *config.Config, selection *Selection) (*OpenAPICatalog, error) {
	c := NewOpenAPICatalog(selection)
	if err := c.Load(cfg.OpenAPIFile, cfg.SelectionFile); err != nil {
		return nil, err
	}
	return c, nil
}
