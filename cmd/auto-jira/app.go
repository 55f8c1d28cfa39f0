package main

import (
	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/brizzai/auto-jira/internal/config"
	"github.com/brizzai/auto-jira/internal/jira"
	"github.com/brizzai/auto-jira/internal/logger"
	"github.com/brizzai/auto-jira/internal/requester"
	"github.com/brizzai/auto-jira/internal/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

// populate builds the dependency graph for cfg and fills targets. Only the
// constructors the targets need are run.
func populate(cfg *config.Config, targets ...any) error {
	app := fx.New(
		fx.Supply(cfg),
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: logger.GetLogger()}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		requester.Module,
		catalog.Module,
		jira.Module,
		server.Module,
		fx.Populate(targets...),
	)
	return app.Err()
}
