package main

import (
	"os"

	"github.com/brizzai/auto-jira/internal/config"
	"github.com/brizzai/auto-jira/internal/logger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "auto-jira",
	Short: "Typed Jira REST dispatch from the command line and over MCP",
	Long: `auto-jira turns a Jira OpenAPI document into callable operations.
Use it to list routes, call a single operation, or serve every selected
route as an MCP tool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(newRoutesCmd(), newCallCmd(), newServeCmd(), newBoardsCmd(), newCredentialCmd(), newSelectCmd())
}

// loadConfig reads configuration for cmd and initializes the global logger.
func loadConfig(cmd *cobra.Command, validate bool) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(&cfg.Logging); err != nil {
		return nil, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
