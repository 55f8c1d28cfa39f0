package main

import (
	"bufio"
	"errors"
	"strings"

	"github.com/brizzai/auto-jira/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCredentialCmd() *cobra.Command {
	var service, user string

	cmd := &cobra.Command{
		Use:   "store-credential",
		Short: "Store an API token in the OS keyring, reading it from stdin",
		Long: `Stores a secret in the OS keyring so config files can reference it with
auth_config.keyring_service and auth_config.keyring_user instead of
holding the token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			secret = strings.TrimSpace(secret)
			if secret == "" {
				if err != nil {
					return err
				}
				return errors.New("no secret on stdin")
			}
			if err := config.StoreCredential(service, user, secret); err != nil {
				return err
			}
			pterm.Success.Printfln("Stored credential for %s in keyring service %s", user, service)
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "auto-jira", "Keyring service name")
	cmd.Flags().StringVar(&user, "user", "", "Keyring user (usually the Jira account email)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
