// Package commands implements the splitfree command-line tool.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/splitfree/internal/config"
	"github.com/mmynk/splitfree/internal/remote"
	"github.com/mmynk/splitfree/pkg/logging"
)

// options are shared by every subcommand.
type options struct {
	configPath string
	token      string
	cfg        *config.Config
}

// remoteClient builds an API client from the loaded config.
// --token takes precedence over remote.token.
func (o *options) remoteClient() *remote.Client {
	token := o.cfg.Remote.Token
	if o.token != "" {
		token = o.token
	}
	return remote.New(remote.Config{
		BaseURL:         o.cfg.Remote.BaseURL,
		Token:           token,
		Timeout:         o.cfg.Remote.Timeout,
		BreakerFailures: o.cfg.Remote.BreakerFailures,
		BreakerCooldown: o.cfg.Remote.BreakerCooldown,
	})
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "splitfree",
		Short: "Split shared expenses and inspect SplitFree groups",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			logging.Setup(cfg.Log.Level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "remote API token (overrides remote.token)")

	rootCmd.AddCommand(newSplitCommand())
	rootCmd.AddCommand(newGroupsCommand(opts))
	rootCmd.AddCommand(newExpensesCommand(opts))
	rootCmd.AddCommand(newBalancesCommand(opts))

	return rootCmd
}
