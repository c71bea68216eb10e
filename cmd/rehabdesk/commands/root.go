// Package commands implements the rehabdesk command line.
package commands

import (
	"fmt"
	"os"

	"github.com/iwvelando/rehabdesk/internal/config"
	"github.com/iwvelando/rehabdesk/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries the state shared by every subcommand once the persistent
// pre-run has loaded the configuration.
type cli struct {
	version    string
	configFile string
	envFile    string
	logLevel   string

	conf   *config.Configuration
	logger *zap.Logger
}

// Execute runs the root command.
func Execute(version string) error {
	root := newRootCmd(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd(version string) *cobra.Command {
	c := &cli{version: version}

	root := &cobra.Command{
		Use:           "rehabdesk",
		Short:         "Real-estate rehab project management server and analyzers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", constants.DefaultConfigFile, "path to the YAML configuration file")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded into the environment when present")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		c.serveCmd(),
		c.brrrrCmd(),
		c.flipCmd(),
		c.configCmd(),
		c.versionCmd(),
	)
	return root
}

// load reads the configuration and builds the logger. The default config
// path may be absent; an explicit --config must exist.
func (c *cli) load(cmd *cobra.Command) error {
	conf, err := config.LoadConfiguration(config.LoadOptions{
		ConfigFile: c.configFile,
		Optional:   !cmd.Flags().Changed("config"),
		EnvFile:    c.envFile,
	})
	if err != nil {
		return err
	}

	logger, err := initializeLogger(conf.Logging, c.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.conf = conf
	c.logger = logger
	return nil
}
