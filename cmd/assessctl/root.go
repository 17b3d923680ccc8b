package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loanlens/assessment/pkg/observability"
)

const (
	app       = "assessctl"
	envPrefix = "ASSESSCTL"
)

// cli carries the per-invocation configuration shared by subcommands.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:          app,
		Short:        "assessctl scores loan applicant profiles with the LoanLens assessment engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initConfig()
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "a config file (default is assessctl.yaml in current directory)")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	_ = c.v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	_ = c.v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(newScoreCmd(c), newGetCmd(c), newMigrateCmd(c), newVersionCmd())
	return root
}

func (c *cli) initConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		return c.v.ReadInConfig()
	}

	c.v.AddConfigPath(".")
	c.v.SetConfigName(app)
	c.v.SetConfigType("yaml")
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

func (c *cli) logger(cmd *cobra.Command) *slog.Logger {
	level, format := "warn", "text"
	if c.v.GetBool("debug") {
		level = "debug"
	}
	if c.v.GetBool("json") {
		format = "json"
	}
	return observability.InitLogger(observability.LogConfig{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
}
