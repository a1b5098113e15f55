package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xingh/bsn-modulestore/cmd/dump"
	"github.com/xingh/bsn-modulestore/cmd/install"
	"github.com/xingh/bsn-modulestore/cmd/plan"
	"github.com/xingh/bsn-modulestore/cmd/util"
	"github.com/xingh/bsn-modulestore/internal/logger"
	"github.com/xingh/bsn-modulestore/internal/version"
)

var Debug bool
var cfgFile string
var logFormat string

var RootCmd = &cobra.Command{
	Use:   "modulestore",
	Short: "Versioned schema installer for database units",
	Long: fmt.Sprintf(`modulestore installs the schema declared by a unit and plans its
migration from a live schema snapshot.

Version: %s

Commands:
  install  Generate install SQL for a unit
  plan     Generate migration plan
  dump     Dump the inventory of a unit

Use "modulestore [command] --help" for more information about a command.`, version.String()),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(cmd.ErrOrStderr()); err != nil {
			return err
		}
		return initConfig()
	},
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", util.GetEnvWithDefault("MODULESTORE_LOG_FORMAT", string(logger.FormatText)), "Log format: text or json (env: MODULESTORE_LOG_FORMAT)")
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", util.GetEnvWithDefault("MODULESTORE_CONFIG", ""), "Config file (default is ./modulestore.yaml or $HOME/modulestore.yaml) (env: MODULESTORE_CONFIG)")
	RootCmd.AddCommand(install.InstallCmd)
	RootCmd.AddCommand(plan.PlanCmd)
	RootCmd.AddCommand(dump.DumpCmd)
	RootCmd.AddCommand(VersionCmd)
}

func setupLogger(w io.Writer) error {
	format, err := logger.ParseFormat(logFormat)
	if err != nil {
		return err
	}
	logger.Setup(w, format, Debug)
	return nil
}

// initConfig reads the config file if one is given or found
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName("modulestore")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	logger.Get().Debug("using config file", "path", viper.ConfigFileUsed())
	return nil
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
