package util

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ApplyConfig sets every flag that was not given on the command line from the
// config file. Keys are looked up as "<command>.<flag>" and then "<flag>", so
// a config file can hold shared and per-command values:
//
//	schema: app
//	plan:
//	  limit: 100
func ApplyConfig(cmd *cobra.Command, args []string) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			return
		}
		for _, key := range []string{cmd.Name() + "." + f.Name, f.Name} {
			if !viper.IsSet(key) {
				continue
			}
			if setErr := cmd.Flags().Set(f.Name, viper.GetString(key)); setErr != nil {
				err = fmt.Errorf("invalid value for %s in config file: %w", key, setErr)
			}
			return
		}
	})
	return err
}
