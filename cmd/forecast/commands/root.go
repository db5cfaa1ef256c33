package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/unixpickle/weather-reduce/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Distributed weather forecast over simulated collective reductions",
	Long: `forecast splits a list of locations across a group of simulated workers.
Each worker forecasts its own locations, and the group combines the
per-worker statistics with barrier, all-reduce, and reduce-to-root
collectives on a virtual network.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a forecast.yml file")
}

// loadConfig reads the config file if one was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// withFreshFlags puts every flag of the command back to its
// default once the command finishes, so that a later
// Execute in the same process starts clean.
func withFreshFlags(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer func() {
			resetFlags(cmd.Flags())
			resetFlags(cmd.InheritedFlags())
		}()
		return run(cmd, args)
	}
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}
