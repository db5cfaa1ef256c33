package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unixpickle/weather-reduce/partition"
)

var locationsWorkers int

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Show the location directory and each worker's partition",
	RunE: withFreshFlags(func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = locationsWorkers
		}
		dir, err := cfg.Directory()
		if err != nil {
			return err
		}
		ranges, err := partition.Plan(cfg.Workers, dir.Len())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for rank, r := range ranges {
			fmt.Fprintf(out, "worker %d %v:\n", rank, r)
			for i := r.Start; i < r.End; i++ {
				fmt.Fprintf(out, "  %d\t%s\n", i, dir.Name(i))
			}
		}
		return nil
	}),
}

func init() {
	locationsCmd.Flags().IntVarP(&locationsWorkers, "workers", "n", 0, "number of workers")
	rootCmd.AddCommand(locationsCmd)
}
