package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/unixpickle/essentials"

	"github.com/unixpickle/weather-reduce/collcomm/allreduce"
	"github.com/unixpickle/weather-reduce/collcomm/reduce"
	"github.com/unixpickle/weather-reduce/forecast"
	"github.com/unixpickle/weather-reduce/weather"
)

// benchInfo describes a specific network configuration.
type benchInfo struct {
	Workers int
	Latency float64
	Rate    float64
}

var benchLocations int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare the virtual run time of each collective algorithm",
	Long: `bench runs the forecast on several simulated networks with every
combination of all-reduce and reduce-to-root algorithm, and prints a
markdown table of the virtual time each run took.`,
	RunE: withFreshFlags(func(cmd *cobra.Command, args []string) error {
		names := make([]string, benchLocations)
		for i := range names {
			names[i] = "site-" + strconv.Itoa(i)
		}
		dir, err := weather.NewDirectory(names)
		if err != nil {
			return err
		}

		runs := []benchInfo{
			{Workers: 2, Latency: 0.1, Rate: 1e6},
			{Workers: 16, Latency: 1e-3, Rate: 1e6},
			{Workers: 32, Latency: 0.1, Rate: 1e6},
			{Workers: 32, Latency: 1e-4, Rate: 1e9},
		}
		out := cmd.OutOrStdout()

		// Markdown table header.
		fmt.Fprint(out, "| Workers | Latency | NIC rate ")
		for _, a := range allreduce.Names {
			for _, r := range reduce.Names {
				fmt.Fprintf(out, "| %s/%s ", a, r)
			}
		}
		fmt.Fprintln(out, "|")
		for i := 0; i < 3+len(allreduce.Names)*len(reduce.Names); i++ {
			fmt.Fprint(out, "|:--")
		}
		fmt.Fprintln(out, "|")

		// Markdown table body.
		for _, info := range runs {
			if info.Workers > dir.Len() {
				continue
			}
			fmt.Fprintf(out, "| %d | %s | %s ", info.Workers,
				strconv.FormatFloat(info.Latency, 'f', -1, 64),
				strconv.FormatFloat(info.Rate, 'E', -1, 64))
			for _, a := range allreduce.Names {
				for _, r := range reduce.Names {
					allreducer, err := allreduce.ByName(a)
					essentials.Must(err)
					reducer, err := reduce.ByName(r)
					essentials.Must(err)
					outcome, err := forecast.Run(forecast.Config{
						Workers:   info.Workers,
						Directory: dir,
						Barrier:   true,
						Network: forecast.NetworkConfig{
							Kind:    "switched",
							Latency: info.Latency,
							Rate:    info.Rate,
						},
						Allreducer: allreducer,
						Reducer:    reducer,
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "| %f ", outcome.VirtualTime)
				}
			}
			fmt.Fprintln(out, "|")
		}
		return nil
	}),
}

func init() {
	benchCmd.Flags().IntVar(&benchLocations, "locations", 64, "number of synthetic locations")
	rootCmd.AddCommand(benchCmd)
}
