package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unixpickle/weather-reduce/forecast"
	"github.com/unixpickle/weather-reduce/logging"
	"github.com/unixpickle/weather-reduce/report"
)

var runFlags struct {
	workers   int
	root      int
	seed      int64
	network   string
	allreduce string
	reduce    string
	noBarrier bool
	noColor   bool
	logLevel  string
	logEvents bool
	withhold  []int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one forecast and print the report",
	RunE:  withFreshFlags(runForecast),
}

func init() {
	f := runCmd.Flags()
	f.IntVarP(&runFlags.workers, "workers", "n", 0, "number of workers")
	f.IntVar(&runFlags.root, "root", 0, "rank that receives the global max and min")
	f.Int64Var(&runFlags.seed, "seed", 0, "random seed (0 uses the clock)")
	f.StringVar(&runFlags.network, "network", "", "simulated network: switched or random")
	f.StringVar(&runFlags.allreduce, "allreduce", "", "all-reduce algorithm: naive, tree, or stream")
	f.StringVar(&runFlags.reduce, "reduce", "", "reduce-to-root algorithm: naive or tree")
	f.BoolVar(&runFlags.noBarrier, "no-barrier", false, "skip the per-location barrier")
	f.BoolVar(&runFlags.noColor, "no-color", false, "disable colored output")
	f.StringVar(&runFlags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&runFlags.logEvents, "log-events", false, "also emit every report line as a log record")
	f.IntSliceVar(&runFlags.withhold, "withhold", nil, "ranks that skip the collectives (failure drill)")
	rootCmd.AddCommand(runCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = runFlags.workers
	}
	if flags.Changed("root") {
		cfg.Root = runFlags.root
	}
	if flags.Changed("seed") {
		cfg.Seed = runFlags.seed
	}
	if flags.Changed("network") {
		cfg.Network.Kind = runFlags.network
	}
	if flags.Changed("allreduce") {
		cfg.Allreduce = runFlags.allreduce
	}
	if flags.Changed("reduce") {
		cfg.Reduce = runFlags.reduce
	}
	if flags.Changed("no-barrier") && runFlags.noBarrier {
		noBarrier := false
		cfg.Barrier = &noBarrier
	}
	if flags.Changed("no-color") && runFlags.noColor {
		noColor := false
		cfg.Color = &noColor
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = runFlags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	var rep report.Reporter = report.NewConsole(cmd.OutOrStdout(), cfg.UseColor())
	if runFlags.logEvents {
		rep = report.Multi{rep, report.Log{Logger: log}}
	}

	fc, err := cfg.Forecast(rep, log)
	if err != nil {
		return err
	}
	if flags.Changed("withhold") {
		fc.Withhold = runFlags.withhold
	}
	outcome, err := forecast.Run(fc)
	if err != nil {
		return describeFailure(err)
	}
	log.Debug("forecast complete",
		zap.String("run_id", outcome.RunID),
		zap.Float64("virtual_time", outcome.VirtualTime))
	return nil
}

// describeFailure adds a one-line summary of the failure
// class in front of the detailed error.
func describeFailure(err error) error {
	var stageErr *forecast.StageError
	switch {
	case errors.Is(err, forecast.ErrCollectiveParticipation):
		return fmt.Errorf("forecast aborted, no global result was produced: %w", err)
	case errors.As(err, &stageErr):
		return fmt.Errorf("forecast not started: %w", err)
	}
	return err
}
