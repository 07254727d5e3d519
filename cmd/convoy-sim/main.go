package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/sim"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file. Defaults are used when empty.")
	runs := flag.Int("runs", 8, "The number of independent runs to simulate.")
	parallel := flag.Int("parallel", runtime.GOMAXPROCS(0), "The maximum number of runs simulated at once.")
	level := flag.Int("level", 0, "Override the configured level.")
	debug := flag.Bool("debug", false, "Log at debug level with the console encoder.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if *level > 0 {
		cfg.Level = *level
	}
	if *debug {
		cfg.Log = config.LogConfig{Level: "debug", Encoding: "console"}
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := &Report{
		Runs:           make([]RunResult, *runs),
		Level:          cfg.Level,
		Cars:           len(cfg.Cars),
		Step:           cfg.Run.Step,
		MaxDuration:    cfg.Run.MaxDuration,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("starting batch", zap.Int("runs", *runs), zap.Int("parallel", *parallel), zap.Int("level", cfg.Level))
	startTime := time.Now()

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(*parallel, 1))
	for i := range report.Runs {
		runCfg := cfg
		runCfg.Seed = fmt.Sprintf("%s-%d", cfg.Seed, i)
		group.Go(func() error {
			result, err := simulate(ctx, runCfg, logger)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			report.Runs[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logger.Error("batch failed", zap.Error(err))
		os.Exit(1)
	}

	report.TotalTime = time.Since(startTime)
	report.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("batch finished", zap.Duration("elapsed", report.TotalTime))
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
}

func simulate(ctx context.Context, cfg config.Config, logger *zap.Logger) (RunResult, error) {
	id := uuid.NewString()
	runLogger := logger.With(zap.String("run", id), zap.String("seed", cfg.Seed))

	world, err := sim.NewWorld(cfg, sim.WithLogger(runLogger))
	if err != nil {
		return RunResult{}, err
	}

	start := time.Now()
	stats, err := world.Simulate(ctx)
	if err != nil {
		return RunResult{}, err
	}

	return RunResult{
		Id:        id,
		Seed:      cfg.Seed,
		Stats:     stats,
		WallTime:  time.Since(start),
		Scheduler: world.Scheduler.GetStats(),
		Grid:      world.Grid.Stats(),
	}, nil
}
