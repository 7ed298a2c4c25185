package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/protozoa/config"
	"github.com/pthm-cable/protozoa/game"
	"github.com/pthm-cable/protozoa/stream"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	listen := flag.String("listen", "", "Address for the websocket state stream (empty = disabled)")
	serial := flag.Bool("serial", false, "Disable parallel movement planning")
	realtime := flag.Bool("realtime", false, "Pace the simulation at the configured tick rate")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	g, err := game.New(game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Serial:         *serial,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	g.SpawnPopulation()

	var broadcaster *stream.Broadcaster
	if *listen != "" {
		broadcaster = stream.NewBroadcaster()
		go func() {
			if err := broadcaster.Serve(*listen); err != nil {
				slog.Error("stream server stopped", "error", err)
			}
		}()
		slog.Info("streaming world snapshots", "addr", *listen)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"tick_rate", 1/cfg.Physics.DT,
	)

	tickInterval := time.Duration(cfg.Physics.DT * float64(time.Second))
	for tick := 0; *maxTicks == 0 || tick < *maxTicks; tick++ {
		start := time.Now()

		g.Step()

		if broadcaster != nil && broadcaster.ClientCount() > 0 {
			broadcaster.Publish(g.Snapshot())
		}

		if *realtime {
			if elapsed := time.Since(start); elapsed < tickInterval {
				time.Sleep(tickInterval - elapsed)
			}
		}
	}

	g.LogSummary()
	slog.Info("simulation finished", "ticks", g.Tick())
}
