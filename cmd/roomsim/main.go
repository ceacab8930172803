// Command roomsim loads a set of rooms and walks a simulated player through
// them, logging every room transition.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/doomerang-rooms/assets"
	"github.com/automoto/doomerang-rooms/components"
	"github.com/automoto/doomerang-rooms/config"
	"github.com/automoto/doomerang-rooms/logging"
	"github.com/automoto/doomerang-rooms/systems"
	"github.com/automoto/doomerang-rooms/tilemap"
	"github.com/automoto/doomerang-rooms/world"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "roomsim:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML config file (empty = defaults)")
	mapsDir := flag.String("maps", "", "Directory of .tmx and description files (empty = embedded demo rooms)")
	start := flag.String("start", "", "Room to start in (overrides the config)")
	ticks := flag.Int("ticks", 1800, "Ticks to simulate; 0 runs until interrupted")
	watch := flag.Bool("watch", false, "Reload changed map files and run in real time")
	autopilot := flag.Bool("autopilot", true, "Walk the player from exit to exit")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *mapsDir != "" {
		cfg.Simulation.MapsDir = *mapsDir
	}
	if *start != "" {
		cfg.Simulation.StartMap = *start
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	mapOpts := []tilemap.Option{tilemap.WithScale(cfg.Simulation.Scale)}
	maps, names, err := loadMaps(cfg.Simulation.MapsDir, mapOpts)
	if err != nil {
		return err
	}
	logger.Info("loaded maps", zap.Strings("maps", names))

	opts := []world.Option{world.WithLogger(logger), world.WithMapOptions(mapOpts...)}
	if *autopilot {
		opts = append(opts, world.WithAutopilot())
	}
	if cfg.Persistence.Enabled {
		store, err := systems.OpenGDataStore(cfg.Persistence.AppName, logger)
		if err != nil {
			logger.Warn("progress will not be saved", zap.Error(err))
		} else {
			opts = append(opts, world.WithProgressStore(store))
		}
	}
	w := world.New(cfg, maps, opts...)
	defer w.Close()

	if *watch {
		if cfg.Simulation.MapsDir == "" {
			return errors.New("-watch needs a map directory")
		}
		watcher, err := world.NewWatcher(cfg.Simulation.MapsDir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.Simulation.MapsDir, err)
		}
		defer watcher.Close()
		w.Watch(watcher, os.DirFS(cfg.Simulation.MapsDir), cfg.Simulation.MapsDir)
	}

	if err := w.Resume(cfg.Simulation.StartMap); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *watch || *ticks == 0 {
		runRealtime(ctx, w, *ticks, cfg.Simulation.TickDuration(), logger)
	} else {
		runFast(ctx, w, *ticks, logger)
	}

	pos := w.PlayerPosition()
	logger.Info("simulation finished",
		zap.Int("ticks", w.Ticks()),
		zap.Duration("simulated", w.Elapsed()),
		zap.String("room", w.CurrentMap().Name),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
		zap.Stringer("state", w.PlayerState()),
		zap.Int("transitions", components.Player.Get(w.Player()).Transitions))
	return nil
}

func loadMaps(dir string, opts []tilemap.Option) (map[string]*tilemap.Map, []string, error) {
	if dir == "" {
		return assets.NewMapLoader(opts...).LoadMaps()
	}
	return tilemap.LoadDir(os.DirFS(dir), ".", opts...)
}

// runFast simulates n ticks without waiting between them.
func runFast(ctx context.Context, w *world.World, n int, logger *zap.Logger) {
	for range n {
		if ctx.Err() != nil {
			return
		}
		tick(w, logger)
	}
}

// runRealtime ticks at the configured rate until ctx is done or, when n is
// positive, n ticks have run.
func runRealtime(ctx context.Context, w *world.World, n int, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("simulation running", zap.Duration("tick", every))
	for n <= 0 || w.Ticks() < n {
		select {
		case <-ctx.Done():
			logger.Info("simulation interrupted")
			return
		case <-ticker.C:
			tick(w, logger)
		}
	}
}

func tick(w *world.World, logger *zap.Logger) {
	if err := w.Tick(); err != nil {
		logger.Warn("room transition failed", zap.Error(err))
	}
}
