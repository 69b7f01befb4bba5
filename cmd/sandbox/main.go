// cmd/sandbox/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-physbox/pkg/audio"
	"github.com/opd-ai/go-physbox/pkg/config"
	"github.com/opd-ai/go-physbox/pkg/engine"
	"github.com/opd-ai/go-physbox/pkg/health"
	"github.com/opd-ai/go-physbox/pkg/logging"
	"github.com/opd-ai/go-physbox/pkg/scene"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the body of main; it returns the exit code so deferred cleanup
// runs before the process exits
func run(args []string) int {
	flags := flag.NewFlagSet("sandbox", flag.ContinueOnError)
	configPath := flags.String("config", "config.json", "Path to configuration file")
	createDefault := flags.Bool("default", false, "Create default configuration file")
	sceneName := flags.String("scene", "", "Scene to run (overrides config)")
	steps := flags.Int("steps", 0, "Number of steps to run headless (overrides config)")
	interactive := flags.Bool("terminal", false, "Run interactively in the terminal")
	logPath := flags.String("log", "", "Log file for terminal mode (default: discard)")
	snapshotPath := flags.String("snapshot", "", "Write the final world snapshot as JSON")
	restorePath := flags.String("restore", "", "Continue from a snapshot written by -snapshot instead of a scene")
	healthAddr := flags.String("health", "", "Serve /health and /ready on this address during headless runs")
	energyLimit := flags.Float64("energy-limit", 1e9, "Kinetic energy above which /ready reports unhealthy")
	maxMemory := flags.Uint64("max-memory", 512, "Heap in use (MB) above which /health reports unhealthy, 0 disables")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	ctx, stop := signal.NotifyContext(logging.WithRunID(context.Background(), ""), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger := logging.NewLogger()

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", *configPath)
			return 1
		}
		logger.Info(ctx, "Created default configuration file", "config_path", *configPath)
		return 0
	}

	// the terminal owns stdout in interactive mode
	if *interactive {
		var w io.Writer = io.Discard
		if *logPath != "" {
			f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				logger.Error(ctx, "Failed to open log file", err, "log_path", *logPath)
				return 1
			}
			defer f.Close()
			w = f
		}
		logger = logging.NewLoggerWithWriter(w, logging.ParseLevel(os.Getenv("PHYSBOX_LOG_LEVEL")))
	}

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		return 1
	}
	if *sceneName != "" {
		cfg.Simulation.Scene = *sceneName
	}
	if *steps > 0 {
		cfg.Simulation.Steps = *steps
	}
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", err)
		return 1
	}

	world, demo, err := buildWorld(ctx, logger, cfg, *restorePath)
	if err != nil {
		logger.Error(ctx, "Failed to build world", err, "scene", cfg.Simulation.Scene, "restore", *restorePath, "available", scene.Names())
		return 1
	}

	son := setupAudio(ctx, logger, cfg)
	if son != nil {
		defer speaker.Close()
	}

	if *interactive {
		if err := runTerminal(ctx, cfg, world, demo, son, logger); err != nil {
			logger.Error(ctx, "Terminal session failed", err)
			return 1
		}
	} else {
		var observers []stepObserver
		if son != nil {
			observers = append(observers, func(w *engine.World) { son.Observe(w.Impulses()) })
		}
		if *healthAddr != "" {
			sampler := health.NewSampler()
			observers = append(observers, sampler.Record)
			srv := startHealthServer(ctx, logger, *healthAddr, sampler, *energyLimit, *maxMemory)
			defer srv.Close()
		}

		sum, err := runHeadless(ctx, world, cfg.Simulation.Steps, cfg.Simulation.TimeStep, logger, observers...)
		if err != nil {
			logger.Error(ctx, "Simulation failed", err, "step", world.Step())
			return 1
		}
		logger.Info(ctx, "Simulation finished",
			"scene", demo.Name,
			"steps", sum.Steps,
			"collisions", sum.Collisions,
			"kinetic_energy", sum.KineticEnergy,
		)
	}

	if *snapshotPath != "" {
		if err := writeSnapshot(world, *snapshotPath); err != nil {
			logger.Error(ctx, "Failed to write snapshot", err, "path", *snapshotPath)
			return 1
		}
		logger.Info(ctx, "Snapshot written", "path", *snapshotPath)
	}
	return 0
}

// loadConfig reads the configuration file, falling back to defaults when
// it does not exist, then applies environment overrides
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.SandboxConfig, error) {
	var cfg *config.SandboxConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration", "config_path", path)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildWorld loads the configured scene, or the snapshot at restorePath
// when one is given. Resetting a restored world reloads the snapshot.
func buildWorld(ctx context.Context, logger *logging.Logger, cfg *config.SandboxConfig, restorePath string) (*engine.World, scene.Scene, error) {
	if restorePath == "" {
		world := engine.NewWorld(
			engine.WithPhysicsConfig(cfg.Physics),
			engine.WithLogger(logger),
			engine.WithContext(ctx),
		)
		demo, err := scene.Load(cfg.Simulation.Scene, world)
		return world, demo, err
	}

	snap, err := readSnapshot(restorePath)
	if err != nil {
		return nil, scene.Scene{}, err
	}
	world, err := engine.Restore(snap, engine.WithLogger(logger), engine.WithContext(ctx))
	if err != nil {
		return nil, scene.Scene{}, logging.WrapError(err, "restoring %s", restorePath)
	}
	demo := scene.Scene{
		Name:        "snapshot",
		Description: restorePath,
		Build:       func(w *engine.World) error { return w.Load(snap) },
	}
	logger.Info(ctx, "Restored snapshot", "path", restorePath, "step", world.Step(), "bodies", world.BodyCount())
	return world, demo, nil
}

// setupAudio starts the speaker when audio is enabled. Failure is not
// fatal; the sandbox runs silent.
func setupAudio(ctx context.Context, logger *logging.Logger, cfg *config.SandboxConfig) *audio.Sonifier {
	if !cfg.Audio.Enabled {
		return nil
	}
	rate := beep.SampleRate(cfg.Audio.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		logger.Warn(ctx, "Audio initialization failed, continuing without sound", "error", err.Error())
		return nil
	}
	son := audio.NewSonifier(rate, cfg.Physics.ImpulseLifetime, logger)
	speaker.Play(son.Streamer())
	return son
}

// startHealthServer serves liveness and readiness endpoints backed by sampler.
// A diverged world or a runaway heap fails liveness; energy and stalls
// only fail readiness.
func startHealthServer(ctx context.Context, logger *logging.Logger, addr string, sampler *health.Sampler, energyLimit float64, maxMemoryMB uint64) *http.Server {
	checker := health.NewChecker(5 * time.Second)
	checker.AddCriticalCheck(health.NewStabilityHealthCheck(sampler))
	checker.AddCriticalCheck(health.NewMemoryHealthCheck(maxMemoryMB, health.HeapInUse))
	checker.AddCheck(health.NewEnergyHealthCheck(sampler, energyLimit))
	checker.AddCheck(health.NewProgressHealthCheck(sampler, 5*time.Second))

	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.LivenessHandler)
	mux.HandleFunc("/ready", checker.ReadinessHandler)

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "Starting health check server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()
	return srv
}

// runTerminal runs the interactive tcell front end until the user quits
func runTerminal(ctx context.Context, cfg *config.SandboxConfig, world *engine.World, demo scene.Scene, son *audio.Sonifier, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	app := newTerminalApp(screen, cfg, world, demo, son, logger)
	app.run(ctx)
	return nil
}
