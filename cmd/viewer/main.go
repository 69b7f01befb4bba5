// cmd/viewer/main.go
package main

import (
	"context"
	"flag"
	"os"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-physbox/pkg/config"
	"github.com/opd-ai/go-physbox/pkg/logging"
	engorender "github.com/opd-ai/go-physbox/pkg/render/engo"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	sceneName := flag.String("scene", "", "Scene to show (overrides config)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode")
	width := flag.Int("width", 0, "Window width (overrides config)")
	height := flag.Int("height", 0, "Window height (overrides config)")
	flag.Parse()

	ctx := logging.WithRunID(context.Background(), "")
	logger := logging.NewLogger()

	var cfg *config.SandboxConfig
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration", "config_path", *configPath)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
			os.Exit(1)
		}
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	if *sceneName != "" {
		cfg.Simulation.Scene = *sceneName
	}
	if *width > 0 {
		cfg.Render.Width = *width
	}
	if *height > 0 {
		cfg.Render.Height = *height
	}
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", err)
		os.Exit(1)
	}

	sandbox, err := engorender.NewSandboxScene(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to build scene", err, "scene", cfg.Simulation.Scene)
		os.Exit(1)
	}

	opts := engo.RunOptions{
		Title:      "go-physbox: " + cfg.Simulation.Scene,
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Fullscreen: *fullscreen,
		VSync:      true,
	}
	engo.Run(opts, sandbox)
}
