package main

import (
	"flag"
	"log"
	"runtime"

	"landscape/internal/logger"
	"landscape/pkg/config"
	"landscape/pkg/engine"
	"landscape/pkg/render"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults when empty)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logger.Close()
	logger.Info("Starting landscape viewer...")

	gen, err := engine.NewEngine(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize terrain engine: %v", err)
	}

	viewer, err := render.NewViewer(cfg, gen, logger)
	if err != nil {
		log.Fatalf("Failed to open viewer: %v", err)
	}
	if err := viewer.Run(); err != nil {
		log.Fatalf("Viewer stopped: %v", err)
	}
}

func newLogger(cfg config.LoggingConfig) (*logger.Logger, error) {
	if cfg.File != "" {
		return logger.NewMultiLogger(cfg.Level, cfg.File)
	}
	return logger.NewLogger(cfg.Level), nil
}
