package main

import (
	"flag"
	"log"

	"landscape/internal/logger"
	"landscape/pkg/config"
	"landscape/pkg/engine"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults when empty)")
	dumpConfig := flag.String("dump-config", "", "Write the default configuration to this path and exit")
	skipErosion := flag.Bool("no-erosion", false, "Skip the erosion passes")
	flag.Parse()

	if *dumpConfig != "" {
		if err := config.SaveConfig(config.DefaultConfig(), *dumpConfig); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		return
	}

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

	gen, err := engine.NewEngine(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize terrain engine: %v", err)
	}
	if err := gen.Generate(); err != nil {
		log.Fatalf("Failed to generate terrain: %v", err)
	}
	if !*skipErosion {
		if err := gen.Erode(); err != nil {
			log.Fatalf("Failed to erode terrain: %v", err)
		}
	}

	s := gen.Summary()
	logger.Infof("%d chunks, %d vertices, %d triangles, heights [%.3f, %.3f]",
		s.Chunks, s.Vertices, s.Triangles, s.MinHeight, s.MaxHeight)
}

func newLogger(cfg config.LoggingConfig) (*logger.Logger, error) {
	if cfg.File != "" {
		return logger.NewMultiLogger(cfg.Level, cfg.File)
	}
	return logger.NewLogger(cfg.Level), nil
}
