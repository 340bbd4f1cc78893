// Command matchcore runs the match lifecycle coordinator service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/duelcore/matchcore/internal/config"
	"github.com/duelcore/matchcore/internal/server"
	"github.com/duelcore/matchcore/pkg/logging"
)

func main() {
	configPath := flag.String("config-path", "configs", "Directory containing the configuration file")
	configName := flag.String("config-name", "matchcore", "Configuration file base name, without extension")
	flag.Parse()

	cfg, err := config.Load(*configPath, *configName)
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Initialize(cfg.Log); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Get()

	srv := server.New(cfg)
	if err := srv.Initialize(context.Background()); err != nil {
		logger.Fatal("failed to initialize server", logging.Error(err))
	}

	if err := srv.Start(); err != nil {
		logger.Fatal("server error", logging.Error(err))
	}
}
