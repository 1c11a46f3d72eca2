package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/daehan-lim/weathervault"
	"github.com/daehan-lim/weathervault/config"
	"github.com/daehan-lim/weathervault/storage"
	"github.com/daehan-lim/weathervault/telemetry"
)

func main() {
	envFile := flag.StringP("env-file", "e", ".env", "Environment file to load before reading configuration")
	local := flag.StringP("local", "l", "", "Archive snapshots under this directory instead of S3")
	baseTime := flag.StringP("base-time", "t", "", "Override the forecast base time (HHMM)")
	flag.Parse()

	logger := telemetry.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := godotenv.Load(*envFile); err != nil {
		logger.Debug("no env file loaded", "path", *envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", err)
		os.Exit(1)
	}
	if *baseTime != "" {
		cfg.BaseTime = *baseTime
	}

	ctx := context.Background()

	var store storage.System
	if *local != "" {
		store = storage.NewDiskStorage(*local)
	} else {
		client, err := storage.NewS3Client(ctx, cfg.AccessKeyID, cfg.SecretAccessKey, cfg.Region)
		if err != nil {
			logger.Error("storage client error", err)
			os.Exit(1)
		}
		store = storage.NewS3Storage(client, cfg.Bucket)
	}

	result := weathervault.NewApp(cfg, store, logger, telemetry.NOPMetrics{}).Run(ctx)

	fmt.Println(result.Body)
	if result.StatusCode != 200 {
		os.Exit(1)
	}
}
