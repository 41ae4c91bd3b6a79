// Command i94cli runs the full traffic-volume analysis pass over one
// input file and writes charts, tables and a run manifest to the output
// directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"i94cli/internal/config"
	"i94cli/internal/infrastructure"
	"i94cli/internal/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file (optional, I94_* env vars override)")
		dataPath   = flag.String("data", "", "input CSV file, overrides the configured path")
		outDir     = flag.String("out", "", "output directory, overrides the configured path")
	)
	flag.Parse()

	if err := run(*configPath, *dataPath, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "i94cli: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dataPath, outDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataPath != "" {
		cfg.Input.Path = dataPath
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogger()

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	providers, err := infrastructure.InitializeTracing(filepath.Join(cfg.Output.Dir, cfg.Output.TraceFile))
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Error("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	ctx := context.Background()
	started := time.Now()

	logger.InfoContext(ctx, "starting analysis run",
		slog.String("input", cfg.Input.Path),
		slog.String("output", cfg.Output.Dir))

	manifest, err := pipeline.New(cfg, logger, providers.Tracer).Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "analysis run failed", slog.String("error", err.Error()))
		return err
	}

	logger.InfoContext(ctx, "analysis run complete",
		slog.String("run_id", manifest.RunID),
		slog.Int("rows_loaded", manifest.RowsLoaded),
		slog.Int("rows_cleaned", manifest.RowsCleaned),
		slog.Int("artifacts", len(manifest.Artifacts)),
		slog.Int("skipped_tests", len(manifest.SkippedTests)),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}
