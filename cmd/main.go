package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/alurastore/internal/adapters/chart"
	"github.com/okian/alurastore/internal/adapters/export"
	"github.com/okian/alurastore/internal/adapters/source"
	app "github.com/okian/alurastore/internal/app"
	"github.com/okian/alurastore/internal/config"
	"github.com/okian/alurastore/pkg/logger"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

// run executes one pipeline run and returns the process exit code.
// Console text goes to stdout; logs and the final error go to stderr.
func run(stdout, stderr io.Writer) int {
	// Initialize logging
	if err := logger.InitWithWriter(stderr); err != nil {
		fmt.Fprintf(stderr, "error: failed to initialize logging: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	// Validation already rejected unknown levels.
	_ = logger.SetLevelString(cfg.LogLevel)

	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithLoader(source.NewLoader(
			source.WithTimeout(cfg.FetchTimeout),
			source.WithLogger(loggerInstance.Named("source")),
		)),
		app.WithRenderer(chart.NewRenderer(
			chart.WithOutputDir(cfg.OutputDir),
			chart.WithLogger(loggerInstance.Named("chart")),
		)),
		app.WithExporter(export.NewWorkbook(export.WithLogger(loggerInstance.Named("export")))),
		app.WithSources(cfg.SalesSources()),
		app.WithTopN(cfg.TopN),
		app.WithExportPath(cfg.ExportPath),
		app.WithMetricsPath(cfg.MetricsPath),
		app.WithOutput(stdout),
	)

	if err := svc.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
