package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"flightreport/internal/app"
	"flightreport/internal/config"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	// Every line of one invocation carries the same run id
	logger := slog.New(handler).With("run_id", uuid.NewString())
	slog.SetDefault(logger)
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	date := flag.String("date", "", "Report on this day (YYYY-MM-DD) instead of yesterday")
	noMail := flag.Bool("no-mail", false, "Write the reports but do not mail them")
	importRoutes := flag.String("import-routes", "", "Comma-separated flight,route CSV files to load into the route database, then exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger isn't configured yet
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var a *app.App
	if *importRoutes != "" {
		a, err = app.NewRouteImport(cfg, splitPaths(*importRoutes))
	} else {
		var day time.Time
		day, err = app.ReportDay(cfg, *date, time.Now())
		if err == nil {
			a, err = app.NewReport(cfg, app.Options{Day: day, NoMail: *noMail})
		}
	}
	if err != nil {
		slog.Error("Failed to start", "error", err)
		os.Exit(1)
	}

	runErr := a.Run(ctx)
	if err := a.Close(); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
	if runErr != nil {
		slog.Error("Run failed", "error", runErr)
		os.Exit(1)
	}

	slog.Info("Done", "artifacts", a.Artifacts())
}

func splitPaths(list string) []string {
	var paths []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
