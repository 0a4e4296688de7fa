package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"flightreport/internal/config"
	"flightreport/internal/database"
	"flightreport/internal/mailer"
	"flightreport/internal/render"
	"flightreport/internal/report"
	"flightreport/internal/scheduler"
	"flightreport/internal/tasks"
)

// App is one configured batch run
type App struct {
	scheduler *scheduler.Scheduler
	databases []*database.DB
	artifacts *tasks.Artifacts
}

// Options are the per-invocation switches layered over the configuration
type Options struct {
	Day    time.Time // report day, midnight in the report location
	NoMail bool
}

// ReportDay picks the day to report on: date when given as YYYY-MM-DD,
// otherwise the day before now. Both are taken in the configured location.
func ReportDay(cfg *config.Config, date string, now time.Time) (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load timezone: %w", err)
	}

	if date == "" {
		return report.ReferenceDay(now.In(loc)), nil
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid report date %q (want YYYY-MM-DD): %w", date, err)
	}
	return day, nil
}

// NewReport wires the report run: one task per configured variant, then
// mail when enabled
func NewReport(cfg *config.Config, opts Options) (*App, error) {
	variants, err := cfg.Variants()
	if err != nil {
		return nil, err
	}

	renderers := make([]render.Renderer, 0, len(cfg.Formats))
	for _, format := range cfg.Formats {
		r, err := render.New(format)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, r)
	}

	baseStation, err := database.NewReadOnly(cfg.BaseStationPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open BaseStation database: %w", err)
	}

	routes, err := database.NewReadOnly(cfg.RouteDBPath)
	if err != nil {
		baseStation.Close()
		return nil, fmt.Errorf("failed to open route database: %w", err)
	}

	openSession := func(ctx context.Context) (tasks.RouteSession, error) {
		session, err := routes.Routes().OpenSession(ctx)
		if err != nil {
			return nil, err
		}
		return session, nil
	}

	a := &App{
		scheduler: scheduler.New(),
		databases: []*database.DB{baseStation, routes},
		artifacts: &tasks.Artifacts{},
	}

	for _, variant := range variants {
		a.scheduler.AddTask(tasks.NewReportTask(
			variant,
			opts.Day,
			baseStation.Observations(),
			openSession,
			renderers,
			cfg.OutputDir,
			a.artifacts,
		))
	}

	if cfg.Mail.Enabled && !opts.NoMail {
		sender := mailer.NewSMTPSender(cfg.Mail.Server, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
		a.scheduler.AddTask(tasks.NewMailTask(sender, cfg.Mail.Sender, cfg.Mail.Recipients, opts.Day, a.artifacts))
	}

	slog.Info("Report run configured",
		"day", opts.Day.Format("2006-01-02"),
		"tasks", a.scheduler.Tasks(),
		"formats", cfg.Formats,
	)

	return a, nil
}

// NewRouteImport wires a run that only loads route CSV files into the
// route database
func NewRouteImport(cfg *config.Config, csvPaths []string) (*App, error) {
	routes, err := database.New(cfg.RouteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open route database: %w", err)
	}

	a := &App{
		scheduler: scheduler.New(),
		databases: []*database.DB{routes},
		artifacts: &tasks.Artifacts{},
	}
	a.scheduler.AddTask(tasks.NewRouteImportTask(routes, csvPaths, cfg.BatchSize))

	return a, nil
}

// Run executes the configured tasks in order
func (a *App) Run(ctx context.Context) error {
	return a.scheduler.Run(ctx)
}

// Artifacts returns the files written so far
func (a *App) Artifacts() []string {
	return a.artifacts.Paths()
}

// Close releases the databases
func (a *App) Close() error {
	var firstErr error
	for _, db := range a.databases {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
