package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"flightreport/internal/models"
	"flightreport/internal/render"
	"flightreport/internal/report"
)

// RouteSession resolves callsigns for one report and must be closed after it
type RouteSession interface {
	report.RouteResolver
	Close() error
}

// SessionOpener opens a route session
type SessionOpener func(ctx context.Context) (RouteSession, error)

// Artifacts collects the files written during a run
type Artifacts struct {
	paths []string
}

func (a *Artifacts) Add(path string) {
	a.paths = append(a.paths, path)
}

// Paths returns the artifact paths in the order they were written
func (a *Artifacts) Paths() []string {
	return append([]string(nil), a.paths...)
}

// ArtifactName is the file name of a rendered report, e.g. "poiFlightsReport.pdf"
func ArtifactName(variant models.ReportVariant, extension string) string {
	return fmt.Sprintf("%sFlightsReport.%s", variant, extension)
}

// ReportTask compiles and renders one report variant
type ReportTask struct {
	variant     models.ReportVariant
	day         time.Time
	source      report.ObservationSource
	openSession SessionOpener
	renderers   []render.Renderer
	outputDir   string
	artifacts   *Artifacts
}

func NewReportTask(
	variant models.ReportVariant,
	day time.Time,
	source report.ObservationSource,
	openSession SessionOpener,
	renderers []render.Renderer,
	outputDir string,
	artifacts *Artifacts,
) *ReportTask {
	return &ReportTask{
		variant:     variant,
		day:         day,
		source:      source,
		openSession: openSession,
		renderers:   renderers,
		outputDir:   outputDir,
		artifacts:   artifacts,
	}
}

func (t *ReportTask) Name() string {
	return "report:" + t.variant.String()
}

// Run selects, compiles and renders the variant. The route session lives
// exactly as long as this call.
func (t *ReportTask) Run(ctx context.Context) error {
	session, err := t.openSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to open route session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Error("Error closing route session", "variant", t.variant, "error", err)
		}
	}()

	observations, err := report.NewSelector(t.source).Select(ctx, t.variant, t.day)
	if err != nil {
		return fmt.Errorf("failed to select observations: %w", err)
	}

	table, err := report.NewCompiler(session).Compile(ctx, observations, t.variant)
	if err != nil {
		return fmt.Errorf("failed to compile report: %w", err)
	}

	doc := render.Document{
		Title: report.Title(t.variant, t.day),
		Table: table,
	}

	for _, r := range t.renderers {
		path := filepath.Join(t.outputDir, ArtifactName(t.variant, r.Extension()))
		if err := writeArtifact(path, r, doc); err != nil {
			return err
		}
		t.artifacts.Add(path)

		slog.Info("Wrote report",
			"variant", t.variant,
			"observations", len(observations),
			"artifact", path,
		)
	}

	return nil
}

// writeArtifact renders into a temporary file next to path and renames it
// into place, so a failed render leaves any earlier report untouched
func writeArtifact(path string, r render.Renderer, doc render.Document) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmp := f.Name()

	if err := r.Render(f, doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to render %s: %w", path, err)
	}

	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
