package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// RouteStore is the writable route reference table
type RouteStore interface {
	MigrateRoutes(ctx context.Context) error
	LoadRoutes(csvPaths []string, batchSize int) (int, error)
}

// RouteImportTask brings the FlightRoute schema up to date and loads
// flight,route CSV files into it in batches
type RouteImportTask struct {
	store     RouteStore
	csvPaths  []string
	batchSize int
}

func NewRouteImportTask(store RouteStore, csvPaths []string, batchSize int) *RouteImportTask {
	return &RouteImportTask{
		store:     store,
		csvPaths:  csvPaths,
		batchSize: batchSize,
	}
}

func (t *RouteImportTask) Name() string {
	return "import-routes"
}

func (t *RouteImportTask) Run(ctx context.Context) error {
	if len(t.csvPaths) == 0 {
		return fmt.Errorf("no route CSV files given")
	}

	if err := t.store.MigrateRoutes(ctx); err != nil {
		return fmt.Errorf("failed to migrate route table: %w", err)
	}

	loaded, err := t.store.LoadRoutes(t.csvPaths, t.batchSize)
	if err != nil {
		return fmt.Errorf("failed to load routes: %w", err)
	}

	slog.Info("Imported routes", "csv_paths", t.csvPaths, "routes", loaded)
	return nil
}
