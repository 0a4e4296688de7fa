package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flightreport/internal/mailer"
	"flightreport/internal/models"
	"flightreport/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSource is a simple mock implementation of report.ObservationSource
type mockSource struct {
	observations []*models.RawObservation
	err          error
	selections   []models.Selection
}

func (m *mockSource) Find(ctx context.Context, sel models.Selection) ([]*models.RawObservation, error) {
	m.selections = append(m.selections, sel)
	return m.observations, m.err
}

type mockSession struct {
	routes map[string]string
	closed bool
}

func (m *mockSession) Resolve(ctx context.Context, callsign string) (string, error) {
	if route, ok := m.routes[callsign]; ok {
		return route, nil
	}
	return models.RoutePlaceholder, nil
}

func (m *mockSession) Close() error {
	m.closed = true
	return nil
}

type mockRenderer struct {
	ext  string
	err  error
	docs []render.Document
}

func (m *mockRenderer) Extension() string {
	return m.ext
}

func (m *mockRenderer) Render(w io.Writer, doc render.Document) error {
	m.docs = append(m.docs, doc)
	if m.err != nil {
		return m.err
	}
	_, err := fmt.Fprintf(w, "%s|%d", doc.Title, len(doc.Table.Body))
	return err
}

type mockSender struct {
	deliveries []mailer.Delivery
	err        error
}

func (m *mockSender) Send(ctx context.Context, d mailer.Delivery) error {
	m.deliveries = append(m.deliveries, d)
	return m.err
}

type mockRouteStore struct {
	migrated   bool
	migrateErr error
	loadedFrom []string
	batchSize  int
}

func (m *mockRouteStore) MigrateRoutes(ctx context.Context) error {
	m.migrated = true
	return m.migrateErr
}

func (m *mockRouteStore) LoadRoutes(csvPaths []string, batchSize int) (int, error) {
	m.loadedFrom = csvPaths
	m.batchSize = batchSize
	return 42, nil
}

var reportDay = time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)

func observation(callsign string) *models.RawObservation {
	return &models.RawObservation{
		StartTime:    "2024-04-30 09:15:00.000",
		EndTime:      "2024-04-30 09:45:00.000",
		ModeS:        "A1B2C3",
		Registration: "N12345",
		Callsign:     callsign,
		MessageSlots: []any{int64(3)},
	}
}

func opener(session *mockSession) SessionOpener {
	return func(ctx context.Context) (RouteSession, error) {
		return session, nil
	}
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "allFlightsReport.pdf", ArtifactName(models.VariantAll, "pdf"))
	assert.Equal(t, "chkFlightsReport.xlsx", ArtifactName(models.VariantUnregistered, "xlsx"))
}

func TestReportTask_Run(t *testing.T) {
	dir := t.TempDir()
	source := &mockSource{observations: []*models.RawObservation{observation("SWA3848"), observation("UAL1")}}
	session := &mockSession{routes: map[string]string{"SWA3848": "KMCI-KDEN"}}
	pdf := &mockRenderer{ext: "pdf"}
	xlsx := &mockRenderer{ext: "xlsx"}
	artifacts := &Artifacts{}

	task := NewReportTask(models.VariantInterest, reportDay, source, opener(session),
		[]render.Renderer{pdf, xlsx}, dir, artifacts)
	assert.Equal(t, "report:poi", task.Name())

	require.NoError(t, task.Run(context.Background()))

	assert.True(t, session.closed)
	require.Len(t, source.selections, 1)
	require.Len(t, source.selections[0].AllOf, 1)
	assert.Equal(t, models.ColumnInterested, source.selections[0].AllOf[0].Column)

	wantPDF := filepath.Join(dir, "poiFlightsReport.pdf")
	wantXLSX := filepath.Join(dir, "poiFlightsReport.xlsx")
	assert.Equal(t, []string{wantPDF, wantXLSX}, artifacts.Paths())

	body, err := os.ReadFile(wantPDF)
	require.NoError(t, err)
	assert.Equal(t, "poi Flights seen on:  Tuesday  April 30, 2024 UTC|4", string(body))

	require.Len(t, pdf.docs, 1)
	assert.Equal(t, "KMCI-KDEN", pdf.docs[0].Table.Body[1][2])
	assert.Equal(t, models.RoutePlaceholder, pdf.docs[0].Table.Body[3][2])
}

func TestReportTask_NoObservations(t *testing.T) {
	pdf := &mockRenderer{ext: "pdf"}
	artifacts := &Artifacts{}

	task := NewReportTask(models.VariantAll, reportDay, &mockSource{}, opener(&mockSession{}),
		[]render.Renderer{pdf}, t.TempDir(), artifacts)
	require.NoError(t, task.Run(context.Background()))

	require.Len(t, pdf.docs, 1)
	assert.Empty(t, pdf.docs[0].Table.Body)
	assert.Len(t, pdf.docs[0].Table.Header, models.HeaderRowCount)
	assert.Len(t, artifacts.Paths(), 1)
}

func TestReportTask_SelectFailureClosesSession(t *testing.T) {
	storageErr := &models.StorageError{Op: "query observations", Err: errors.New("no such table: Flights")}
	session := &mockSession{}
	pdf := &mockRenderer{ext: "pdf"}

	task := NewReportTask(models.VariantAll, reportDay, &mockSource{err: storageErr}, opener(session),
		[]render.Renderer{pdf}, t.TempDir(), &Artifacts{})

	err := task.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.True(t, session.closed)
	assert.Empty(t, pdf.docs)
}

func TestReportTask_OpenSessionFailure(t *testing.T) {
	failing := func(ctx context.Context) (RouteSession, error) {
		return nil, &models.StorageError{Op: "open route session", Err: errors.New("locked")}
	}
	source := &mockSource{}

	task := NewReportTask(models.VariantAll, reportDay, source, failing, nil, t.TempDir(), &Artifacts{})

	err := task.Run(context.Background())
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.Empty(t, source.selections)
}

func TestReportTask_RenderFailure(t *testing.T) {
	renderErr := errors.New("disk full")
	dir := t.TempDir()
	artifacts := &Artifacts{}

	task := NewReportTask(models.VariantAll, reportDay, &mockSource{}, opener(&mockSession{}),
		[]render.Renderer{&mockRenderer{ext: "pdf", err: renderErr}}, dir, artifacts)

	err := task.Run(context.Background())
	assert.ErrorIs(t, err, renderErr)
	assert.Empty(t, artifacts.Paths())

	_, err = os.Stat(filepath.Join(dir, "allFlightsReport.pdf"))
	assert.True(t, os.IsNotExist(err), "no partial report may be left behind")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files must be cleaned up")
}

func TestReportTask_RenderFailureKeepsPreviousReport(t *testing.T) {
	dir := t.TempDir()
	previous := filepath.Join(dir, "allFlightsReport.pdf")
	require.NoError(t, os.WriteFile(previous, []byte("yesterday"), 0o644))

	task := NewReportTask(models.VariantAll, reportDay, &mockSource{}, opener(&mockSession{}),
		[]render.Renderer{&mockRenderer{ext: "pdf", err: errors.New("disk full")}}, dir, &Artifacts{})
	require.Error(t, task.Run(context.Background()))

	body, err := os.ReadFile(previous)
	require.NoError(t, err)
	assert.Equal(t, "yesterday", string(body))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReportTask_ReplacesPreviousReport(t *testing.T) {
	dir := t.TempDir()
	previous := filepath.Join(dir, "allFlightsReport.pdf")
	require.NoError(t, os.WriteFile(previous, []byte("yesterday"), 0o644))

	task := NewReportTask(models.VariantAll, reportDay, &mockSource{}, opener(&mockSession{}),
		[]render.Renderer{&mockRenderer{ext: "pdf"}}, dir, &Artifacts{})
	require.NoError(t, task.Run(context.Background()))

	body, err := os.ReadFile(previous)
	require.NoError(t, err)
	assert.Equal(t, "all Flights seen on:  Tuesday  April 30, 2024 UTC|0", string(body))
}

func TestReportTask_MissingOutputDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does", "not", "exist")

	task := NewReportTask(models.VariantAll, reportDay, &mockSource{}, opener(&mockSession{}),
		[]render.Renderer{&mockRenderer{ext: "pdf"}}, missing, &Artifacts{})

	assert.Error(t, task.Run(context.Background()))
}

func TestMailTask_Run(t *testing.T) {
	artifacts := &Artifacts{}
	artifacts.Add("/reports/allFlightsReport.pdf")
	artifacts.Add("/reports/poiFlightsReport.pdf")
	sender := &mockSender{}

	task := NewMailTask(sender, "reports@example.com", []string{"ops@example.com"}, reportDay, artifacts)
	assert.Equal(t, "mail", task.Name())
	require.NoError(t, task.Run(context.Background()))

	require.Len(t, sender.deliveries, 1)
	d := sender.deliveries[0]
	assert.Equal(t, "reports@example.com", d.Sender)
	assert.Equal(t, []string{"ops@example.com"}, d.Recipients)
	assert.Equal(t, "Flight Report for Tuesday  April 30, 2024 UTC", d.Subject)
	assert.Equal(t, []string{"/reports/allFlightsReport.pdf", "/reports/poiFlightsReport.pdf"}, d.Attachments)
}

func TestMailTask_NoArtifacts(t *testing.T) {
	sender := &mockSender{}
	task := NewMailTask(sender, "reports@example.com", []string{"ops@example.com"}, reportDay, &Artifacts{})

	require.NoError(t, task.Run(context.Background()))
	assert.Empty(t, sender.deliveries)
}

func TestMailTask_SendFailure(t *testing.T) {
	artifacts := &Artifacts{}
	artifacts.Add("/reports/allFlightsReport.pdf")
	sendErr := errors.New("connection refused")

	task := NewMailTask(&mockSender{err: sendErr}, "reports@example.com", []string{"ops@example.com"}, reportDay, artifacts)
	assert.ErrorIs(t, task.Run(context.Background()), sendErr)
}

func TestRouteImportTask_Run(t *testing.T) {
	store := &mockRouteStore{}
	task := NewRouteImportTask(store, []string{"a.csv", "b.csv"}, 5000)
	assert.Equal(t, "import-routes", task.Name())

	require.NoError(t, task.Run(context.Background()))
	assert.True(t, store.migrated)
	assert.Equal(t, []string{"a.csv", "b.csv"}, store.loadedFrom)
	assert.Equal(t, 5000, store.batchSize)
}

func TestRouteImportTask_MigrateFailure(t *testing.T) {
	store := &mockRouteStore{migrateErr: errors.New("read-only")}
	task := NewRouteImportTask(store, []string{"a.csv"}, 100)

	assert.Error(t, task.Run(context.Background()))
	assert.Nil(t, store.loadedFrom)
}

func TestRouteImportTask_NoFiles(t *testing.T) {
	store := &mockRouteStore{}
	assert.Error(t, NewRouteImportTask(store, nil, 100).Run(context.Background()))
	assert.False(t, store.migrated)
}
