package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"app/ai"
	"app/analytics"
	"app/models"
	"app/utils"
)

// --- fakes ---

type fakeSnapshotter struct {
	snapshot *models.AggregatedSnapshot
	err      error
}

func (f *fakeSnapshotter) Aggregate(ctx context.Context, dateRange string, attractionID *int64) (*models.AggregatedSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type fakeReasoner struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeReasoner) Query(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeStore struct {
	reports   map[string]*models.Report
	failCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{reports: map[string]*models.Report{}}
}

func (f *fakeStore) Create(ctx context.Context, userID string, req models.ReportRequest) (*models.Report, error) {
	rep := &models.Report{
		ID:     "rep-1",
		UserID: userID,
		Kind:   req.Kind,
		Title:  req.Title,
		Status: models.StatusPending,
	}
	f.reports[rep.ID] = rep
	return rep, nil
}

func (f *fakeStore) MarkProcessing(ctx context.Context, id string) error {
	rep, ok := f.reports[id]
	if !ok || rep.Status != models.StatusPending {
		return ErrStatusConflict
	}
	rep.Status = models.StatusProcessing
	return nil
}

func (f *fakeStore) Complete(ctx context.Context, id string, payload *models.ReportPayload) (*models.Report, error) {
	rep, ok := f.reports[id]
	if !ok || rep.Status != models.StatusProcessing {
		return nil, ErrStatusConflict
	}
	rep.Status = models.StatusCompleted
	rep.Payload = payload
	return rep, nil
}

func (f *fakeStore) Fail(ctx context.Context, id, message string) error {
	f.failCalls++
	rep, ok := f.reports[id]
	if !ok || rep.Status == models.StatusCompleted || rep.Status == models.StatusFailed {
		return ErrStatusConflict
	}
	rep.Status = models.StatusFailed
	rep.ErrorMessage = &message
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*models.Report, error) {
	rep, ok := f.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rep, nil
}

func (f *fakeStore) List(ctx context.Context, userID string, authority bool, page, pageSize int) ([]models.Report, *utils.Pagination, error) {
	out := []models.Report{}
	for _, rep := range f.reports {
		if authority || rep.UserID == userID {
			out = append(out, *rep)
		}
	}
	return out, utils.CreatePagination(len(out), page, pageSize), nil
}

func (f *fakeStore) RecordDownload(ctx context.Context, id string) error {
	rep, ok := f.reports[id]
	if !ok {
		return ErrNotFound
	}
	rep.DownloadCount++
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id, userID string) error {
	rep, ok := f.reports[id]
	if !ok || rep.UserID != userID {
		return ErrNotFound
	}
	delete(f.reports, id)
	return nil
}

// --- tests ---

func testSnapshot() *models.AggregatedSnapshot {
	return &models.AggregatedSnapshot{
		StartDate:      "2026-08-01",
		EndDate:        "2026-08-31",
		TotalVisits:    2000,
		TotalRevenue:   45000,
		UniqueVisitors: 1500,
		AverageRating:  4.1,
	}
}

func testRequest() models.ReportRequest {
	return models.ReportRequest{
		Kind:           models.KindRevenueReport,
		Title:          "Monthly revenue",
		DateRange:      models.RangeLast30Days,
		ForecastMonths: 3,
	}
}

func newTestService(snaps Snapshotter, reasoner Reasoner, store Store) *Service {
	return NewService(snaps, reasoner, store, zap.NewNop())
}

func TestGenerateRejectsInvalidRequests(t *testing.T) {
	svc := newTestService(&fakeSnapshotter{snapshot: testSnapshot()}, &fakeReasoner{}, newFakeStore())

	tests := []struct {
		name   string
		mutate func(*models.ReportRequest)
	}{
		{"unknown kind", func(r *models.ReportRequest) { r.Kind = "quarterly_vibes" }},
		{"empty title", func(r *models.ReportRequest) { r.Title = "  " }},
		{"empty date range", func(r *models.ReportRequest) { r.DateRange = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest()
			tt.mutate(&req)
			_, err := svc.Generate(context.Background(), "u-1", req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestGenerateUnconfiguredReasonerCompletesSynthetic(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(
		&fakeSnapshotter{snapshot: testSnapshot()},
		&fakeReasoner{err: ai.ErrUnconfigured},
		store,
	)

	rep, err := svc.Generate(context.Background(), "u-1", testRequest())
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, rep.Status)
	require.NotNil(t, rep.Payload)
	assert.Equal(t, models.SourceSynthetic, rep.Payload.Provenance.Source)
	assert.NotEmpty(t, rep.Payload.ExecutiveSummary)
	assert.NotEmpty(t, rep.Payload.KeyFindings)
	assert.Len(t, rep.Payload.VisitorScenarios, 3)
	require.NotNil(t, rep.Payload.Forecast)
	assert.GreaterOrEqual(t, rep.Payload.Forecast.AccuracyScore, 85.0)
	assert.LessOrEqual(t, rep.Payload.Forecast.AccuracyScore, 98.0)
}

func TestGenerateReasonerErrorFallsBack(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(
		&fakeSnapshotter{snapshot: testSnapshot()},
		&fakeReasoner{err: ai.ErrReasoning},
		store,
	)

	rep, err := svc.Generate(context.Background(), "u-1", testRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, rep.Status)
	assert.Equal(t, models.SourceSynthetic, rep.Payload.Provenance.Source)
	assert.Zero(t, store.failCalls)
}

func TestGenerateValidResponseKeepsAIProvenance(t *testing.T) {
	raw := `{"forecastMetrics":{"nextMonthVisitors":2100,"nextMonthRevenue":47000,"quarterlyRevenue":140000,"seasonalIndex":1.05,"accuracyScore":90,"growthRate":5},
        "revenueScenarios":[{"month":"2026-10","optimistic":52000,"realistic":47000,"pessimistic":40000,"confidence":80},{"month":"2026-11","optimistic":50000,"realistic":45000,"pessimistic":38000,"confidence":78},{"month":"2026-12","optimistic":44000,"realistic":39000,"pessimistic":33000,"confidence":76}],
        "visitorScenarios":[{"month":"2026-10","optimistic":2600,"realistic":2100,"pessimistic":1600,"confidence":82},{"month":"2026-11","optimistic":2500,"realistic":2000,"pessimistic":1500,"confidence":80},{"month":"2026-12","optimistic":2200,"realistic":1800,"pessimistic":1300,"confidence":78}],
        "insights":{"keyPredictions":["Steady growth"],"riskFactors":["Weather"],"opportunities":["Bundles"]}}`
	svc := newTestService(
		&fakeSnapshotter{snapshot: testSnapshot()},
		&fakeReasoner{response: raw},
		newFakeStore(),
	)

	rep, err := svc.Generate(context.Background(), "u-1", testRequest())
	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, rep.Payload.Provenance.Source)
	assert.Equal(t, 2100.0, rep.Payload.Forecast.NextMonthVisitors)
	assert.Equal(t, []string{"Steady growth"}, rep.Payload.KeyFindings)
}

func TestGenerateStorageFailureMarksReportFailed(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(
		&fakeSnapshotter{err: analytics.ErrStorageQuery},
		&fakeReasoner{},
		store,
	)

	_, err := svc.Generate(context.Background(), "u-1", testRequest())
	assert.ErrorIs(t, err, analytics.ErrStorageQuery)

	rep := store.reports["rep-1"]
	require.NotNil(t, rep)
	assert.Equal(t, models.StatusFailed, rep.Status)
	require.NotNil(t, rep.ErrorMessage)
	assert.NotEmpty(t, *rep.ErrorMessage)
}

func TestGenerateCancelledContextEndsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore()
	svc := newTestService(
		&fakeSnapshotter{err: context.Canceled},
		&fakeReasoner{},
		store,
	)

	_, err := svc.Generate(ctx, "u-1", testRequest())
	assert.Error(t, err)

	// Never left pending/processing.
	rep := store.reports["rep-1"]
	require.NotNil(t, rep)
	assert.Equal(t, models.StatusFailed, rep.Status)
}

func TestGeneratePromptEmbedsSnapshot(t *testing.T) {
	reasoner := &fakeReasoner{err: ai.ErrReasoning}
	svc := newTestService(&fakeSnapshotter{snapshot: testSnapshot()}, reasoner, newFakeStore())

	_, err := svc.Generate(context.Background(), "u-1", testRequest())
	require.NoError(t, err)

	require.Len(t, reasoner.prompts, 1)
	assert.Contains(t, reasoner.prompts[0], `"totalVisits":2000`)
	assert.Contains(t, reasoner.prompts[0], "revenue_report")
}

func TestGetScopesToOwner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&fakeSnapshotter{snapshot: testSnapshot()}, &fakeReasoner{err: ai.ErrUnconfigured}, store)

	rep, err := svc.Generate(context.Background(), "u-1", testRequest())
	require.NoError(t, err)

	// Owner sees own report.
	got, err := svc.Get(context.Background(), rep.ID, "u-1", false)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)

	// Another owner does not.
	_, err = svc.Get(context.Background(), rep.ID, "u-2", false)
	assert.ErrorIs(t, err, ErrNotFound)

	// An authority does.
	_, err = svc.Get(context.Background(), rep.ID, "u-2", true)
	assert.NoError(t, err)
}

func TestDownload(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&fakeSnapshotter{snapshot: testSnapshot()}, &fakeReasoner{err: ai.ErrUnconfigured}, store)

	rep, err := svc.Generate(context.Background(), "u-1", testRequest())
	require.NoError(t, err)

	doc, filename, err := svc.Download(context.Background(), rep.ID, "u-1", false)
	require.NoError(t, err)
	assert.Equal(t, "report-rep-1.txt", filename)
	assert.Contains(t, string(doc), "TOURISM ANALYTICS REPORT")
	assert.Equal(t, 1, store.reports[rep.ID].DownloadCount)
}

func TestDownloadNotReady(t *testing.T) {
	store := newFakeStore()
	store.reports["rep-9"] = &models.Report{ID: "rep-9", UserID: "u-1", Status: models.StatusProcessing}
	svc := newTestService(&fakeSnapshotter{}, &fakeReasoner{}, store)

	_, _, err := svc.Download(context.Background(), "rep-9", "u-1", false)
	assert.ErrorIs(t, err, ErrNotReady)

	_, _, err = svc.Download(context.Background(), "missing", "u-1", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHorizonDefaults(t *testing.T) {
	req := testRequest()
	req.ForecastMonths = 0
	assert.Equal(t, defaultHorizon, horizonFor(req))

	req.ForecastMonths = 40
	assert.Equal(t, maxHorizon, horizonFor(req))

	req.ForecastMonths = 6
	assert.Equal(t, 6, horizonFor(req))
}

func TestScopeLabel(t *testing.T) {
	assert.Equal(t, "all", scopeLabel(nil))
	id := int64(7)
	assert.Equal(t, "7", scopeLabel(&id))
}

// markProcessingStore fails MarkProcessing once the context is cancelled,
// the way a real database write does.
type markProcessingStore struct{ *fakeStore }

func (s markProcessingStore) MarkProcessing(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.fakeStore.MarkProcessing(ctx, id)
}

func TestGenerateMarkProcessingFailureEndsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore()
	svc := newTestService(
		&fakeSnapshotter{snapshot: testSnapshot()},
		&fakeReasoner{err: ai.ErrUnconfigured},
		markProcessingStore{store},
	)

	_, err := svc.Generate(ctx, "u-1", testRequest())
	assert.Error(t, err)

	// The created row must not stay pending.
	rep := store.reports["rep-1"]
	require.NotNil(t, rep)
	assert.Equal(t, models.StatusFailed, rep.Status)
	require.NotNil(t, rep.ErrorMessage)
}

// completeErrStore rejects the terminal completed write.
type completeErrStore struct{ *fakeStore }

func (s completeErrStore) Complete(ctx context.Context, id string, payload *models.ReportPayload) (*models.Report, error) {
	return nil, ErrStatusConflict
}

func TestGenerateCompleteFailureEndsTerminal(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(
		&fakeSnapshotter{snapshot: testSnapshot()},
		&fakeReasoner{err: ai.ErrUnconfigured},
		completeErrStore{store},
	)

	_, err := svc.Generate(context.Background(), "u-1", testRequest())
	assert.ErrorIs(t, err, ErrStatusConflict)

	// The row must not stay processing.
	rep := store.reports["rep-1"]
	require.NotNil(t, rep)
	assert.Equal(t, models.StatusFailed, rep.Status)
	assert.Equal(t, 1, store.failCalls)
}

func TestGenerateFormatHint(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(
		&fakeSnapshotter{snapshot: testSnapshot()},
		&fakeReasoner{err: ai.ErrUnconfigured},
		store,
	)

	// Known hints pass, case-insensitively; pdf is accepted and served as
	// text for now.
	for _, format := range []string{"", "txt", "TEXT", "pdf"} {
		req := testRequest()
		req.Format = format
		_, err := svc.Generate(context.Background(), "u-1", req)
		assert.NoError(t, err, "format %q", format)
	}

	req := testRequest()
	req.Format = "docx"
	_, err := svc.Generate(context.Background(), "u-1", req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
