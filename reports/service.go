package reports

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"app/ai"
	"app/analytics"
	"app/models"
	"app/utils"
)

// Forecast horizon bounds in months.
const (
	defaultHorizon = 3
	maxHorizon     = 12
)

// Snapshotter computes the aggregated statistics for one report.
type Snapshotter interface {
	Aggregate(ctx context.Context, dateRange string, attractionID *int64) (*models.AggregatedSnapshot, error)
}

// Reasoner sends one prompt to the external reasoning service.
type Reasoner interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Store is the persistence boundary of the pipeline.
type Store interface {
	Create(ctx context.Context, userID string, req models.ReportRequest) (*models.Report, error)
	MarkProcessing(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, payload *models.ReportPayload) (*models.Report, error)
	Fail(ctx context.Context, id, message string) error
	Get(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, userID string, authority bool, page, pageSize int) ([]models.Report, *utils.Pagination, error)
	RecordDownload(ctx context.Context, id string) error
	Delete(ctx context.Context, id, userID string) error
}

// Service orchestrates the report-generation pipeline:
// aggregate -> prompt -> reasoning -> validate, or synthesize on any
// reasoning shortfall, then persist the terminal outcome.
type Service struct {
	snaps    Snapshotter
	reasoner Reasoner
	store    Store
	log      *zap.Logger
}

func NewService(snaps Snapshotter, reasoner Reasoner, store Store, log *zap.Logger) *Service {
	return &Service{snaps: snaps, reasoner: reasoner, store: store, log: log}
}

// Generate runs one full report generation for the owner identity.
// The report row always ends terminal: completed with a payload, or failed
// with a stored reason, even when ctx is cancelled mid-pipeline.
func (s *Service) Generate(ctx context.Context, userID string, req models.ReportRequest) (*models.Report, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	rep, err := s.store.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	// Every error branch past Create must move the row to failed: an
	// abandoned report must never stay stuck in pending or processing.
	if err := s.store.MarkProcessing(ctx, rep.ID); err != nil {
		s.markFailed(ctx, rep.ID, err)
		return nil, err
	}

	payload, err := s.buildPayload(ctx, req)
	if err != nil {
		s.markFailed(ctx, rep.ID, err)
		return nil, err
	}

	completed, err := s.store.Complete(context.WithoutCancel(ctx), rep.ID, payload)
	if err != nil {
		s.markFailed(ctx, rep.ID, err)
		return nil, err
	}

	s.log.Info("report generated",
		zap.String("reportId", completed.ID),
		zap.String("kind", string(completed.Kind)),
		zap.String("provenance", payload.Provenance.Source))
	return completed, nil
}

// markFailed moves a report to its terminal failed status. The write runs
// on a cancellation-immune context so a caller abandoning the request still
// leaves the row terminal.
func (s *Service) markFailed(ctx context.Context, id string, cause error) {
	if err := s.store.Fail(context.WithoutCancel(ctx), id, cause.Error()); err != nil {
		s.log.Error("could not mark report failed", zap.String("reportId", id), zap.Error(err))
	}
}

func (s *Service) buildPayload(ctx context.Context, req models.ReportRequest) (*models.ReportPayload, error) {
	snapshot, err := s.snaps.Aggregate(ctx, req.DateRange, req.AttractionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	start, end := analytics.ResolveRange(req.DateRange, now)
	params := ai.PromptParams{
		Kind:    req.Kind,
		Period:  analytics.PeriodFor(start, end),
		Horizon: horizonFor(req),
		Scope:   scopeLabel(req.AttractionID),
	}

	raw, err := s.reasoner.Query(ctx, ai.BuildPrompt(snapshot, params))
	if err != nil {
		// Reasoning failures are never fatal: the synthetic path produces
		// a schema-identical payload.
		s.log.Warn("reasoning unavailable, falling back to synthetic payload", zap.Error(err))
		return ai.Synthesize(snapshot, params, now), nil
	}

	payload, defaulted := ai.ValidatePayload(raw, params, snapshot, now)
	if defaulted > 0 {
		s.log.Info("reasoning response partially defaulted",
			zap.Int("defaultedFields", defaulted),
			zap.String("provenance", payload.Provenance.Source))
	}
	return payload, nil
}

// Get returns one report if it is visible to the caller's scope.
func (s *Service) Get(ctx context.Context, id, userID string, authority bool) (*models.Report, error) {
	rep, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authority && rep.UserID != userID {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return rep, nil
}

// List returns the reports visible to the caller, newest first.
func (s *Service) List(ctx context.Context, userID string, authority bool, page, pageSize int) ([]models.Report, *utils.Pagination, error) {
	return s.store.List(ctx, userID, authority, page, pageSize)
}

// Delete removes a report on explicit owner action.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	return s.store.Delete(ctx, id, userID)
}

// Download renders a completed report and bumps its download counter.
// Returns the document bytes and a suggested filename.
func (s *Service) Download(ctx context.Context, id, userID string, authority bool) ([]byte, string, error) {
	rep, err := s.Get(ctx, id, userID, authority)
	if err != nil {
		return nil, "", err
	}
	if rep.Status != models.StatusCompleted {
		return nil, "", fmt.Errorf("report %s is %s: %w", id, rep.Status, ErrNotReady)
	}

	var buf bytes.Buffer
	if err := RenderDocument(&buf, rep); err != nil {
		return nil, "", err
	}

	if err := s.store.RecordDownload(ctx, id); err != nil {
		s.log.Warn("could not record download", zap.String("reportId", id), zap.Error(err))
	}
	return buf.Bytes(), fmt.Sprintf("report-%s.txt", rep.ID), nil
}

func validateRequest(req models.ReportRequest) error {
	if !req.Kind.Valid() {
		return fmt.Errorf("unknown report kind %q: %w", req.Kind, ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title must not be empty: %w", ErrInvalidRequest)
	}
	// Any non-empty range is accepted at request level; unparseable custom
	// forms degrade to the default trailing window during resolution.
	if strings.TrimSpace(req.DateRange) == "" {
		return fmt.Errorf("dateRange must not be empty: %w", ErrInvalidRequest)
	}
	// Known format hints only. PDF requests are accepted and served as
	// plain text until a document backend exists.
	switch strings.ToLower(strings.TrimSpace(req.Format)) {
	case "", "txt", "text", "pdf":
	default:
		return fmt.Errorf("unsupported format %q: %w", req.Format, ErrInvalidRequest)
	}
	return nil
}

func horizonFor(req models.ReportRequest) int {
	h := req.ForecastMonths
	if h < 1 {
		return defaultHorizon
	}
	if h > maxHorizon {
		return maxHorizon
	}
	return h
}

func scopeLabel(attractionID *int64) string {
	if attractionID == nil {
		return "all"
	}
	return strconv.FormatInt(*attractionID, 10)
}
