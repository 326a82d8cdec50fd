package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"app/models"
	"app/utils"
)

// PGStore persists reports in the reports table: typed summary columns for
// listing and filtering, the full payload as a jsonb blob.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// Create inserts a new pending report for the request.
func (s *PGStore) Create(ctx context.Context, userID string, req models.ReportRequest) (*models.Report, error) {
	rep := &models.Report{
		ID:           uuid.NewString(),
		UserID:       userID,
		Kind:         req.Kind,
		Title:        req.Title,
		Description:  req.Description,
		DateRange:    req.DateRange,
		AttractionID: req.AttractionID,
		Status:       models.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.Exec(ctx, `
        INSERT INTO reports (id, user_id, kind, title, description, date_range, attraction_id, status, download_count, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)
    `, rep.ID, rep.UserID, rep.Kind, rep.Title, rep.Description, rep.DateRange, rep.AttractionID, rep.Status, rep.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	return rep, nil
}

// MarkProcessing moves a pending report to processing.
func (s *PGStore) MarkProcessing(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE reports SET status = $1 WHERE id = $2 AND status = $3`,
		models.StatusProcessing, id, models.StatusPending)
	if err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s not pending: %w", id, ErrStatusConflict)
	}
	return nil
}

// Complete attaches the payload and moves a processing report to its
// terminal completed status.
func (s *PGStore) Complete(ctx context.Context, id string, payload *models.ReportPayload) (*models.Report, error) {
	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
        UPDATE reports SET status = $1, payload = $2, completed_at = $3
        WHERE id = $4 AND status = $5
    `, models.StatusCompleted, blob, time.Now().UTC(), id, models.StatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("complete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("report %s not processing: %w", id, ErrStatusConflict)
	}
	return s.Get(ctx, id)
}

// Fail moves a non-terminal report to its terminal failed status with a
// human-readable reason.
func (s *PGStore) Fail(ctx context.Context, id, message string) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE reports SET status = $1, error_message = $2, completed_at = $3
        WHERE id = $4 AND status IN ($5, $6)
    `, models.StatusFailed, message, time.Now().UTC(), id, models.StatusPending, models.StatusProcessing)
	if err != nil {
		return fmt.Errorf("fail report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s already terminal: %w", id, ErrStatusConflict)
	}
	return nil
}

const reportColumns = `id, user_id, kind, title, description, date_range, attraction_id, status, payload, download_count, error_message, created_at, completed_at`

// Get fetches one report with its payload.
func (s *PGStore) Get(ctx context.Context, id string) (*models.Report, error) {
	row := s.db.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	rep, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return rep, err
}

// List returns the reports visible to a user, newest first. Authorities
// see every report; owners only their own.
func (s *PGStore) List(ctx context.Context, userID string, authority bool, page, pageSize int) ([]models.Report, *utils.Pagination, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}
	if authority {
		where = ""
		args = nil
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM reports "+where, args...).Scan(&total); err != nil {
		return nil, nil, fmt.Errorf("count reports: %w", err)
	}

	pagination := utils.CreatePagination(total, page, pageSize)
	offset := (pagination.CurrentPage - 1) * pagination.PageSize

	query := fmt.Sprintf(`
        SELECT id, user_id, kind, title, date_range, attraction_id, status, download_count, created_at, completed_at
        FROM reports %s
        ORDER BY created_at DESC
        LIMIT %d OFFSET %d
    `, where, pagination.PageSize, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	out := []models.Report{}
	for rows.Next() {
		var rep models.Report
		var attractionID sql.NullInt64
		var completedAt sql.NullTime
		if err := rows.Scan(
			&rep.ID, &rep.UserID, &rep.Kind, &rep.Title, &rep.DateRange,
			&attractionID, &rep.Status, &rep.DownloadCount, &rep.CreatedAt, &completedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan report row: %w", err)
		}
		rep.AttractionID = utils.NullInt64ToInt64Ptr(attractionID)
		rep.CompletedAt = utils.NullTimeToTimePtr(completedAt)
		out = append(out, rep)
	}
	return out, pagination, rows.Err()
}

// RecordDownload increments the download counter. No status change.
func (s *PGStore) RecordDownload(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE reports SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a report owned by the given user.
func (s *PGStore) Delete(ctx context.Context, id, userID string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM reports WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanReport(row pgx.Row) (*models.Report, error) {
	var rep models.Report
	var description sql.NullString
	var attractionID sql.NullInt64
	var payload []byte
	var errorMessage sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&rep.ID, &rep.UserID, &rep.Kind, &rep.Title, &description, &rep.DateRange,
		&attractionID, &rep.Status, &payload, &rep.DownloadCount, &errorMessage,
		&rep.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	rep.Description = utils.NullStringToStringPtr(description)
	rep.AttractionID = utils.NullInt64ToInt64Ptr(attractionID)
	rep.ErrorMessage = utils.NullStringToStringPtr(errorMessage)
	rep.CompletedAt = utils.NullTimeToTimePtr(completedAt)

	if len(payload) > 0 {
		var p models.ReportPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		rep.Payload = &p
	}
	return &rep, nil
}
