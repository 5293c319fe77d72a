package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/pkg/constants"
	apperrors "github.com/nexuscrm/hygiene/pkg/errors"
)

// RunRepository stores hygiene run reports
type RunRepository struct {
	db Executor
}

var _ ports.RunStore = (*RunRepository)(nil)

// NewRunRepository creates a new RunRepository
func NewRunRepository(db Executor) *RunRepository {
	return &RunRepository{db: db}
}

// Save inserts a report; the summary columns are kept alongside the full JSON
func (r *RunRepository) Save(ctx context.Context, report *models.Report) error {
	insights, err := models.MarshalInsights(report.Insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, source, record_count, health_score, insights, report, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, constants.TableRun)

	if _, err := r.db.ExecContext(ctx, query,
		report.ID, report.Source, report.RecordCount, report.HealthScore,
		insights, string(body), report.StartedAt, report.FinishedAt,
	); err != nil {
		return fmt.Errorf("failed to save run %s: %w", report.ID, err)
	}
	return nil
}

// Get loads the full report for a run
func (r *RunRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	query := fmt.Sprintf(`SELECT report FROM %s WHERE id = ?`, constants.TableRun)

	var body string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Run", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	var report models.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &report, nil
}

// List returns run summaries, newest first
func (r *RunRepository) List(ctx context.Context, limit int) ([]models.Summary, error) {
	if limit <= 0 {
		limit = constants.DefaultRunListLimit
	}
	if limit > constants.MaxRunListLimit {
		limit = constants.MaxRunListLimit
	}

	query := fmt.Sprintf(`
		SELECT id, source, record_count, health_score, insights, started_at, finished_at
		FROM %s
		ORDER BY started_at DESC
		LIMIT ?
	`, constants.TableRun)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]models.Summary, 0)
	for rows.Next() {
		var s models.Summary
		var insights sql.NullString
		if err := rows.Scan(&s.ID, &s.Source, &s.RecordCount, &s.HealthScore, &insights, &s.StartedAt, &s.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if insights.Valid && insights.String != "" {
			if err := json.Unmarshal([]byte(insights.String), &s.Insights); err != nil {
				return nil, fmt.Errorf("failed to decode insights for run %s: %w", s.ID, err)
			}
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return summaries, nil
}

// Latest returns the most recent run summary
func (r *RunRepository) Latest(ctx context.Context) (*models.Summary, error) {
	summaries, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, apperrors.NewNotFoundError("Run", "latest")
	}
	return &summaries[0], nil
}
