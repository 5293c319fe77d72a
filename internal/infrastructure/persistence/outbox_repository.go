package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// OutboxAlert is a persisted alert awaiting delivery
type OutboxAlert struct {
	ID         string
	Recipient  string
	Subject    string
	Payload    string
	RetryCount int
}

// Decode returns the alert stored in the payload
func (o OutboxAlert) Decode() (models.Alert, error) {
	var alert models.Alert
	err := json.Unmarshal([]byte(o.Payload), &alert)
	return alert, err
}

// OutboxRepository handles the alert outbox table
type OutboxRepository struct {
	db Executor
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db Executor) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// Enqueue stores a pending alert, keyed by the alert's own ID
func (r *OutboxRepository) Enqueue(ctx context.Context, exec Executor, alert models.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, recipient, subject, payload, status, retry_count, created_date, last_modified_date)
		VALUES (?, ?, ?, ?, ?, 0, NOW(), NOW())
	`, constants.TableAlertOutbox)

	if _, err := exec.ExecContext(ctx, query, alert.ID, alert.Recipient, alert.Subject, string(payload), constants.OutboxStatusPending); err != nil {
		return fmt.Errorf("failed to enqueue alert: %w", err)
	}
	return nil
}

// GetPending returns pending alerts, oldest first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]OutboxAlert, error) {
	query := fmt.Sprintf(`
		SELECT id, recipient, subject, payload, retry_count
		FROM %s
		WHERE status = ?
		ORDER BY created_date ASC
		LIMIT ?
	`, constants.TableAlertOutbox)

	rows, err := r.db.QueryContext(ctx, query, constants.OutboxStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pending []OutboxAlert
	for rows.Next() {
		var a OutboxAlert
		if err := rows.Scan(&a.ID, &a.Recipient, &a.Subject, &a.Payload, &a.RetryCount); err != nil {
			return nil, fmt.Errorf("failed to scan pending alert: %w", err)
		}
		pending = append(pending, a)
	}
	return pending, rows.Err()
}

// Claim locks a pending alert for this worker. It returns false when
// another worker holds it or it is no longer pending.
func (r *OutboxRepository) Claim(ctx context.Context, exec Executor, id string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE id = ? AND status = ?
		FOR UPDATE SKIP LOCKED
	`, constants.TableAlertOutbox)

	var claimed string
	err := exec.QueryRowContext(ctx, query, id, constants.OutboxStatusPending).Scan(&claimed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkProcessed records a successful delivery
func (r *OutboxRepository) MarkProcessed(ctx context.Context, exec Executor, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = ?, processed_date = NOW(), last_modified_date = NOW()
		WHERE id = ?
	`, constants.TableAlertOutbox)

	_, err := exec.ExecContext(ctx, query, constants.OutboxStatusProcessed, id)
	return err
}

// MarkFailed gives up on an alert
func (r *OutboxRepository) MarkFailed(ctx context.Context, exec Executor, id, errMessage string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = ?, error_message = ?, last_modified_date = NOW()
		WHERE id = ?
	`, constants.TableAlertOutbox)

	_, err := exec.ExecContext(ctx, query, constants.OutboxStatusFailed, errMessage, id)
	return err
}

// IncrementRetry stores the new attempt count and last error
func (r *OutboxRepository) IncrementRetry(ctx context.Context, exec Executor, id string, newCount int, errMessage string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET retry_count = ?, error_message = ?, last_modified_date = NOW()
		WHERE id = ?
	`, constants.TableAlertOutbox)

	_, err := exec.ExecContext(ctx, query, newCount, errMessage, id)
	return err
}

// CleanupProcessed deletes processed alerts older than cutoff
func (r *OutboxRepository) CleanupProcessed(ctx context.Context, cutoff time.Time) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE status = ? AND processed_date < ?
	`, constants.TableAlertOutbox)

	result, err := r.db.ExecContext(ctx, query, constants.OutboxStatusProcessed, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
