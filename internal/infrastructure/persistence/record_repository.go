package persistence

import (
	"context"
	"fmt"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	apperrors "github.com/nexuscrm/hygiene/pkg/errors"
)

// RecordRepository reads CRM rows out of an existing table
type RecordRepository struct {
	db Executor
}

// NewRecordRepository creates a new RecordRepository
func NewRecordRepository(db Executor) *RecordRepository {
	return &RecordRepository{db: db}
}

// LoadAll returns every row of table as a Record. Byte columns are
// converted to strings and NULL becomes nil.
func (r *RecordRepository) LoadAll(ctx context.Context, table string) ([]models.Record, error) {
	if !ValidIdentifier(table) {
		return nil, apperrors.NewValidationError("table", fmt.Sprintf("invalid table name %q", table))
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	records := make([]models.Record, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}

		rec := make(models.Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return records, nil
}
