package ports

import (
	"context"

	"github.com/nexuscrm/hygiene/internal/domain/models"
)

// RunStore persists hygiene run reports
type RunStore interface {
	Save(ctx context.Context, report *models.Report) error
	Get(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, limit int) ([]models.Summary, error)
	Latest(ctx context.Context) (*models.Summary, error)
}
