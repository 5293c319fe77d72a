package ports

import (
	"context"

	"github.com/nexuscrm/hygiene/internal/domain/models"
)

// RecordSource loads the records a hygiene run inspects
type RecordSource interface {
	Name() string
	Load(ctx context.Context) ([]models.Record, error)
}
