package ports

import (
	"context"

	"github.com/nexuscrm/hygiene/internal/domain/models"
)

// EnrichmentProvider returns fill-if-blank values for a record.
// A provider with nothing to offer returns an empty map.
type EnrichmentProvider interface {
	Name() string
	Lookup(ctx context.Context, record models.Record) (map[string]interface{}, error)
}
