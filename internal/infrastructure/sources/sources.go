// Package sources loads CRM records from files, database tables or
// request bodies.
package sources

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// Inline serves records already in memory
type Inline struct {
	records []models.Record
}

var _ ports.RecordSource = (*Inline)(nil)

// NewInline creates an Inline source
func NewInline(records []models.Record) *Inline {
	return &Inline{records: records}
}

func (s *Inline) Name() string { return constants.SourceInline }

// Load returns the records as given
func (s *Inline) Load(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.records, nil
}

// FromPath picks a file source by extension
func FromPath(path string) (ports.RecordSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSV(path), nil
	case ".json":
		return NewJSON(path), nil
	default:
		return nil, fmt.Errorf("unsupported input %q: expected .csv or .json", path)
	}
}
