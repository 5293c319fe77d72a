package sources

import (
	"context"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// TableLoader reads every row of a table
type TableLoader interface {
	LoadAll(ctx context.Context, table string) ([]models.Record, error)
}

// Table reads records from a CRM database table
type Table struct {
	loader TableLoader
	table  string
}

// NewTable creates a Table source; an empty table name uses the default
func NewTable(loader TableLoader, table string) *Table {
	if table == "" {
		table = constants.DefaultSourceTable
	}
	return &Table{loader: loader, table: table}
}

func (s *Table) Name() string { return constants.SourceTable }

// TableName returns the table read by Load
func (s *Table) TableName() string { return s.table }

// Load reads the table
func (s *Table) Load(ctx context.Context) ([]models.Record, error) {
	return s.loader.LoadAll(ctx, s.table)
}
