package sources

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/utils"
)

// CSV reads records from a CSV file whose first row names the fields
type CSV struct {
	path string
}

// NewCSV creates a CSV source
func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (s *CSV) Name() string { return constants.SourceCSV }

// Load reads the whole file. Plain decimal cells become float64, everything
// else stays a string and empty cells stay "".
func (s *CSV) Load(ctx context.Context) ([]models.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(ctx, f)
}

// ReadCSV parses CSV with a header row
func ReadCSV(ctx context.Context, r io.Reader) ([]models.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	records := make([]models.Record, 0)
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		rec := make(models.Record, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			rec[col] = utils.ParseCell(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}
