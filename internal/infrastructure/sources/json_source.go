package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// JSON reads records from a file holding an array of objects, or an object
// with a "records" array.
type JSON struct {
	path string
}

// NewJSON creates a JSON source
func NewJSON(path string) *JSON {
	return &JSON{path: path}
}

func (s *JSON) Name() string { return constants.SourceJSON }

// Load reads and decodes the file
func (s *JSON) Load(ctx context.Context) ([]models.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeJSON(data)
}

// DecodeJSON accepts `[{...}]` or `{"records": [{...}]}`
func DecodeJSON(data []byte) ([]models.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.Record{}, nil
	}

	var records []models.Record
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
	} else {
		var wrapper struct {
			Records []models.Record `json:"records"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode records: %w", err)
		}
		records = wrapper.Records
	}

	if records == nil {
		records = []models.Record{}
	}
	for i, r := range records {
		if r == nil {
			records[i] = models.Record{}
		}
	}
	return records, nil
}
