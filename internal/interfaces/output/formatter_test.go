package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscrm/hygiene/internal/domain/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		ID:          "run-1",
		Source:      "inline",
		RecordCount: 3,
		HealthScore: 96,
		Duplicates:  []models.DuplicatePair{{Left: 0, Right: 1, Score: 97}},
		Alerts: []models.Alert{{
			Recipient: "rep@example.com",
			Subject:   "CRM hygiene: stale",
			Message:   "Record 1 is stale",
		}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "", want: ""},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_Explicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, sampleReport()))

	var got models.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, 96, got.HealthScore)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, map[string]int{"health_score": 96}))

	var got map[string]int
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 96, got["health_score"])
}

func TestTableFormatter_Report(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Duplicates")
	assert.Contains(t, out, "97")
	assert.Contains(t, out, "Alerts")
	assert.Contains(t, out, "rep@example.com")
	assert.Contains(t, out, "Record 1 is stale")
}

func TestTableFormatter_Runs(t *testing.T) {
	runs := []models.Summary{{
		ID:          "run-1",
		Source:      "table",
		RecordCount: 120,
		HealthScore: 88,
		StartedAt:   time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local),
	}}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, runs))
	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "2024-06-15 12:00:00")
}

func TestTableFormatter_FallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]string{"k": "v"}))
	assert.JSONEq(t, `{"k":"v"}`, buf.String())
}
