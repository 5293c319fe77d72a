package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

func TestReadCSV(t *testing.T) {
	input := "\ufeffid,email, phone,amount,zip\n1,a@b.co,555,10,02134\n2,,+1 555,,\n"

	records, err := ReadCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.Record{"id": 1.0, "email": "a@b.co", "phone": 555.0, "amount": 10.0, "zip": "02134"}, records[0])
	assert.True(t, records[1].IsBlank("email"))
	assert.True(t, records[1].Has("amount"))
	assert.Equal(t, "", records[1]["amount"])
	assert.Equal(t, "+1 555", records[1]["phone"])
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadCSV_RaggedRow(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("a,b\n1\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"array", `[{"email":"a@b.co"},{"email":null}]`, 2},
		{"wrapped", `{"records":[{"email":"a@b.co"}]}`, 1},
		{"empty", `  `, 0},
		{"null entry", `[null]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
			for _, r := range records {
				assert.NotNil(t, r)
			}
		})
	}

	_, err := DecodeJSON([]byte(`{"records": 5}`))
	assert.Error(t, err)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "leads.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("email\nx@y.com\n"), 0o600))
	jsonPath := filepath.Join(dir, "leads.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"email":"x@y.com","amount":12}]`), 0o600))

	src, err := FromPath(csvPath)
	require.NoError(t, err)
	assert.Equal(t, constants.SourceCSV, src.Name())
	records, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x@y.com", records[0]["email"])

	src, err = FromPath(jsonPath)
	require.NoError(t, err)
	records, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12.0, records[0]["amount"])

	_, err = FromPath(filepath.Join(dir, "leads.xlsx"))
	assert.Error(t, err)

	_, err = NewCSV(filepath.Join(dir, "missing.csv")).Load(context.Background())
	assert.Error(t, err)
}

type MockTableLoader struct {
	mock.Mock
}

func (m *MockTableLoader) LoadAll(ctx context.Context, table string) ([]models.Record, error) {
	args := m.Called(ctx, table)
	if records := args.Get(0); records != nil {
		return records.([]models.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestTable_Load(t *testing.T) {
	loader := new(MockTableLoader)
	loader.On("LoadAll", mock.Anything, constants.DefaultSourceTable).Return([]models.Record{{"id": "1"}}, nil)

	src := NewTable(loader, "")
	assert.Equal(t, constants.DefaultSourceTable, src.TableName())
	assert.Equal(t, constants.SourceTable, src.Name())

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	loader.AssertExpectations(t)
}

func TestInline_Load(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewInline([]models.Record{{"id": "1"}})

	records, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	cancel()
	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
