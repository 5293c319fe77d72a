package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/pkg/constants"
	apperrors "github.com/nexuscrm/hygiene/pkg/errors"
)

// MemoryRunStore keeps reports in process, used when no database is
// configured. Oldest runs are evicted past capacity.
type MemoryRunStore struct {
	mu       sync.RWMutex
	reports  map[string]*models.Report
	order    []string
	capacity int
}

var _ ports.RunStore = (*MemoryRunStore)(nil)

// NewMemoryRunStore creates a store holding up to capacity runs
func NewMemoryRunStore(capacity int) *MemoryRunStore {
	if capacity <= 0 {
		capacity = constants.MaxRunListLimit
	}
	return &MemoryRunStore{reports: make(map[string]*models.Report), capacity: capacity}
}

// Save stores the report
func (m *MemoryRunStore) Save(_ context.Context, report *models.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.reports[report.ID]; !exists {
		m.order = append(m.order, report.ID)
	}
	m.reports[report.ID] = report

	for len(m.order) > m.capacity {
		delete(m.reports, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

// Get returns a stored report
func (m *MemoryRunStore) Get(_ context.Context, id string) (*models.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report, ok := m.reports[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Run", id)
	}
	return report, nil
}

// List returns summaries newest first
func (m *MemoryRunStore) List(_ context.Context, limit int) ([]models.Summary, error) {
	if limit <= 0 {
		limit = constants.DefaultRunListLimit
	}

	m.mu.RLock()
	summaries := make([]models.Summary, 0, len(m.reports))
	for _, r := range m.reports {
		summaries = append(summaries, r.Summary())
	}
	m.mu.RUnlock()

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Latest returns the newest summary
func (m *MemoryRunStore) Latest(ctx context.Context) (*models.Summary, error) {
	summaries, err := m.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, apperrors.NewNotFoundError("Run", "latest")
	}
	return &summaries[0], nil
}
