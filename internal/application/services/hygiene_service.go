package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nexuscrm/hygiene/internal/application/agents"
	"github.com/nexuscrm/hygiene/internal/domain/events"
	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/internal/infrastructure/sources"
	apperrors "github.com/nexuscrm/hygiene/pkg/errors"
)

// RunFailedPayload is published with events.RunFailed
type RunFailedPayload struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// HygieneService loads records, runs the orchestrator and keeps the reports.
// Only one run executes at a time.
type HygieneService struct {
	orchestrator *agents.Orchestrator
	store        ports.RunStore
	publisher    ports.EventPublisher
	sources      map[string]ports.RecordSource
	logger       zerolog.Logger
	now          func() time.Time

	runMu    sync.Mutex
	sourceMu sync.RWMutex
}

// NewHygieneService creates a HygieneService. publisher may be nil.
func NewHygieneService(orchestrator *agents.Orchestrator, store ports.RunStore, publisher ports.EventPublisher) *HygieneService {
	return &HygieneService{
		orchestrator: orchestrator,
		store:        store,
		publisher:    publisher,
		sources:      make(map[string]ports.RecordSource),
		logger:       log.Logger.With().Str("component", "hygiene_service").Logger(),
		now:          time.Now,
	}
}

// RegisterSource makes a named source available to RunSource
func (s *HygieneService) RegisterSource(src ports.RecordSource) {
	s.sourceMu.Lock()
	defer s.sourceMu.Unlock()
	s.sources[src.Name()] = src
}

// Source returns a registered source
func (s *HygieneService) Source(name string) (ports.RecordSource, error) {
	s.sourceMu.RLock()
	defer s.sourceMu.RUnlock()

	src, ok := s.sources[name]
	if !ok {
		return nil, apperrors.NewValidationError("source", fmt.Sprintf("unknown source %q", name))
	}
	return src, nil
}

// RunSource runs the pipeline over a registered source
func (s *HygieneService) RunSource(ctx context.Context, name string) (*models.Report, error) {
	src, err := s.Source(name)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, src)
}

// RunRecords runs the pipeline over records supplied by the caller
func (s *HygieneService) RunRecords(ctx context.Context, records []models.Record) (*models.Report, error) {
	return s.Run(ctx, sources.NewInline(records))
}

// Run loads src, runs every agent and saves the report. It returns a
// ConflictError when another run is still in progress.
func (s *HygieneService) Run(ctx context.Context, src ports.RecordSource) (*models.Report, error) {
	if !s.runMu.TryLock() {
		return nil, apperrors.NewConflictError("HygieneRun", "a run is already in progress")
	}
	defer s.runMu.Unlock()

	s.publish(ctx, events.RunStarted, map[string]string{"source": src.Name()})

	records, err := src.Load(ctx)
	if err != nil {
		s.fail(ctx, src.Name(), err)
		return nil, fmt.Errorf("failed to load %s records: %w", src.Name(), err)
	}

	report, err := s.orchestrator.Run(ctx, src.Name(), records)
	if err != nil {
		s.fail(ctx, src.Name(), err)
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Save(ctx, report); err != nil {
			s.fail(ctx, src.Name(), err)
			return nil, apperrors.NewInternalError("failed to save hygiene run", err)
		}
	}
	return report, nil
}

// Check runs the per-record agents on a single record
func (s *HygieneService) Check(ctx context.Context, record models.Record) models.RecordCheck {
	return s.orchestrator.Check(ctx, record)
}

// GetRun returns a stored report
func (s *HygieneService) GetRun(ctx context.Context, id string) (*models.Report, error) {
	if s.store == nil {
		return nil, apperrors.NewUnavailableError("run store")
	}
	return s.store.Get(ctx, id)
}

// ListRuns returns stored run summaries, newest first
func (s *HygieneService) ListRuns(ctx context.Context, limit int) ([]models.Summary, error) {
	if s.store == nil {
		return nil, apperrors.NewUnavailableError("run store")
	}
	return s.store.List(ctx, limit)
}

// Dashboard returns the latest run's score and insights
func (s *HygieneService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	if s.store == nil {
		return nil, apperrors.NewUnavailableError("run store")
	}
	latest, err := s.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Dashboard{
		RunID:       latest.ID,
		HealthScore: latest.HealthScore,
		Insights:    latest.Insights,
		GeneratedAt: s.now(),
	}, nil
}

// Profile returns the effective hygiene profile
func (s *HygieneService) Profile() models.Profile {
	return s.orchestrator.Profile()
}

func (s *HygieneService) fail(ctx context.Context, source string, err error) {
	s.logger.Error().Err(err).Str("source", source).Msg("❌ Hygiene run failed")
	s.publish(ctx, events.RunFailed, RunFailedPayload{Source: source, Error: err.Error()})
}

func (s *HygieneService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", string(eventType)).Msg("⚠️ Event handler failed")
	}
}
