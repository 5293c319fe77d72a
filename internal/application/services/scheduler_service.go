package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/pkg/constants"
	apperrors "github.com/nexuscrm/hygiene/pkg/errors"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// SchedulerService runs the hygiene pipeline on a cron schedule
type SchedulerService struct {
	hygiene *HygieneService
	source  ports.RecordSource
	spec    string
	timeout time.Duration
	cron    *cron.Cron
	logger  zerolog.Logger

	mu      sync.Mutex
	running bool
	entry   cron.EntryID
}

// NewSchedulerService validates spec and prepares the scheduler
func NewSchedulerService(hygiene *HygieneService, source ports.RecordSource, spec string) (*SchedulerService, error) {
	if _, err := cronParser.Parse(spec); err != nil {
		return nil, apperrors.NewValidationError("schedule.cron", fmt.Sprintf("invalid cron expression %q: %v", spec, err))
	}

	logger := log.Logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: logger}
	return &SchedulerService{
		hygiene: hygiene,
		source:  source,
		spec:    spec,
		timeout: time.Duration(constants.ScheduleMaxRuntimeMins) * time.Minute,
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLogger(cl),
			cron.WithChain(cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}, nil
}

// Start schedules the job and starts the cron loop
func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	id, err := s.cron.AddFunc(s.spec, s.RunOnce)
	if err != nil {
		return fmt.Errorf("failed to schedule hygiene run: %w", err)
	}
	s.entry = id
	s.running = true
	s.cron.Start()

	s.logger.Info().Str("cron", s.spec).Str("source", s.source.Name()).
		Time("next_run", s.cron.Entry(id).Next).Msg("⏰ Scheduler service started")
	return nil
}

// Stop halts the cron loop and waits for a running job
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info().Msg("⏰ Scheduler service stopping...")
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("⏰ Scheduler service stopped")
}

// Next returns the next scheduled activation, zero when not started
func (s *SchedulerService) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

// RunOnce executes one scheduled run with a timeout and panic recovery
func (s *SchedulerService) RunOnce() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("🔥 Panic in scheduled hygiene run")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.hygiene.Run(ctx, s.source)
	switch {
	case apperrors.IsConflict(err):
		s.logger.Info().Msg("⏭️ Hygiene run already in progress, skipping")
	case err != nil:
		s.logger.Error().Err(err).Dur("took", time.Since(start)).Msg("❌ Scheduled hygiene run failed")
	default:
		s.logger.Info().Str("run_id", report.ID).Int("health_score", report.HealthScore).
			Dur("took", time.Since(start)).Msg("✅ Scheduled hygiene run completed")
	}
}
