package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/internal/infrastructure/persistence"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// OutboxService stores alerts durably and delivers them from a background
// worker. It implements ports.AlertSink, so the alert agent only enqueues.
type OutboxService struct {
	db       persistence.TxBeginner
	repo     *persistence.OutboxRepository
	notifier ports.Notifier
	logger   zerolog.Logger

	cleanupEvery time.Duration

	// Worker control
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var _ ports.AlertSink = (*OutboxService)(nil)

// NewOutboxService creates a new OutboxService
func NewOutboxService(db persistence.TxBeginner, notifier ports.Notifier) *OutboxService {
	return &OutboxService{
		db:       db,
		repo:     persistence.NewOutboxRepository(db),
		notifier: notifier,
		logger:   log.Logger.With().Str("component", "outbox").Logger(),
		stopCh:   make(chan struct{}),

		cleanupEvery: constants.OutboxCleanupInterval,
	}
}

// Deliver enqueues the alert for the worker
func (s *OutboxService) Deliver(ctx context.Context, alert models.Alert) error {
	if err := s.repo.Enqueue(ctx, s.db, alert); err != nil {
		return err
	}
	s.logger.Debug().Str("alert_id", alert.ID).Str("recipient", alert.Recipient).Msg("✅ [Outbox] Enqueued alert")
	return nil
}

// StartWorker polls the outbox every interval until StopWorker. Delivered
// alerts past the retention window are purged on a slower ticker.
func (s *OutboxService) StartWorker(interval time.Duration) {
	if interval <= 0 {
		interval = constants.DefaultOutboxInterval
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		cleanup := time.NewTicker(s.cleanupEvery)
		defer cleanup.Stop()

		s.logger.Info().Dur("interval", interval).Msg("📤 Outbox worker started")

		for {
			select {
			case <-s.stopCh:
				s.logger.Info().Msg("📤 Outbox worker stopping...")
				return
			case <-ticker.C:
				if err := s.ProcessOutbox(context.Background()); err != nil {
					s.logger.Warn().Err(err).Msg("⚠️ Outbox worker error")
				}
			case <-cleanup.C:
				n, err := s.CleanupProcessed(context.Background(), constants.ProcessedEventRetention)
				if err != nil {
					s.logger.Warn().Err(err).Msg("⚠️ Outbox cleanup failed")
				} else if n > 0 {
					s.logger.Info().Int64("deleted", n).Msg("🧹 Outbox cleanup removed delivered alerts")
				}
			}
		}
	}()
}

// StopWorker stops the worker and waits for the current batch
func (s *OutboxService) StopWorker() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	s.logger.Info().Msg("📤 Outbox worker stopped")
}

// ProcessOutbox delivers one batch of pending alerts, each in its own
// transaction.
func (s *OutboxService) ProcessOutbox(ctx context.Context) error {
	pending, err := s.repo.GetPending(ctx, constants.OutboxBatchSize)
	if err != nil {
		return err
	}

	if len(pending) > 0 {
		s.logger.Debug().Int("count", len(pending)).Msg("🔄 [Outbox] Processing pending alerts")
	}

	for _, p := range pending {
		if err := s.processAlert(ctx, p); err != nil {
			s.logger.Warn().Err(err).Str("alert_id", p.ID).Msg("⚠️ Failed to process outbox alert")
		}
	}
	return nil
}

// processAlert claims, delivers and updates one alert atomically
func (s *OutboxService) processAlert(ctx context.Context, p persistence.OutboxAlert) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	claimed, err := s.repo.Claim(ctx, tx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to claim alert: %w", err)
	}
	if !claimed {
		return nil
	}

	alert, err := p.Decode()
	if err != nil {
		s.logger.Error().Err(err).Str("alert_id", p.ID).Msg("❌ [Outbox] Alert payload unreadable")
		if markErr := s.repo.MarkFailed(ctx, tx, p.ID, fmt.Sprintf("invalid payload: %v", err)); markErr != nil {
			return fmt.Errorf("failed to mark alert as failed: %w", markErr)
		}
		return tx.Commit()
	}

	if err := s.notifier.Notify(ctx, alert); err != nil {
		attempts := p.RetryCount + 1
		if attempts >= constants.OutboxMaxRetryAttempts {
			if markErr := s.repo.MarkFailed(ctx, tx, p.ID, fmt.Sprintf("max retries exceeded: %v", err)); markErr != nil {
				return fmt.Errorf("failed to mark alert as failed: %w", markErr)
			}
			s.logger.Error().Err(err).Str("alert_id", p.ID).Msg("❌ [Outbox] Alert dropped after max retries")
			return tx.Commit()
		}

		if updateErr := s.repo.IncrementRetry(ctx, tx, p.ID, attempts, err.Error()); updateErr != nil {
			return fmt.Errorf("failed to update retry count: %w", updateErr)
		}
		s.logger.Warn().Err(err).Str("alert_id", p.ID).
			Msgf("⚠️ [Outbox] Alert delivery failed (attempt %d/%d)", attempts, constants.OutboxMaxRetryAttempts)
		return tx.Commit()
	}

	if err := s.repo.MarkProcessed(ctx, tx, p.ID); err != nil {
		return fmt.Errorf("failed to mark as processed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Debug().Str("alert_id", p.ID).Msg("✅ [Outbox] Alert delivered")
	return nil
}

// CleanupProcessed removes delivered alerts older than olderThan
func (s *OutboxService) CleanupProcessed(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.repo.CleanupProcessed(ctx, time.Now().Add(-olderThan))
}
