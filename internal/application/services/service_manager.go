package services

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nexuscrm/hygiene/internal/application/agents"
	"github.com/nexuscrm/hygiene/internal/config"
	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/internal/infrastructure/database"
	"github.com/nexuscrm/hygiene/internal/infrastructure/notify"
	"github.com/nexuscrm/hygiene/internal/infrastructure/persistence"
	"github.com/nexuscrm/hygiene/internal/infrastructure/sources"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// ManagerOptions selects how the manager wires optional pieces
type ManagerOptions struct {
	// DirectAlerts bypasses the outbox and notifies inline. One-shot CLI
	// runs use it since no worker would drain the outbox.
	DirectAlerts bool
	// PersistRuns saves reports to the database when one is connected;
	// otherwise they are kept in memory.
	PersistRuns bool
	// Schedule starts the cron scheduler when schedule.cron is set
	Schedule bool
}

// ServiceManager wires every service with its dependencies
type ServiceManager struct {
	cfg *config.Config
	db  *database.Connection

	EventBus     *EventBus
	Orchestrator *agents.Orchestrator
	Hygiene      *HygieneService
	Outbox       *OutboxService
	Scheduler    *SchedulerService
	Runs         ports.RunStore
	Records      *persistence.RecordRepository

	webhook *notify.WebhookNotifier
}

// NewServiceManager builds the services for cfg. db may be nil, in which
// case runs are kept in memory and the table source is unavailable.
func NewServiceManager(cfg *config.Config, profile models.Profile, db *database.Connection, opts ManagerOptions) (*ServiceManager, error) {
	sm := &ServiceManager{cfg: cfg, db: db, EventBus: NewEventBus()}

	notifiers := []ports.Notifier{notify.NewLogNotifier(log.Logger)}
	if cfg.Notify.WebhookURL != "" {
		sm.webhook = notify.NewWebhookNotifier(cfg.Notify.WebhookURL)
		notifiers = append(notifiers, sm.webhook)
	}
	fanout := notify.NewFanout(notifiers...)

	var sink ports.AlertSink = fanout
	if db != nil && !opts.DirectAlerts {
		sm.Outbox = NewOutboxService(db, fanout)
		sink = sm.Outbox
	}

	if db != nil && opts.PersistRuns {
		sm.Runs = persistence.NewRunRepository(db)
	} else {
		sm.Runs = persistence.NewMemoryRunStore(constants.MaxRunListLimit)
	}

	orch, err := agents.NewOrchestrator(profile,
		agents.WithWorkers(cfg.Workers),
		agents.WithAlertSink(sink),
		agents.WithPublisher(sm.EventBus),
	)
	if err != nil {
		return nil, err
	}
	sm.Orchestrator = orch
	sm.Hygiene = NewHygieneService(orch, sm.Runs, sm.EventBus)

	if db != nil {
		sm.Records = persistence.NewRecordRepository(db)
		sm.Hygiene.RegisterSource(sources.NewTable(sm.Records, cfg.Database.Table))
	}

	if opts.Schedule && cfg.Schedule.Cron != "" {
		src, err := sm.scheduledSource()
		if err != nil {
			return nil, err
		}
		if sm.Scheduler, err = NewSchedulerService(sm.Hygiene, src, cfg.Schedule.Cron); err != nil {
			return nil, err
		}
	}

	return sm, nil
}

func (sm *ServiceManager) scheduledSource() (ports.RecordSource, error) {
	if sm.cfg.Schedule.Source == constants.SourceTable {
		src, err := sm.Hygiene.Source(constants.SourceTable)
		if err != nil {
			return nil, fmt.Errorf("scheduled table runs need a database: %w", err)
		}
		return src, nil
	}
	return sources.FromPath(sm.cfg.Schedule.Source)
}

// Start launches the background workers
func (sm *ServiceManager) Start() error {
	if sm.Outbox != nil {
		sm.Outbox.StartWorker(sm.cfg.Outbox.Interval)
	}
	if sm.Scheduler != nil {
		if err := sm.Scheduler.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Stop halts the workers in reverse order and releases clients
func (sm *ServiceManager) Stop() {
	if sm.Scheduler != nil {
		sm.Scheduler.Stop()
	}
	if sm.Outbox != nil {
		sm.Outbox.StopWorker()
	}
	if sm.webhook != nil {
		_ = sm.webhook.Close()
	}
}
