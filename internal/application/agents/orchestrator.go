package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nexuscrm/hygiene/internal/domain/events"
	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/expression"
	"github.com/nexuscrm/hygiene/pkg/utils"
)

// Orchestrator is the central controller that runs every agent over a batch
// of records: per-record checks and repairs first, then the set-wide
// duplicate scan, insights and health score.
type Orchestrator struct {
	profile    models.Profile
	missing    *MissingFieldsAgent
	validation *ValidationAgent
	dedupe     *DeduplicationAgent
	staleness  *StalenessAgent
	normalize  *NormalizationAgent
	enrich     *EnrichmentAgent
	insights   *InsightsAgent
	alerts     *AlertAgent
	providers  []ports.EnrichmentProvider
	publisher  ports.EventPublisher
	logger     zerolog.Logger
	workers    int
	now        Clock
}

type orchestratorOptions struct {
	now       Clock
	workers   int
	sink      ports.AlertSink
	publisher ports.EventPublisher
	providers []ports.EnrichmentProvider
	engine    *expression.Engine
	logger    *zerolog.Logger
}

// Option configures an Orchestrator
type Option func(*orchestratorOptions)

// WithClock pins the time used for staleness, close dates and timestamps
func WithClock(now Clock) Option {
	return func(o *orchestratorOptions) { o.now = now }
}

// WithWorkers bounds how many records are processed concurrently
func WithWorkers(n int) Option {
	return func(o *orchestratorOptions) { o.workers = n }
}

// WithAlertSink sets where alerts are delivered
func WithAlertSink(sink ports.AlertSink) Option {
	return func(o *orchestratorOptions) { o.sink = sink }
}

// WithPublisher publishes alert and run events
func WithPublisher(p ports.EventPublisher) Option {
	return func(o *orchestratorOptions) { o.publisher = p }
}

// WithProviders appends enrichment providers after the profile's own
func WithProviders(providers ...ports.EnrichmentProvider) Option {
	return func(o *orchestratorOptions) { o.providers = append(o.providers, providers...) }
}

// WithEngine shares an expression engine for custom rules
func WithEngine(e *expression.Engine) Option {
	return func(o *orchestratorOptions) { o.engine = e }
}

// WithLogger sets the orchestrator logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *orchestratorOptions) { o.logger = &l }
}

// NewOrchestrator wires all agents for profile. It fails when a custom
// validation rule does not compile.
func NewOrchestrator(profile models.Profile, opts ...Option) (*Orchestrator, error) {
	cfg := orchestratorOptions{now: time.Now, workers: constants.DefaultWorkers}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers <= 0 {
		cfg.workers = 1
	}
	if cfg.engine == nil {
		cfg.engine = expression.NewEngine().WithClock(cfg.now)
	}
	logger := log.Logger
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	profile = profile.WithDefaults()
	validation := NewValidationAgent(cfg.engine, profile.Rules)
	if err := validation.CompileRules(); err != nil {
		return nil, fmt.Errorf("invalid hygiene profile: %w", err)
	}

	return &Orchestrator{
		profile:    profile,
		missing:    NewMissingFieldsAgent(),
		validation: validation,
		dedupe:     NewDeduplicationAgent(profile.Dedupe.Threshold, cfg.workers),
		staleness:  NewStalenessAgent(cfg.now),
		normalize:  NewNormalizationAgent(),
		enrich:     NewEnrichmentAgent(),
		insights:   NewInsightsAgent(cfg.now, profile.StaleDays, profile.UntouchedDays),
		alerts:     NewAlertAgent(cfg.sink, cfg.publisher, profile.Alert, cfg.now),
		providers:  append(ProvidersFromProfile(profile.Enrichment), cfg.providers...),
		publisher:  cfg.publisher,
		logger:     logger.With().Str("component", constants.AgentOrchestrator).Logger(),
		workers:    cfg.workers,
		now:        cfg.now,
	}, nil
}

// Profile returns the effective profile, defaults applied
func (o *Orchestrator) Profile() models.Profile {
	return o.profile
}

// Check runs the per-record agents on one record without raising alerts
func (o *Orchestrator) Check(ctx context.Context, record models.Record) models.RecordCheck {
	return o.checkRecord(ctx, 0, record)
}

// Run executes the full pipeline. Input records are not modified; the
// report carries the processed copies in input order.
func (o *Orchestrator) Run(ctx context.Context, source string, records []models.Record) (*models.Report, error) {
	started := o.now()
	runID := utils.GenerateID()
	logger := o.logger.With().Str("run_id", runID).Str("source", source).Logger()
	logger.Info().Int("records", len(records)).Msg("🧹 Hygiene run started")

	checks := make([]models.RecordCheck, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			checks[i] = o.checkRecord(gctx, i, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	processed := make([]models.Record, len(checks))
	alerts := make([]models.Alert, 0)
	for i := range checks {
		processed[i] = checks[i].Record
		checks[i].Record = nil

		recipient := o.alerts.RecipientFor(records[i])
		raise := func(kind, message string) {
			alert, err := o.alerts.Send(ctx, recipient, kind, message, i, records[i])
			if err != nil {
				logger.Warn().Err(err).Int("record", i).Msg("⚠️ Alert delivery failed")
			}
			alerts = append(alerts, alert)
		}

		c := checks[i]
		if len(c.MissingFields) > 0 {
			raise(constants.FindingMissing, fmt.Sprintf("Record %d missing fields: %v", i, c.MissingFields))
		}
		if len(c.ValidationErrors) > 0 {
			raise(constants.FindingInvalid, fmt.Sprintf("Record %d validation errors: %v", i, c.ValidationErrors))
		}
		if c.Stale {
			raise(constants.FindingStale, fmt.Sprintf("Record %d is stale", i))
		}
	}

	duplicates, err := o.dedupe.FindDuplicates(ctx, processed, o.profile.Dedupe.KeyField)
	if err != nil {
		return nil, err
	}
	groups := o.dedupe.Merge(processed, duplicates)
	insights := o.insights.Generate(processed, duplicates)

	report := &models.Report{
		ID:          runID,
		Source:      source,
		StartedAt:   started,
		FinishedAt:  o.now(),
		RecordCount: len(records),
		HealthScore: HealthScore(insights, o.profile.Weights),
		Insights:    insights,
		Duplicates:  duplicates,
		Groups:      groups,
		Checks:      checks,
		Alerts:      alerts,
		Records:     processed,
	}

	if o.publisher != nil {
		if err := o.publisher.Publish(ctx, events.RunCompleted, report); err != nil {
			logger.Warn().Err(err).Msg("⚠️ run.completed handler failed")
		}
	}

	logger.Info().
		Int("health_score", report.HealthScore).
		Int("duplicates", len(duplicates)).
		Int("alerts", len(alerts)).
		Dur("took", report.FinishedAt.Sub(started)).
		Msg("✅ Hygiene run completed")
	return report, nil
}

// checkRecord runs missing, validation and staleness checks on the original
// record, then normalizes and enriches a copy.
func (o *Orchestrator) checkRecord(ctx context.Context, index int, record models.Record) models.RecordCheck {
	check := models.RecordCheck{
		Index:            index,
		MissingFields:    o.missing.Check(record, o.profile.RequiredFields),
		ValidationErrors: o.validation.Validate(record),
		Stale:            o.staleness.DetectStale(record, o.profile.StaleDays),
	}

	normalized, changed := o.normalize.Normalize(record)
	normalized[constants.FieldNormalized] = true
	check.Normalized = changed

	enriched := normalized
	for _, provider := range o.providers {
		values, err := provider.Lookup(ctx, enriched)
		if err != nil {
			o.logger.Warn().Err(err).Str("provider", provider.Name()).Int("record", index).Msg("⚠️ Enrichment lookup failed")
			continue
		}
		if len(values) == 0 {
			continue
		}
		var filled []string
		enriched, filled = o.enrich.Enrich(enriched, values)
		check.EnrichedFields = append(check.EnrichedFields, filled...)
	}

	check.Record = enriched
	return check
}
