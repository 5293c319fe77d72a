// Package notify delivers hygiene alerts to logs, webhooks or memory.
package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
)

// LogNotifier writes alerts to a zerolog logger
type LogNotifier struct {
	logger zerolog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alerts").Logger()}
}

// Notify logs the alert
func (n *LogNotifier) Notify(_ context.Context, alert models.Alert) error {
	n.logger.Info().
		Str("alert_id", alert.ID).
		Str("recipient", alert.Recipient).
		Str("kind", alert.Kind).
		Int("record", alert.RecordIndex).
		Msgf("📧 %s: %s", alert.Subject, alert.Message)
	return nil
}

// Fanout hands each alert to every notifier. It is both an AlertSink for
// direct delivery and a Notifier for the outbox worker.
type Fanout struct {
	notifiers []ports.Notifier
}

var (
	_ ports.AlertSink = (*Fanout)(nil)
	_ ports.Notifier  = (*Fanout)(nil)
)

// NewFanout creates a Fanout
func NewFanout(notifiers ...ports.Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

// Notify calls every notifier and joins their errors
func (f *Fanout) Notify(ctx context.Context, alert models.Alert) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Deliver is Notify
func (f *Fanout) Deliver(ctx context.Context, alert models.Alert) error {
	return f.Notify(ctx, alert)
}

// MemorySink keeps delivered alerts in memory
type MemorySink struct {
	mu     sync.Mutex
	alerts []models.Alert
}

var (
	_ ports.AlertSink = (*MemorySink)(nil)
	_ ports.Notifier  = (*MemorySink)(nil)
)

// NewMemorySink creates an empty MemorySink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Deliver records the alert
func (m *MemorySink) Deliver(_ context.Context, alert models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alert)
	return nil
}

// Notify records the alert
func (m *MemorySink) Notify(ctx context.Context, alert models.Alert) error {
	return m.Deliver(ctx, alert)
}

// Alerts returns a copy of what was delivered
func (m *MemorySink) Alerts() []models.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Alert(nil), m.alerts...)
}
