package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nexuscrm/hygiene/internal/domain/events"
	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/utils"
)

// AlertAgent builds alerts and hands them to a sink
type AlertAgent struct {
	sink      ports.AlertSink
	publisher ports.EventPublisher
	profile   models.AlertProfile
	now       Clock
}

// NewAlertAgent creates an AlertAgent. publisher may be nil.
func NewAlertAgent(sink ports.AlertSink, publisher ports.EventPublisher, profile models.AlertProfile, now Clock) *AlertAgent {
	if now == nil {
		now = time.Now
	}
	if profile.DefaultRecipient == "" {
		profile.DefaultRecipient = constants.DefaultAlertRecipient
	}
	return &AlertAgent{sink: sink, publisher: publisher, profile: profile, now: now}
}

// RecipientFor picks the record owner when routing is on and the owner is
// an email address, otherwise the default recipient.
func (a *AlertAgent) RecipientFor(record models.Record) string {
	if a.profile.RoutesToOwner() {
		owner := strings.TrimSpace(record.GetString(constants.FieldOwner))
		if owner != "" && ValidEmail(owner) {
			return owner
		}
	}
	return a.profile.DefaultRecipient
}

// Send delivers one alert. The returned alert is populated even when the
// sink fails so callers can still report it.
func (a *AlertAgent) Send(ctx context.Context, recipient, kind, message string, index int, record models.Record) (models.Alert, error) {
	alert := models.Alert{
		ID:          utils.GenerateID(),
		Recipient:   recipient,
		Subject:     fmt.Sprintf("CRM hygiene: %s", strings.ReplaceAll(kind, "_", " ")),
		Message:     message,
		Kind:        kind,
		RecordIndex: index,
		RecordID:    record.ID(),
		CreatedAt:   a.now(),
	}

	if a.sink != nil {
		if err := a.sink.Deliver(ctx, alert); err != nil {
			return alert, fmt.Errorf("deliver alert to %s: %w", recipient, err)
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, events.AlertRaised, alert); err != nil {
			return alert, err
		}
	}
	return alert, nil
}
