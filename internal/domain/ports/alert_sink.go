package ports

import (
	"context"

	"github.com/nexuscrm/hygiene/internal/domain/models"
)

// AlertSink receives alerts raised by the alert agent
type AlertSink interface {
	Deliver(ctx context.Context, alert models.Alert) error
}

// Notifier pushes a delivered alert to a person or system (log, webhook)
type Notifier interface {
	Notify(ctx context.Context, alert models.Alert) error
}
