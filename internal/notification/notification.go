package notification

import (
	"context"
	"log/slog"
)

// Portal events.
const (
	KindWarrantyMinted        = "warranty_minted"
	KindWarrantyTransferred   = "warranty_transferred"
	KindSaleRecorded          = "sale_recorded"
	KindServiceRequestUpdated = "service_request_updated"
	KindExtensionDecided      = "extension_decided"
	KindCompanyVerified       = "company_verified"
	KindUserStatusChanged     = "user_status_changed"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
		slog.String("body", message.Body),
	)
	return nil
}

// Notify sends message through n, logging instead of failing when delivery
// does not succeed. A nil notifier drops the message.
func Notify(ctx context.Context, n Notifier, logger *slog.Logger, message Message) {
	if n == nil {
		return
	}
	if err := n.Send(ctx, message); err != nil && logger != nil {
		logger.Warn("notification failed", slog.String("kind", message.Kind), slog.Any("error", err))
	}
}
