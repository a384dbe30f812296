package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/ils/backend/internal/application/acquisition"
)

// LogNotifier records order notifications in the log instead of sending
// them. It stands in for the SMTP notifier when mail is disabled, so
// development setups can still walk orders through the sent transition.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Dispatch logs the notification and reports every recipient as reached
func (n *LogNotifier) Dispatch(ctx context.Context, notification acquisition.OrderNotification) (acquisition.DispatchResult, error) {
	n.logger.Info("order notification (mail disabled)",
		zap.String("order_reference", notification.Reference),
		zap.String("vendor_id", notification.VendorID.String()),
		zap.String("total_amount", notification.TotalAmount.String()),
		zap.Strings("recipients", notification.Recipients),
	)

	result := acquisition.DispatchResult{}
	for _, recipient := range notification.Recipients {
		result.Recipients = append(result.Recipients, acquisition.RecipientResult{
			Email: recipient,
			Sent:  true,
		})
	}
	return result, nil
}

// Ensure LogNotifier implements OrderNotifier
var _ acquisition.OrderNotifier = (*LogNotifier)(nil)
