package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/ils/backend/internal/application/acquisition"
	"github.com/ils/backend/internal/infrastructure/config"
)

// SMTPNotifier dispatches order notifications to vendor contacts by email.
// Recipients are addressed one by one so a bad address does not sink the
// whole dispatch.
type SMTPNotifier struct {
	cfg    config.MailConfig
	logger *zap.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates a new SMTPNotifier
func NewSMTPNotifier(cfg config.MailConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Dispatch sends the order notification to every recipient and reports the
// per-recipient outcome
func (n *SMTPNotifier) Dispatch(ctx context.Context, notification acquisition.OrderNotification) (acquisition.DispatchResult, error) {
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	subject := fmt.Sprintf("Order %s", notification.Reference)

	body := notification.Message
	if !notification.TotalAmount.IsZero() {
		body = fmt.Sprintf("%s\r\n\r\nOrder total: %s", body, notification.TotalAmount.StringFixed(2))
	}

	result := acquisition.DispatchResult{}
	for _, recipient := range notification.Recipients {
		msg := buildMessage(n.cfg.Sender, recipient, subject, body)
		if err := n.send(addr, auth, n.cfg.Sender, []string{recipient}, msg); err != nil {
			n.logger.Warn("order notification failed",
				zap.String("order_reference", notification.Reference),
				zap.String("recipient", recipient),
				zap.Error(err),
			)
			result.Recipients = append(result.Recipients, acquisition.RecipientResult{
				Email:  recipient,
				Reason: err.Error(),
			})
			continue
		}
		result.Recipients = append(result.Recipients, acquisition.RecipientResult{
			Email: recipient,
			Sent:  true,
		})
	}

	n.logger.Info("order notification dispatched",
		zap.String("order_reference", notification.Reference),
		zap.Int("recipients", len(notification.Recipients)),
		zap.Int("delivered", result.SuccessCount()),
	)
	return result, nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Ensure SMTPNotifier implements OrderNotifier
var _ acquisition.OrderNotifier = (*SMTPNotifier)(nil)
