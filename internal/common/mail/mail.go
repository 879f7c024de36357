// Package mail defines the outbound mail transport. Delivery itself is an
// external collaborator; the server only needs Send.
package mail

import (
	"context"

	"go.uber.org/zap"
)

// Transport sends a templated message to a recipient.
type Transport interface {
	Send(ctx context.Context, template string, recipient string, data map[string]interface{}) error
}

// Templates used by the verification flow.
const (
	TemplateWelcome     = "welcome"
	TemplateVerifyEmail = "verify-email"
)

// LogTransport writes messages to the log instead of delivering them.
// Default in development; swap for a real transport in production wiring.
type LogTransport struct {
	log  *zap.Logger
	from string
}

func NewLogTransport(log *zap.Logger, from string) *LogTransport {
	return &LogTransport{log: log, from: from}
}

func (t *LogTransport) Send(ctx context.Context, template string, recipient string, data map[string]interface{}) error {
	fields := []zap.Field{
		zap.String("template", template),
		zap.String("from", t.from),
		zap.String("recipient", recipient),
	}
	for k, v := range data {
		fields = append(fields, zap.Any(k, v))
	}
	t.log.Info("mail queued", fields...)
	return nil
}

var _ Transport = (*LogTransport)(nil)
