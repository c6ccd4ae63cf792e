// Package nats emits listing lifecycle events (listing.created,
// listing.deleted) as JSON messages for downstream consumers.
package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type Publisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(url string, logger *zap.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	logger.Info("Connected to NATS", zap.String("url", url))
	return &Publisher{conn: conn, logger: logger}, nil
}

// Publish marshals the payload and fires it at the subject. NATS publish
// is fire-and-forget; the context is accepted for interface symmetry.
func (p *Publisher) Publish(_ context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event payload for %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Error("failed to publish event", zap.String("subject", subject), zap.Error(err))
		return err
	}
	p.logger.Debug("event published", zap.String("subject", subject), zap.Int("bytes", len(payload)))
	return nil
}

func (p *Publisher) Close() {
	p.conn.Close()
}
