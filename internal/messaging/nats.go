package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/stan.go"
)

// NATSClient publishes reconciliation audit events to NATS Streaming.
// Publishing is fire-and-forget: a failed publish is logged by the caller and
// never fails the request. With no URL configured the client is disabled and
// Publish becomes a no-op.
type NATSClient struct {
	conn stan.Conn
}

type Config struct {
	URL       string
	ClusterID string
	ClientID  string
}

func NewNATSClient(cfg Config) (*NATSClient, error) {
	if cfg.URL == "" {
		return &NATSClient{}, nil
	}

	conn, err := stan.Connect(cfg.ClusterID, cfg.ClientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS Streaming: %w", err)
	}

	slog.Info("Connected to NATS Streaming", "url", cfg.URL, "cluster", cfg.ClusterID)
	return &NATSClient{conn: conn}, nil
}

func (nc *NATSClient) Publish(subject string, data interface{}) error {
	if nc.conn == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := nc.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}

	return nil
}

func (nc *NATSClient) Close() error {
	if nc.conn != nil {
		return nc.conn.Close()
	}
	return nil
}
