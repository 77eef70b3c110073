// Package db provides database connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"time"

	"codemasters_backend/platform/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a MongoDB client and verifies it with a ping before
// returning. Both steps share the configured connect timeout.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	timeout := cfg.GetMongoConnectTimeout()
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.GetMongoURI()).
		SetServerSelectionTimeout(timeout).
		SetMaxPoolSize(25).
		SetMaxConnIdleTime(30 * time.Minute).
		SetAppName("codemasters-backend")

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// Pinger reports MongoDB reachability for health checks.
type Pinger struct {
	client *mongo.Client
}

// NewPinger wraps client; a nil client reports as disabled.
func NewPinger(client *mongo.Client) *Pinger {
	return &Pinger{client: client}
}

// Enabled reports whether a client is configured.
func (p *Pinger) Enabled() bool {
	return p != nil && p.client != nil
}

// Ping checks the primary with a short deadline.
func (p *Pinger) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.client.Ping(pingCtx, readpref.Primary())
}
