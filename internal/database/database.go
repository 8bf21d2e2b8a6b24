package database

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/fittrack-api/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect attempts to reach MongoDB with a bounded number of retries and a
// short fixed backoff. Callers must not treat an error as fatal: the server
// comes up regardless and switches to the in-memory fallback store.
func Connect(cfg *config.Config) (*mongo.Database, error) {
	var lastErr error

	for attempt := 1; attempt <= cfg.ConnectRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err == nil {
			err = client.Ping(ctx, nil)
		}
		cancel()

		if err == nil {
			logrus.WithField("database", cfg.MongoDBName).Info("Connected to MongoDB")
			return client.Database(cfg.MongoDBName), nil
		}

		lastErr = err
		logrus.WithError(err).Warnf("MongoDB connection attempt %d/%d failed", attempt, cfg.ConnectRetries)
		if attempt < cfg.ConnectRetries {
			time.Sleep(cfg.ConnectBackoff)
		}
	}

	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %v", cfg.ConnectRetries, lastErr)
}
