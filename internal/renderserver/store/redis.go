package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

const (
	jobKeyPrefix      = "pdfjob:"
	artifactKeyPrefix = "pdfartifact:"
)

// RedisStore keeps job records as TTL'd JSON and artifacts as byte blobs.
type RedisStore struct {
	client *redis.Client
	logger *logger_i.Logger
}

// GetRedisStore connects and pings; returns nil when Redis is offline so
// the caller can fall back to the in-memory store. The client is closed
// when ctx is done.
func GetRedisStore(ctx context.Context) *RedisStore {
	logger := logger_i.NewLogger("RedisStore")

	client := redis.NewClient(&redis.Options{
		Addr:                  config.RedisAddress(),
		Password:              config.RedisPassword,
		DB:                    config.RedisJobStore,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Redis is offline", "err", err)
		return nil
	}

	s := &RedisStore{client: client, logger: logger}
	go func() {
		<-ctx.Done()
		logger.Info("Closing Redis store")
		if err := client.Close(); err != nil {
			logger.Error("Error closing redis client", "err", err)
		}
	}()
	logger.Info("Redis store initialized", "addr", config.RedisAddress())
	return s
}

// NewTestStore wires an externally managed client (miniredis in tests).
func NewTestStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger_i.NewLogger("RedisStore"),
	}
}

func (s *RedisStore) SaveJob(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, jobKeyPrefix+rec.ID, data, config.RedisJobStoreTTL).Err()
}

func (s *RedisStore) GetJob(ctx context.Context, jobID string) (Record, bool) {
	var rec Record
	val, err := s.client.Get(ctx, jobKeyPrefix+jobID).Result()
	if errors.Is(err, redis.Nil) {
		return rec, false
	}
	if err != nil {
		s.logger.Error("Failed to read job", "jobId", jobID, "err", err)
		return rec, false
	}
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		s.logger.Error("Corrupt job record", "jobId", jobID, "err", err)
		return rec, false
	}
	return rec, true
}

func (s *RedisStore) DeleteJob(ctx context.Context, jobID string) {
	if err := s.client.Del(ctx, jobKeyPrefix+jobID, artifactKeyPrefix+jobID).Err(); err != nil {
		s.logger.Error("Failed to delete job", "jobId", jobID, "err", err)
	}
}

func (s *RedisStore) PutArtifact(ctx context.Context, jobID string, data []byte) error {
	return s.client.Set(ctx, artifactKeyPrefix+jobID, data, config.RedisJobStoreTTL).Err()
}

func (s *RedisStore) GetArtifact(ctx context.Context, jobID string) ([]byte, bool) {
	data, err := s.client.Get(ctx, artifactKeyPrefix+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Error("Failed to read artifact", "jobId", jobID, "err", err)
		return nil, false
	}
	return data, true
}
