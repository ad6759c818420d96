// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

var ErrSessionNotFound = errors.New("session not found")

var _ SessionStoreInterface = (*RedisSessionStore)(nil)

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSessionStore resolves session cookies against the sessions the
// platform keeps in Redis. Each session is stored under prefix+id as a JSON
// encoded Principal.
type RedisSessionStore struct {
	client redisGetter
	prefix string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *RedisSessionStore) Lookup(ctx context.Context, sessionID string) (*Principal, error) {
	ctx, span := s.tracer.Start(ctx, "authentication.RedisSessionStore.Lookup")
	defer span.End()

	data, err := s.client.Get(ctx, s.prefix+sessionID).Bytes()
	s.reportAvailability(err)
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %v", err)
	}

	p := new(Principal)
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to decode session: %v", err)
	}
	if p.Subject == "" {
		return nil, ErrSessionNotFound
	}
	p.Method = MethodSession

	return p, nil
}

func (s *RedisSessionStore) reportAvailability(err error) {
	available := 1.0
	if err != nil && !errors.Is(err, redis.Nil) {
		available = 0
	}
	if mErr := s.monitor.SetDependencyAvailability(map[string]string{"component": "redis"}, available); mErr != nil {
		s.logger.Debugf("failed to set redis availability: %v", mErr)
	}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisSessionStore(client redisGetter, prefix string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *RedisSessionStore {
	s := new(RedisSessionStore)

	s.client = client
	s.prefix = prefix
	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
