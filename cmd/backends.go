// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"

	"github.com/canonical/lms-bridge/internal/backends"
	"github.com/canonical/lms-bridge/internal/backends/lilac"
	"github.com/canonical/lms-bridge/internal/backends/memory"
	"github.com/canonical/lms-bridge/internal/backends/remote"
	"github.com/canonical/lms-bridge/internal/config"
	"github.com/canonical/lms-bridge/internal/db"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/storage"
	"github.com/canonical/lms-bridge/internal/tracing"
)

const (
	tagMemory = "memory"
	tagLilac  = "lilac_v1"
	tagRemote = "remote_v1"
)

func dbConfig(specs *config.EnvSpec) db.Config {
	return db.Config{
		Driver:          specs.DBDriver,
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}
}

// newRegistry registers every platform version tag. Constructors only run
// for the tags the configuration selects, the returned closer releases
// whatever they opened.
func newRegistry(
	specs *config.EnvSpec,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) (*backends.Registry, func()) {
	registry := backends.NewRegistry(logger)
	closers := make([]func(), 0)

	registry.Register(tagMemory, func() (*backends.Set, error) {
		store := memory.NewStore()
		if specs.MemorySeedFile == "" {
			logger.Warnf("backend %s has no courses, set MEMORY_SEED_FILE to load a catalog", tagMemory)
			return store.Set(), nil
		}

		seed, err := memory.LoadSeed(specs.MemorySeedFile)
		if err != nil {
			return nil, err
		}
		if err := store.Load(context.Background(), seed); err != nil {
			return nil, fmt.Errorf("failed to load memory seed: %v", err)
		}
		logger.Infof("Loaded %d courses and %d bundles into backend %s", len(seed.Courses), len(seed.Bundles), tagMemory)

		return store.Set(), nil
	})

	registry.Register(tagLilac, func() (*backends.Set, error) {
		if specs.DSN == "" {
			return nil, fmt.Errorf("backend %s requires DSN", tagLilac)
		}

		dbClient, err := db.NewDBClient(dbConfig(specs), tracer, monitor, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create database client: %v", err)
		}
		closers = append(closers, dbClient.Close)

		s := storage.NewStorage(dbClient, tracer, monitor, logger)
		return lilac.NewBackend(s, tracer, monitor, logger).Set(), nil
	})

	registry.Register(tagRemote, func() (*backends.Set, error) {
		if specs.PlatformURL == "" {
			return nil, fmt.Errorf("backend %s requires PLATFORM_URL", tagRemote)
		}

		cfg := remote.Config{
			BaseURL: specs.PlatformURL,
			Token:   specs.PlatformToken,
			Timeout: specs.PlatformTimeout,
		}
		return remote.NewBackend(cfg, tracer, monitor, logger).Set(), nil
	})

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	return registry, closeAll
}
