// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

var _ DBClientInterface = (*DBClient)(nil)

type txKey struct{}

type Config struct {
	Driver          string
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	TracingEnabled  bool
}

type DBClient struct {
	db      *sql.DB
	pool    *pgxpool.Pool
	dialect string
	builder sq.StatementBuilderType

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *DBClient) Statement(ctx context.Context) sq.StatementBuilderType {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return c.builder.RunWith(tx)
	}
	return c.builder.RunWith(c.db)
}

func (c *DBClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	ctx, span := c.tracer.Start(ctx, "db.DBClient.WithTx")
	defer span.End()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			c.logger.Errorf("failed to rollback transaction: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (c *DBClient) Dialect() string {
	return c.dialect
}

func (c *DBClient) DB() *sql.DB {
	return c.db
}

// Ping checks the connection and reports the database availability metric.
func (c *DBClient) Ping(ctx context.Context) error {
	err := c.db.PingContext(ctx)

	available := 1.0
	if err != nil {
		available = 0
	}
	if mErr := c.monitor.SetDependencyAvailability(map[string]string{"component": "database"}, available); mErr != nil {
		c.logger.Debugf("failed to set database availability: %v", mErr)
	}

	return err
}

func (c *DBClient) Close() {
	if err := c.db.Close(); err != nil {
		c.logger.Errorf("failed to close database: %v", err)
	}
	if c.pool != nil {
		c.pool.Close()
	}
}

func newPostgres(cfg Config, c *DBClient) error {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		c.logger.Fatalf("DSN validation failed, shutting down, err: %v", err)
		return fmt.Errorf("invalid DSN: %v", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %v", err)
	}

	c.pool = pool
	c.db = stdlib.OpenDBFromPool(pool)
	c.dialect = DialectPostgres
	c.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	return nil
}

func newSQLite(cfg Config, c *DBClient) error {
	db, err := sql.Open(DriverSQLite, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %v", err)
	}

	// a single connection keeps in-memory databases shared and serializes
	// writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	c.db = db
	c.dialect = DialectSQLite
	c.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

	return nil
}

func NewDBClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*DBClient, error) {
	c := new(DBClient)

	c.tracer = tracer
	c.monitor = monitor
	c.logger = logger

	var err error
	switch cfg.Driver {
	case DriverPostgres, "", "postgres":
		err = newPostgres(cfg, c)
	case DriverSQLite, "sqlite":
		err = newSQLite(cfg, c)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if err != nil {
		return nil, err
	}

	return c, nil
}
