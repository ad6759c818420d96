// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

type DBClientInterface interface {
	// Statement returns a builder bound to the transaction carried by ctx,
	// or to the pool when there is none.
	Statement(ctx context.Context) sq.StatementBuilderType
	// WithTx runs fn inside a transaction, nested calls join the outer one.
	WithTx(ctx context.Context, fn func(context.Context) error) error
	Dialect() string
	DB() *sql.DB
	Ping(ctx context.Context) error
	Close()
}
