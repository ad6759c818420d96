// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var EmbedMigrations embed.FS

// dir maps a goose dialect to the folder holding its migrations.
func dir(dialect string) (string, error) {
	switch dialect {
	case "postgres":
		return "postgres", nil
	case "sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("no migrations for dialect %q", dialect)
	}
}

func setup(dialect string) (string, error) {
	d, err := dir(dialect)
	if err != nil {
		return "", err
	}

	goose.SetBaseFS(EmbedMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("failed to set dialect: %v", err)
	}

	return d, nil
}

// Up applies every pending migration.
func Up(db *sql.DB, dialect string) error {
	d, err := setup(dialect)
	if err != nil {
		return err
	}
	return goose.Up(db, d)
}

// Down rolls back the latest migration.
func Down(db *sql.DB, dialect string) error {
	d, err := setup(dialect)
	if err != nil {
		return err
	}
	return goose.Down(db, d)
}

// Status logs the state of every migration through goose's logger.
func Status(db *sql.DB, dialect string) error {
	d, err := setup(dialect)
	if err != nil {
		return err
	}
	return goose.Status(db, d)
}
