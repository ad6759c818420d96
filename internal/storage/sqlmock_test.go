// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/lms-bridge/internal/db"
	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
	"github.com/canonical/lms-bridge/internal/types"
)

// mockClient binds statements to a sqlmock connection using postgres
// placeholders.
type mockClient struct {
	db *sql.DB
}

func (c *mockClient) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(c.db)
}

func (c *mockClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (c *mockClient) Dialect() string                { return db.DialectPostgres }
func (c *mockClient) DB() *sql.DB                    { return c.db }
func (c *mockClient) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }
func (c *mockClient) Close()                         {}

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	logger := logging.NewNoopLogger()
	return NewStorage(&mockClient{db: conn}, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger), mock
}

func TestGetGroupByNameQuery(t *testing.T) {
	s, mock := newMockStorage(t)

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, type, created_at FROM auth_group WHERE name = $1")).
		WithArgs("staff").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "created_at"}).AddRow(int64(7), "staff", "local", created))

	g, err := s.GetGroupByName(context.Background(), "staff")
	require.NoError(t, err)
	assert.Equal(t, &types.Group{ID: "7", Name: "staff", Type: types.GroupTypeLocal, CreatedAt: created}, g)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGroupByNameNotFound(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT (.+) FROM auth_group").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetGroupByName(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEnrollmentQuery(t *testing.T) {
	tests := []struct {
		name     string
		result   driver.Result
		execErr  error
		expected error
	}{
		{name: "deleted", result: sqlmock.NewResult(0, 1)},
		{name: "missing", result: sqlmock.NewResult(0, 0), expected: ErrNotFound},
		{name: "failure", execErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)

			exp := mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_courseenrollment WHERE course_id = $1 AND user_id = $2")).
				WithArgs("course-v1:X+Y+Z", int64(3))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := s.DeleteEnrollment(context.Background(), 3, "course-v1:X+Y+Z")
			switch {
			case tt.execErr != nil:
				assert.Error(t, err)
			case tt.expected != nil:
				assert.ErrorIs(t, err, tt.expected)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
