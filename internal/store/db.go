// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
// It wraps sql.ErrNoRows so either sentinel works with errors.Is.
var ErrNotFound = fmt.Errorf("store: row not found: %w", sql.ErrNoRows)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New returns Queries for a SQLite connection.
func New(db DBTX) *Queries {
	return &Queries{db: db, dialect: DialectSQLite}
}

// NewWithDialect returns Queries that rewrite placeholders for the given dialect.
func NewWithDialect(db DBTX, dialect Dialect) *Queries {
	if dialect == "" {
		dialect = DialectSQLite
	}
	return &Queries{db: db, dialect: dialect}
}

// Queries runs the application's SQL against a DBTX.
type Queries struct {
	db      DBTX
	dialect Dialect
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, dialect: q.dialect}
}

// Dialect reports the SQL dialect of the underlying connection.
func (q *Queries) Dialect() Dialect {
	return q.dialect
}

// ListOrder selects the sort column and direction of a list query.
type ListOrder struct {
	Column    string
	Ascending bool
}

// orderClause renders an ORDER BY clause. Columns outside allowed fall back to
// the first allowed column so user input never reaches the SQL text.
func orderClause(o ListOrder, allowed ...string) string {
	col := allowed[0]
	for _, a := range allowed {
		if a == o.Column {
			col = a
			break
		}
	}
	dir := "DESC"
	if o.Ascending {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", id " + dir
}

func (q *Queries) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.rebind(query), args...)
}

func (q *Queries) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.rebind(query), args...)
}

func (q *Queries) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return q.db.QueryRowContext(ctx, q.rebind(query), args...)
}

func (q *Queries) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	err := q.queryRow(ctx, query, args...).Scan(&n)
	return n, err
}

// rebind rewrites ? placeholders to $n for Postgres.
func (q *Queries) rebind(query string) string {
	if q.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// notFound converts sql.ErrNoRows into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func collect[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer func() { _ = rows.Close() }()
	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
