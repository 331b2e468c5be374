// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const activityColumns = `id, level, category, message, user_id, ip_address, metadata, created_at`

func scanActivity(row rowScanner) (Activity, error) {
	var a Activity
	err := row.Scan(&a.ID, &a.Level, &a.Category, &a.Message, &a.UserID, &a.IPAddress, &a.Metadata, &a.CreatedAt)
	return a, err
}

type CreateActivityParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress string
	Metadata  string
	CreatedAt time.Time
}

const createActivity = `INSERT INTO activity_log (level, category, message, user_id, ip_address, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateActivity(ctx context.Context, arg CreateActivityParams) error {
	_, err := q.exec(ctx, createActivity, arg.Level, arg.Category, arg.Message, arg.UserID,
		arg.IPAddress, arg.Metadata, arg.CreatedAt)
	return err
}

// ActivityFilter narrows activity queries. Empty fields match everything.
type ActivityFilter struct {
	Level    string
	Category string
}

const activityWhere = ` WHERE (? = '' OR level = ?) AND (? = '' OR category = ?)`

const listActivity = `SELECT ` + activityColumns + ` FROM activity_log` + activityWhere + `
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

func (q *Queries) ListActivity(ctx context.Context, f ActivityFilter, limit, offset int64) ([]Activity, error) {
	rows, err := q.query(ctx, listActivity, f.Level, f.Level, f.Category, f.Category, limit, offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanActivity)
}

const countActivity = `SELECT COUNT(*) FROM activity_log` + activityWhere

func (q *Queries) CountActivity(ctx context.Context, f ActivityFilter) (int64, error) {
	return q.count(ctx, countActivity, f.Level, f.Level, f.Category, f.Category)
}

const deleteActivityBefore = `DELETE FROM activity_log WHERE created_at < ?`

// DeleteActivityBefore removes entries older than cutoff and reports how many were removed.
func (q *Queries) DeleteActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.exec(ctx, deleteActivityBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
