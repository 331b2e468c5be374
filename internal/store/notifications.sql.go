// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const notificationColumns = `id, title, message, type, is_active, created_at, expires_at`

func scanNotification(row rowScanner) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.IsActive, &n.CreatedAt, &n.ExpiresAt)
	return n, err
}

const createNotification = `INSERT INTO notifications (title, message, type, is_active, created_at, expires_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + notificationColumns

func (q *Queries) CreateNotification(ctx context.Context, n Notification) (Notification, error) {
	row := q.queryRow(ctx, createNotification, n.Title, n.Message, n.Type, n.IsActive, n.CreatedAt, n.ExpiresAt)
	return scanNotification(row)
}

const getNotification = `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`

func (q *Queries) GetNotification(ctx context.Context, id int64) (Notification, error) {
	n, err := scanNotification(q.queryRow(ctx, getNotification, id))
	return n, notFound(err)
}

const listNotifications = `SELECT ` + notificationColumns + ` FROM notifications`

func (q *Queries) ListNotifications(ctx context.Context, order ListOrder) ([]Notification, error) {
	rows, err := q.query(ctx, listNotifications+orderClause(order, "created_at", "expires_at", "title", "type"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNotification)
}

// ListActiveNotifications returns active rows that have not expired at now, newest first.
const listActiveNotifications = `SELECT ` + notificationColumns + ` FROM notifications
WHERE is_active = ? AND (expires_at IS NULL OR expires_at > ?)
ORDER BY created_at DESC, id DESC
LIMIT ?`

func (q *Queries) ListActiveNotifications(ctx context.Context, now time.Time, limit int64) ([]Notification, error) {
	rows, err := q.query(ctx, listActiveNotifications, true, now, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNotification)
}

const updateNotification = `UPDATE notifications
SET title = ?, message = ?, type = ?, is_active = ?, expires_at = ?
WHERE id = ?`

func (q *Queries) UpdateNotification(ctx context.Context, n Notification) error {
	_, err := q.exec(ctx, updateNotification, n.Title, n.Message, n.Type, n.IsActive, n.ExpiresAt, n.ID)
	return err
}

const deactivateExpiredNotifications = `UPDATE notifications SET is_active = ?
WHERE is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?`

// DeactivateExpiredNotifications marks expired rows inactive and reports how many changed.
func (q *Queries) DeactivateExpiredNotifications(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.exec(ctx, deactivateExpiredNotifications, false, true, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteNotification = `DELETE FROM notifications WHERE id = ?`

func (q *Queries) DeleteNotification(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, deleteNotification, id)
	return err
}

const countNotifications = `SELECT COUNT(*) FROM notifications`

func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	return q.count(ctx, countNotifications)
}
