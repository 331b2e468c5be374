// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const sermonColumns = `id, title, pastor, youtube_url, duration, category, date_preached, created_at, updated_at`

func scanSermon(row rowScanner) (Sermon, error) {
	var s Sermon
	err := row.Scan(&s.ID, &s.Title, &s.Pastor, &s.YoutubeURL, &s.Duration,
		&s.Category, &s.DatePreached, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const createSermon = `INSERT INTO sermons (title, pastor, youtube_url, duration, category, date_preached, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + sermonColumns

func (q *Queries) CreateSermon(ctx context.Context, s Sermon) (Sermon, error) {
	row := q.queryRow(ctx, createSermon, s.Title, s.Pastor, s.YoutubeURL, s.Duration,
		s.Category, s.DatePreached, s.CreatedAt, s.UpdatedAt)
	return scanSermon(row)
}

const getSermon = `SELECT ` + sermonColumns + ` FROM sermons WHERE id = ?`

func (q *Queries) GetSermon(ctx context.Context, id int64) (Sermon, error) {
	s, err := scanSermon(q.queryRow(ctx, getSermon, id))
	return s, notFound(err)
}

const listSermons = `SELECT ` + sermonColumns + ` FROM sermons`

func (q *Queries) ListSermons(ctx context.Context, order ListOrder) ([]Sermon, error) {
	rows, err := q.query(ctx, listSermons+orderClause(order, "date_preached", "created_at", "title", "pastor"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSermon)
}

const listLatestSermons = `SELECT ` + sermonColumns + ` FROM sermons ORDER BY date_preached DESC, id DESC LIMIT ?`

func (q *Queries) ListLatestSermons(ctx context.Context, limit int64) ([]Sermon, error) {
	rows, err := q.query(ctx, listLatestSermons, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSermon)
}

const updateSermon = `UPDATE sermons
SET title = ?, pastor = ?, youtube_url = ?, duration = ?, category = ?, date_preached = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateSermon(ctx context.Context, s Sermon) error {
	_, err := q.exec(ctx, updateSermon, s.Title, s.Pastor, s.YoutubeURL, s.Duration,
		s.Category, s.DatePreached, s.UpdatedAt, s.ID)
	return err
}

const deleteSermon = `DELETE FROM sermons WHERE id = ?`

func (q *Queries) DeleteSermon(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, deleteSermon, id)
	return err
}

const countSermons = `SELECT COUNT(*) FROM sermons`

func (q *Queries) CountSermons(ctx context.Context) (int64, error) {
	return q.count(ctx, countSermons)
}
