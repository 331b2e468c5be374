// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const choirColumns = `id, name, description, leader_name, leader_phone, leader_image_url, image_url,
youtube_videos, meeting_day, meeting_time, is_active, created_at, updated_at`

func scanChoir(row rowScanner) (Choir, error) {
	var c Choir
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.LeaderName, &c.LeaderPhone,
		&c.LeaderImageURL, &c.ImageURL, &c.YoutubeVideos, &c.MeetingDay, &c.MeetingTime,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createChoir = `INSERT INTO choirs (name, description, leader_name, leader_phone, leader_image_url, image_url,
youtube_videos, meeting_day, meeting_time, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + choirColumns

func (q *Queries) CreateChoir(ctx context.Context, c Choir) (Choir, error) {
	row := q.queryRow(ctx, createChoir, c.Name, c.Description, c.LeaderName, c.LeaderPhone,
		c.LeaderImageURL, c.ImageURL, c.YoutubeVideos, c.MeetingDay, c.MeetingTime,
		c.IsActive, c.CreatedAt, c.UpdatedAt)
	return scanChoir(row)
}

const getChoir = `SELECT ` + choirColumns + ` FROM choirs WHERE id = ?`

func (q *Queries) GetChoir(ctx context.Context, id int64) (Choir, error) {
	c, err := scanChoir(q.queryRow(ctx, getChoir, id))
	return c, notFound(err)
}

const listChoirs = `SELECT ` + choirColumns + ` FROM choirs`

func (q *Queries) ListChoirs(ctx context.Context, order ListOrder) ([]Choir, error) {
	rows, err := q.query(ctx, listChoirs+orderClause(order, "name", "created_at", "meeting_day"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanChoir)
}

const updateChoir = `UPDATE choirs
SET name = ?, description = ?, leader_name = ?, leader_phone = ?, leader_image_url = ?, image_url = ?,
    youtube_videos = ?, meeting_day = ?, meeting_time = ?, is_active = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateChoir(ctx context.Context, c Choir) error {
	_, err := q.exec(ctx, updateChoir, c.Name, c.Description, c.LeaderName, c.LeaderPhone,
		c.LeaderImageURL, c.ImageURL, c.YoutubeVideos, c.MeetingDay, c.MeetingTime,
		c.IsActive, c.UpdatedAt, c.ID)
	return err
}

const deleteChoir = `DELETE FROM choirs WHERE id = ?`

func (q *Queries) DeleteChoir(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, deleteChoir, id)
	return err
}

const countChoirs = `SELECT COUNT(*) FROM choirs`

func (q *Queries) CountChoirs(ctx context.Context) (int64, error) {
	return q.count(ctx, countChoirs)
}
