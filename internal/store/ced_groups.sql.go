// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const cedGroupColumns = `id, name, description, leader_name, leader_phone, leader_image_url, meeting_day,
group_song, mission, vision, image_url, created_at, updated_at`

func scanCedGroup(row rowScanner) (CedGroup, error) {
	var g CedGroup
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.LeaderName, &g.LeaderPhone,
		&g.LeaderImageURL, &g.MeetingDay, &g.GroupSong, &g.Mission, &g.Vision,
		&g.ImageURL, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

const createCedGroup = `INSERT INTO ced_groups (name, description, leader_name, leader_phone, leader_image_url,
meeting_day, group_song, mission, vision, image_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + cedGroupColumns

func (q *Queries) CreateCedGroup(ctx context.Context, g CedGroup) (CedGroup, error) {
	row := q.queryRow(ctx, createCedGroup, g.Name, g.Description, g.LeaderName, g.LeaderPhone,
		g.LeaderImageURL, g.MeetingDay, g.GroupSong, g.Mission, g.Vision, g.ImageURL,
		g.CreatedAt, g.UpdatedAt)
	return scanCedGroup(row)
}

const getCedGroup = `SELECT ` + cedGroupColumns + ` FROM ced_groups WHERE id = ?`

func (q *Queries) GetCedGroup(ctx context.Context, id int64) (CedGroup, error) {
	g, err := scanCedGroup(q.queryRow(ctx, getCedGroup, id))
	return g, notFound(err)
}

const listCedGroups = `SELECT ` + cedGroupColumns + ` FROM ced_groups`

func (q *Queries) ListCedGroups(ctx context.Context, order ListOrder) ([]CedGroup, error) {
	rows, err := q.query(ctx, listCedGroups+orderClause(order, "name", "created_at", "meeting_day"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCedGroup)
}

const updateCedGroup = `UPDATE ced_groups
SET name = ?, description = ?, leader_name = ?, leader_phone = ?, leader_image_url = ?,
    meeting_day = ?, group_song = ?, mission = ?, vision = ?, image_url = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateCedGroup(ctx context.Context, g CedGroup) error {
	_, err := q.exec(ctx, updateCedGroup, g.Name, g.Description, g.LeaderName, g.LeaderPhone,
		g.LeaderImageURL, g.MeetingDay, g.GroupSong, g.Mission, g.Vision, g.ImageURL,
		g.UpdatedAt, g.ID)
	return err
}

const deleteCedGroup = `DELETE FROM ced_groups WHERE id = ?`

func (q *Queries) DeleteCedGroup(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, deleteCedGroup, id)
	return err
}

const countCedGroups = `SELECT COUNT(*) FROM ced_groups`

func (q *Queries) CountCedGroups(ctx context.Context) (int64, error) {
	return q.count(ctx, countCedGroups)
}
