// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const eventColumns = `id, title, description, event_date, event_time, location, category, image_url, created_at, updated_at`

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.EventTime,
		&e.Location, &e.Category, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

const createEvent = `INSERT INTO events (title, description, event_date, event_time, location, category, image_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + eventColumns

func (q *Queries) CreateEvent(ctx context.Context, e Event) (Event, error) {
	row := q.queryRow(ctx, createEvent, e.Title, e.Description, e.EventDate, e.EventTime,
		e.Location, e.Category, e.ImageURL, e.CreatedAt, e.UpdatedAt)
	return scanEvent(row)
}

const getEvent = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

func (q *Queries) GetEvent(ctx context.Context, id int64) (Event, error) {
	e, err := scanEvent(q.queryRow(ctx, getEvent, id))
	return e, notFound(err)
}

const listEvents = `SELECT ` + eventColumns + ` FROM events`

func (q *Queries) ListEvents(ctx context.Context, order ListOrder) ([]Event, error) {
	rows, err := q.query(ctx, listEvents+orderClause(order, "event_date", "created_at", "title", "category"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanEvent)
}

// ListUpcomingEvents returns events on or after from (an ISO date), soonest first.
const listUpcomingEvents = `SELECT ` + eventColumns + ` FROM events
WHERE event_date >= ?
ORDER BY event_date ASC, event_time ASC, id ASC
LIMIT ?`

func (q *Queries) ListUpcomingEvents(ctx context.Context, from string, limit int64) ([]Event, error) {
	rows, err := q.query(ctx, listUpcomingEvents, from, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanEvent)
}

const updateEvent = `UPDATE events
SET title = ?, description = ?, event_date = ?, event_time = ?, location = ?, category = ?, image_url = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateEvent(ctx context.Context, e Event) error {
	_, err := q.exec(ctx, updateEvent, e.Title, e.Description, e.EventDate, e.EventTime,
		e.Location, e.Category, e.ImageURL, e.UpdatedAt, e.ID)
	return err
}

const deleteEvent = `DELETE FROM events WHERE id = ?`

func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, deleteEvent, id)
	return err
}

const countEvents = `SELECT COUNT(*) FROM events`

func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	return q.count(ctx, countEvents)
}
