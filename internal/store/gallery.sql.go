// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const galleryColumns = `id, title, image_url, category, event_date, comment, created_at, updated_at`

func scanGalleryImage(row rowScanner) (GalleryImage, error) {
	var g GalleryImage
	err := row.Scan(&g.ID, &g.Title, &g.ImageURL, &g.Category, &g.EventDate,
		&g.Comment, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

const createGalleryImage = `INSERT INTO gallery (title, image_url, category, event_date, comment, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + galleryColumns

func (q *Queries) CreateGalleryImage(ctx context.Context, g GalleryImage) (GalleryImage, error) {
	row := q.queryRow(ctx, createGalleryImage, g.Title, g.ImageURL, g.Category, g.EventDate,
		g.Comment, g.CreatedAt, g.UpdatedAt)
	return scanGalleryImage(row)
}

const getGalleryImage = `SELECT ` + galleryColumns + ` FROM gallery WHERE id = ?`

func (q *Queries) GetGalleryImage(ctx context.Context, id int64) (GalleryImage, error) {
	g, err := scanGalleryImage(q.queryRow(ctx, getGalleryImage, id))
	return g, notFound(err)
}

const listGalleryImages = `SELECT ` + galleryColumns + ` FROM gallery`

func (q *Queries) ListGalleryImages(ctx context.Context, order ListOrder) ([]GalleryImage, error) {
	rows, err := q.query(ctx, listGalleryImages+orderClause(order, "created_at", "event_date", "title", "category"))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanGalleryImage)
}

const updateGalleryImage = `UPDATE gallery
SET title = ?, image_url = ?, category = ?, event_date = ?, comment = ?, updated_at = ?
WHERE id = ?`

func (q *Queries) UpdateGalleryImage(ctx context.Context, g GalleryImage) error {
	_, err := q.exec(ctx, updateGalleryImage, g.Title, g.ImageURL, g.Category, g.EventDate,
		g.Comment, g.UpdatedAt, g.ID)
	return err
}

const deleteGalleryImage = `DELETE FROM gallery WHERE id = ?`

func (q *Queries) DeleteGalleryImage(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, deleteGalleryImage, id)
	return err
}

const countGalleryImages = `SELECT COUNT(*) FROM gallery`

func (q *Queries) CountGalleryImages(ctx context.Context) (int64, error) {
	return q.count(ctx, countGalleryImages)
}
