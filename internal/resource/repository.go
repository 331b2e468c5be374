// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"time"

	"github.com/olegiv/churchcms/internal/store"
)

// tableRepo adapts the per-table store queries to Repository.
type tableRepo[T any] struct {
	list   func(context.Context, store.ListOrder) ([]T, error)
	get    func(context.Context, int64) (T, error)
	create func(context.Context, T) (T, error)
	update func(context.Context, T) error
	del    func(context.Context, int64) error
	count  func(context.Context) (int64, error)

	// prepare stamps id and timestamps before a write. created is the zero
	// time for creates and the stored creation time for updates.
	prepare func(v *T, id int64, created, now time.Time)
	created func(T) time.Time
	now     func() time.Time
}

func (r *tableRepo[T]) List(ctx context.Context, order Order) ([]T, error) {
	return r.list(ctx, order)
}

func (r *tableRepo[T]) Get(ctx context.Context, id int64) (T, error) {
	return r.get(ctx, id)
}

func (r *tableRepo[T]) Create(ctx context.Context, v T) (T, error) {
	now := r.now()
	r.prepare(&v, 0, now, now)
	return r.create(ctx, v)
}

func (r *tableRepo[T]) Update(ctx context.Context, id int64, v T) error {
	existing, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	r.prepare(&v, id, r.created(existing), r.now())
	return r.update(ctx, v)
}

func (r *tableRepo[T]) Delete(ctx context.Context, id int64) error {
	return r.del(ctx, id)
}

func (r *tableRepo[T]) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}

func utcNow() time.Time { return time.Now().UTC() }

// NewSermons returns the sermon repository.
func NewSermons(q *store.Queries) Repository[store.Sermon] {
	return &tableRepo[store.Sermon]{
		list: q.ListSermons, get: q.GetSermon, create: q.CreateSermon,
		update: q.UpdateSermon, del: q.DeleteSermon, count: q.CountSermons,
		prepare: func(v *store.Sermon, id int64, created, now time.Time) {
			v.ID, v.CreatedAt, v.UpdatedAt = id, created, now
		},
		created: func(v store.Sermon) time.Time { return v.CreatedAt },
		now:     utcNow,
	}
}

// NewEvents returns the event repository.
func NewEvents(q *store.Queries) Repository[store.Event] {
	return &tableRepo[store.Event]{
		list: q.ListEvents, get: q.GetEvent, create: q.CreateEvent,
		update: q.UpdateEvent, del: q.DeleteEvent, count: q.CountEvents,
		prepare: func(v *store.Event, id int64, created, now time.Time) {
			v.ID, v.CreatedAt, v.UpdatedAt = id, created, now
		},
		created: func(v store.Event) time.Time { return v.CreatedAt },
		now:     utcNow,
	}
}

// NewGallery returns the gallery repository.
func NewGallery(q *store.Queries) Repository[store.GalleryImage] {
	return &tableRepo[store.GalleryImage]{
		list: q.ListGalleryImages, get: q.GetGalleryImage, create: q.CreateGalleryImage,
		update: q.UpdateGalleryImage, del: q.DeleteGalleryImage, count: q.CountGalleryImages,
		prepare: func(v *store.GalleryImage, id int64, created, now time.Time) {
			v.ID, v.CreatedAt, v.UpdatedAt = id, created, now
		},
		created: func(v store.GalleryImage) time.Time { return v.CreatedAt },
		now:     utcNow,
	}
}

// NewCedGroups returns the department repository.
func NewCedGroups(q *store.Queries) Repository[store.CedGroup] {
	return &tableRepo[store.CedGroup]{
		list: q.ListCedGroups, get: q.GetCedGroup, create: q.CreateCedGroup,
		update: q.UpdateCedGroup, del: q.DeleteCedGroup, count: q.CountCedGroups,
		prepare: func(v *store.CedGroup, id int64, created, now time.Time) {
			v.ID, v.CreatedAt, v.UpdatedAt = id, created, now
		},
		created: func(v store.CedGroup) time.Time { return v.CreatedAt },
		now:     utcNow,
	}
}

// NewChoirs returns the choir repository.
func NewChoirs(q *store.Queries) Repository[store.Choir] {
	return &tableRepo[store.Choir]{
		list: q.ListChoirs, get: q.GetChoir, create: q.CreateChoir,
		update: q.UpdateChoir, del: q.DeleteChoir, count: q.CountChoirs,
		prepare: func(v *store.Choir, id int64, created, now time.Time) {
			v.ID, v.CreatedAt, v.UpdatedAt = id, created, now
			if v.YoutubeVideos == nil {
				v.YoutubeVideos = store.StringList{}
			}
		},
		created: func(v store.Choir) time.Time { return v.CreatedAt },
		now:     utcNow,
	}
}

// NewNotifications returns the notification repository.
func NewNotifications(q *store.Queries) Repository[store.Notification] {
	return &tableRepo[store.Notification]{
		list: q.ListNotifications, get: q.GetNotification, create: q.CreateNotification,
		update: q.UpdateNotification, del: q.DeleteNotification, count: q.CountNotifications,
		prepare: func(v *store.Notification, id int64, created, _ time.Time) {
			v.ID, v.CreatedAt = id, created
		},
		created: func(v store.Notification) time.Time { return v.CreatedAt },
		now:     utcNow,
	}
}
