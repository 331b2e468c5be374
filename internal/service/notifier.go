// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/churchcms/internal/cache"
	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/resource"
	"github.com/olegiv/churchcms/internal/store"
	"github.com/olegiv/churchcms/internal/webhook"
)

// NotificationStore is the subset of store.Queries the notifier needs.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n store.Notification) (store.Notification, error)
	ListActiveNotifications(ctx context.Context, now time.Time, limit int64) ([]store.Notification, error)
}

// EventDispatcher sends announcements to outgoing webhooks.
type EventDispatcher interface {
	DispatchEvent(ctx context.Context, eventType string, data any) error
}

// DefaultBellLimit is how many notifications the header bell shows.
const DefaultBellLimit = 5

var announcementEvents = map[string]string{
	resource.KindSermon:  webhook.EventSermonCreated,
	resource.KindEvent:   webhook.EventEventCreated,
	resource.KindGallery: webhook.EventGalleryCreated,
}

// Notifier turns new content into member notifications and serves the bell.
type Notifier struct {
	store      NotificationStore
	active     *cache.TypedCache[[]store.Notification]
	ttl        time.Duration
	dispatcher EventDispatcher
	now        func() time.Time
}

// NewNotifier creates a notifier. ttl is how long an announcement stays
// active; cacheTTL bounds how stale the bell may be. dispatcher may be nil.
func NewNotifier(st NotificationStore, c cache.Cache, ttl, cacheTTL time.Duration, dispatcher EventDispatcher) *Notifier {
	return &Notifier{
		store:      st,
		active:     cache.NewTypedCache[[]store.Notification](c, "notifications", cacheTTL),
		ttl:        ttl,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Announce records a as an active info notification and forwards it to the
// webhooks. Failures are logged at WARN and returned; callers must not
// treat them as failures of the content write that preceded them.
func (n *Notifier) Announce(ctx context.Context, a *resource.Announcement) (store.Notification, error) {
	if a == nil {
		return store.Notification{}, nil
	}

	now := n.now().UTC()
	row, err := n.store.CreateNotification(ctx, store.Notification{
		Title:     a.Title,
		Message:   a.Message,
		Type:      model.NotificationInfo,
		IsActive:  true,
		CreatedAt: now,
		ExpiresAt: sql.NullTime{Time: now.Add(n.ttl), Valid: n.ttl > 0},
	})
	if err != nil {
		slog.Warn("failed to create notification", "kind", a.Kind, "title", a.Title, "error", err)
		return store.Notification{}, fmt.Errorf("creating notification: %w", err)
	}
	n.Invalidate(ctx)

	if n.dispatcher != nil {
		if eventType, ok := announcementEvents[a.Kind]; ok {
			data := webhook.AnnouncementData{NotificationID: row.ID, Title: a.Title, Message: a.Message, URL: a.URL}
			if err := n.dispatcher.DispatchEvent(ctx, eventType, data); err != nil {
				slog.Warn("failed to dispatch announcement", "kind", a.Kind, "error", err)
			}
		}
	}
	return row, nil
}

// Active returns up to limit active, unexpired notifications, newest first.
func (n *Notifier) Active(ctx context.Context, limit int) ([]store.Notification, error) {
	if limit <= 0 {
		limit = DefaultBellLimit
	}
	rows, err := n.active.GetOrSet(ctx, fmt.Sprintf("active:%d", limit), func(ctx context.Context) ([]store.Notification, error) {
		return n.store.ListActiveNotifications(ctx, n.now().UTC(), int64(limit))
	})
	if err != nil {
		return nil, err
	}

	now := n.now()
	out := rows[:0:0]
	for _, r := range rows {
		if r.ExpiresAt.Valid && !r.ExpiresAt.Time.After(now) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Invalidate drops cached bell contents. It runs after every notification write.
func (n *Notifier) Invalidate(ctx context.Context) {
	if err := n.active.Invalidate(ctx); err != nil {
		slog.Warn("failed to invalidate notification cache", "error", err)
	}
}
