// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the application services shared by the handlers:
// the activity log, the dashboard aggregator, notification fan-out and
// image uploads.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/session"
	"github.com/olegiv/churchcms/internal/store"
)

// ActivityStore is the subset of store.Queries the activity log needs.
type ActivityStore interface {
	CreateActivity(ctx context.Context, arg store.CreateActivityParams) error
	ListActivity(ctx context.Context, f store.ActivityFilter, limit, offset int64) ([]store.Activity, error)
	CountActivity(ctx context.Context, f store.ActivityFilter) (int64, error)
	DeleteActivityBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CountryLocator resolves an IP to a country code.
type CountryLocator interface {
	Country(ip string) string
}

// ActivityService records audit entries.
type ActivityService struct {
	store   ActivityStore
	locator CountryLocator
	now     func() time.Time
}

// NewActivityService creates a new ActivityService.
func NewActivityService(st ActivityStore) *ActivityService {
	return &ActivityService{store: st, now: time.Now}
}

// WithLocator adds a "country" to the metadata of entries that carry an IP.
func (s *ActivityService) WithLocator(l CountryLocator) *ActivityService {
	s.locator = l
	return s
}

// Log creates an activity log entry. userID 0 means no user.
func (s *ActivityService) Log(ctx context.Context, level, category, message string, userID int64, ip string, metadata map[string]any) error {
	if s.locator != nil && ip != "" {
		if country := s.locator.Country(ip); country != "" {
			if metadata == nil {
				metadata = map[string]any{}
			}
			metadata["country"] = country
		}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	err := s.store.CreateActivity(ctx, store.CreateActivityParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    sql.NullInt64{Int64: userID, Valid: userID != 0},
		IPAddress: ip,
		Metadata:  metadataJSON,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		slog.Error("failed to log activity", "error", err, "message", message)
	}
	return err
}

// LogContent records an admin create, update or delete.
func (s *ActivityService) LogContent(ctx context.Context, action, kind string, id, userID int64, ip string) {
	_ = s.Log(ctx, model.ActivityLevelInfo, model.ActivityCategoryContent,
		kind+" "+action, userID, ip, map[string]any{"id": id, "kind": kind, "action": action})
}

// LogUser records a change to a user account made by an admin.
func (s *ActivityService) LogUser(ctx context.Context, message string, targetID, userID int64, ip string, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["target_user_id"] = targetID
	_ = s.Log(ctx, model.ActivityLevelInfo, model.ActivityCategoryUser, message, userID, ip, metadata)
}

// SessionChanged is subscribed to the session provider and records sign-ins
// and sign-outs.
func (s *ActivityService) SessionChanged(c session.Change) {
	msg := "user signed in"
	if c.Kind == session.SignedOut {
		msg = "user signed out"
	}
	_ = s.Log(context.Background(), model.ActivityLevelInfo, model.ActivityCategoryAuth, msg,
		c.UserID, c.IP, map[string]any{"email": c.Email})
}

// ActivityPage is one page of the admin activity log.
type ActivityPage struct {
	Entries []store.Activity
	Total   int64
}

// List returns a page of entries matching f, newest first.
func (s *ActivityService) List(ctx context.Context, f store.ActivityFilter, limit, offset int) (ActivityPage, error) {
	total, err := s.store.CountActivity(ctx, f)
	if err != nil {
		return ActivityPage{}, err
	}
	entries, err := s.store.ListActivity(ctx, f, int64(limit), int64(offset))
	if err != nil {
		return ActivityPage{}, err
	}
	return ActivityPage{Entries: entries, Total: total}, nil
}

// Prune deletes entries older than retention.
func (s *ActivityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteActivityBefore(ctx, s.now().UTC().Add(-retention))
}
