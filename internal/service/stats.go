// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/churchcms/internal/cache"
	"github.com/olegiv/churchcms/internal/model"
)

// Stats holds the dashboard counters.
type Stats struct {
	Sermons       int64 `json:"sermons"`
	Events        int64 `json:"events"`
	Gallery       int64 `json:"gallery"`
	CedGroups     int64 `json:"ced_groups"`
	Choirs        int64 `json:"choirs"`
	Notifications int64 `json:"notifications"`
	TotalMembers  int64 `json:"total_members"`
	AdminUsers    int64 `json:"admin_users"`

	// Failed names the counters that could not be read and show 0.
	Failed []string `json:"failed,omitempty"`
}

// Partial reports whether any counter failed.
func (s Stats) Partial() bool {
	return len(s.Failed) > 0
}

// Counter is the subset of store.Queries the dashboard needs.
type Counter interface {
	CountSermons(ctx context.Context) (int64, error)
	CountEvents(ctx context.Context) (int64, error)
	CountGalleryImages(ctx context.Context) (int64, error)
	CountCedGroups(ctx context.Context) (int64, error)
	CountChoirs(ctx context.Context) (int64, error)
	CountNotifications(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)
}

const statsCacheKey = "dashboard"

// StatsService aggregates the dashboard counters.
type StatsService struct {
	counter Counter
	cache   *cache.TypedCache[Stats]
}

// NewStatsService creates a stats service. c may be nil to disable caching.
func NewStatsService(counter Counter, c cache.Cache, ttl time.Duration) *StatsService {
	s := &StatsService{counter: counter}
	if c != nil && ttl > 0 {
		s.cache = cache.NewTypedCache[Stats](c, "stats", ttl)
	}
	return s
}

// GetStats runs every count concurrently and waits for all of them. A failed
// count is logged, reads as 0 and is listed in Stats.Failed.
func (s *StatsService) GetStats(ctx context.Context) Stats {
	if s.cache != nil {
		if st, ok := s.cache.Get(ctx, statsCacheKey); ok {
			return st
		}
	}

	var st Stats
	counters := []struct {
		name string
		dst  *int64
		fn   func(context.Context) (int64, error)
	}{
		{"sermons", &st.Sermons, s.counter.CountSermons},
		{"events", &st.Events, s.counter.CountEvents},
		{"gallery", &st.Gallery, s.counter.CountGalleryImages},
		{"ced_groups", &st.CedGroups, s.counter.CountCedGroups},
		{"choirs", &st.Choirs, s.counter.CountChoirs},
		{"notifications", &st.Notifications, s.counter.CountNotifications},
		{"total_members", &st.TotalMembers, s.counter.CountUsers},
		{"admin_users", &st.AdminUsers, func(ctx context.Context) (int64, error) {
			return s.counter.CountUsersByRole(ctx, model.RoleAdmin)
		}},
	}

	failed := make([]bool, len(counters))
	var g errgroup.Group
	for i, c := range counters {
		g.Go(func() error {
			n, err := c.fn(ctx)
			if err != nil {
				slog.Warn("dashboard count failed", "counter", c.name, "error", err)
				failed[i] = true
				return nil
			}
			*c.dst = n
			return nil
		})
	}
	_ = g.Wait()

	for i, c := range counters {
		if failed[i] {
			st.Failed = append(st.Failed, c.name)
		}
	}

	if s.cache != nil && !st.Partial() {
		_ = s.cache.Set(ctx, statsCacheKey, st)
	}
	return st
}

// Invalidate drops the cached counters after a content change.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, statsCacheKey)
	}
}
