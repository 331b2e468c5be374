// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"time"
)

// Core job names.
const (
	JobExpireNotifications = "expire-notifications"
	JobPruneActivity       = "prune-activity-log"
	JobPruneLoginAttempts  = "prune-login-attempts"
	JobReloadGeoIP         = "reload-geoip"
)

// NotificationExpirer deactivates notifications whose expiry has passed.
type NotificationExpirer interface {
	DeactivateExpiredNotifications(ctx context.Context, now time.Time) (int64, error)
}

// ActivityPruner deletes activity log entries older than a retention period.
type ActivityPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// LoginPruner drops stale login-attempt records.
type LoginPruner interface {
	Prune() int
}

// Reloader re-reads a file-backed resource such as the GeoIP database.
type Reloader interface {
	Reload() error
}

// CoreJobs holds the collaborators of the built-in housekeeping jobs.
type CoreJobs struct {
	Notifications NotificationExpirer
	// Expired runs after notifications were deactivated, e.g. to drop the bell cache.
	Expired   func(ctx context.Context)
	Activity  ActivityPruner
	Retention time.Duration
	Logins    LoginPruner
	GeoIP     Reloader
}

// RegisterCore adds every core job whose collaborator is set.
func (s *Scheduler) RegisterCore(c CoreJobs) error {
	if c.Notifications != nil {
		err := s.Add(Job{
			Name:        JobExpireNotifications,
			Description: "Deactivate expired notifications",
			Schedule:    "*/15 * * * *",
			Run: func(ctx context.Context) error {
				n, err := c.Notifications.DeactivateExpiredNotifications(ctx, time.Now().UTC())
				if err != nil {
					return err
				}
				if n > 0 {
					s.logger.Info("expired notifications deactivated", "count", n)
					if c.Expired != nil {
						c.Expired(ctx)
					}
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
	}

	if c.Activity != nil && c.Retention > 0 {
		err := s.Add(Job{
			Name:        JobPruneActivity,
			Description: "Delete old activity log entries",
			Schedule:    "30 3 * * *",
			Run: func(ctx context.Context) error {
				n, err := c.Activity.Prune(ctx, c.Retention)
				if err != nil {
					return err
				}
				if n > 0 {
					s.logger.Info("activity log pruned", "deleted", n, "retention", c.Retention.String())
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
	}

	if c.GeoIP != nil {
		err := s.Add(Job{
			Name:        JobReloadGeoIP,
			Description: "Pick up a refreshed GeoIP database",
			Schedule:    "15 4 * * 0",
			Run: func(context.Context) error {
				return c.GeoIP.Reload()
			},
		})
		if err != nil {
			return err
		}
	}

	if c.Logins != nil {
		return s.Add(Job{
			Name:        JobPruneLoginAttempts,
			Description: "Forget stale failed-login records",
			Schedule:    "*/10 * * * *",
			Run: func(context.Context) error {
				if n := c.Logins.Prune(); n > 0 {
					s.logger.Debug("login attempts pruned", "count", n)
				}
				return nil
			},
		})
	}
	return nil
}
