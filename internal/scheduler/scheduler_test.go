// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/store"
	"github.com/olegiv/churchcms/internal/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidateSchedule(t *testing.T) {
	for _, expr := range []string{"*/15 * * * *", "30 3 * * *", "@daily", "@every 1h"} {
		if err := ValidateSchedule(expr); err != nil {
			t.Errorf("ValidateSchedule(%q): %v", expr, err)
		}
	}
	for _, expr := range []string{"", "* * *", "61 * * * *", "every day"} {
		if err := ValidateSchedule(expr); err == nil {
			t.Errorf("ValidateSchedule(%q) should fail", expr)
		}
	}
}

func TestScheduler_AddTriggerJobs(t *testing.T) {
	s := New(testLogger())
	runs := 0
	fail := errors.New("boom")

	if err := s.Add(Job{Name: "count", Schedule: "@hourly", Run: func(context.Context) error { runs++; return nil }}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(Job{Name: "fail", Schedule: "@hourly", Run: func(context.Context) error { return fail }}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(Job{Name: "count", Schedule: "@hourly", Run: func(context.Context) error { return nil }}); err == nil {
		t.Error("duplicate job name should be rejected")
	}

	if err := s.Trigger("count"); err != nil || runs != 1 {
		t.Errorf("Trigger(count) = %v, runs = %d", err, runs)
	}
	if err := s.Trigger("fail"); !errors.Is(err, fail) {
		t.Errorf("Trigger(fail) = %v", err)
	}
	if err := s.Trigger("missing"); err == nil {
		t.Error("Trigger of an unknown job should fail")
	}

	jobs := s.Jobs()
	if len(jobs) != 2 || jobs[0].Name != "count" || jobs[1].Name != "fail" {
		t.Fatalf("Jobs = %+v", jobs)
	}
	if jobs[0].LastRun.IsZero() || jobs[1].LastError != "boom" {
		t.Errorf("run state not recorded: %+v", jobs)
	}

	s.Start()
	s.Stop()
}

type fakePruner struct {
	retention time.Duration
}

func (f *fakePruner) Prune(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return 3, nil
}

type fakeLogins struct{ calls int }

func (f *fakeLogins) Prune() int { f.calls++; return 1 }

func TestRegisterCore_ExpiresNotifications(t *testing.T) {
	_, q := testutil.TestQueries(t)
	ctx := context.Background()
	now := time.Now().UTC()

	expired, err := q.CreateNotification(ctx, store.Notification{Title: "Old", Message: "m", Type: model.NotificationInfo,
		IsActive: true, CreatedAt: now.Add(-48 * time.Hour), ExpiresAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true}})
	if err != nil {
		t.Fatal(err)
	}
	current, err := q.CreateNotification(ctx, store.Notification{Title: "New", Message: "m", Type: model.NotificationInfo,
		IsActive: true, CreatedAt: now, ExpiresAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true}})
	if err != nil {
		t.Fatal(err)
	}

	pruner := &fakePruner{}
	logins := &fakeLogins{}
	invalidated := false
	s := New(testLogger())
	err = s.RegisterCore(CoreJobs{
		Notifications: q,
		Expired:       func(context.Context) { invalidated = true },
		Activity:      pruner,
		Retention:     90 * 24 * time.Hour,
		Logins:        logins,
	})
	if err != nil {
		t.Fatalf("RegisterCore: %v", err)
	}
	if len(s.Jobs()) != 3 {
		t.Fatalf("jobs = %d, want 3", len(s.Jobs()))
	}

	if err := s.Trigger(JobExpireNotifications); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if got, _ := q.GetNotification(ctx, expired.ID); got.IsActive {
		t.Error("expired notification still active")
	}
	if got, _ := q.GetNotification(ctx, current.ID); !got.IsActive {
		t.Error("current notification was deactivated")
	}
	if !invalidated {
		t.Error("Expired hook not called")
	}

	_ = s.Trigger(JobPruneActivity)
	if pruner.retention != 90*24*time.Hour {
		t.Errorf("retention = %v", pruner.retention)
	}
	_ = s.Trigger(JobPruneLoginAttempts)
	if logins.calls != 1 {
		t.Errorf("login prune calls = %d", logins.calls)
	}
}

type fakeReloader struct{ calls int }

func (f *fakeReloader) Reload() error { f.calls++; return nil }

func TestRegisterCore_ReloadsGeoIP(t *testing.T) {
	geo := &fakeReloader{}
	s := New(testLogger())
	if err := s.RegisterCore(CoreJobs{GeoIP: geo}); err != nil {
		t.Fatalf("RegisterCore: %v", err)
	}
	if len(s.Jobs()) != 1 {
		t.Fatalf("jobs = %d, want 1", len(s.Jobs()))
	}
	if err := s.Trigger(JobReloadGeoIP); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if geo.calls != 1 {
		t.Errorf("reload calls = %d, want 1", geo.calls)
	}
}
