// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and above into
// the activity log table so administrators can review problems in the dashboard.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/store"
)

// Attribute keys with special meaning for the activity log.
const (
	AttrCategory = "category"
	AttrUserID   = "user_id"
	AttrIP       = "ip"
)

// ActivityLogHandler wraps another handler and also persists records at or
// above its level into the activity log.
type ActivityLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
}

// NewActivityLogHandler wraps inner and persists WARN and above.
func NewActivityLogHandler(inner slog.Handler, queries *store.Queries) *ActivityLogHandler {
	return NewActivityLogHandlerWithLevel(inner, queries, slog.LevelWarn)
}

// NewActivityLogHandlerWithLevel wraps inner with a custom persistence threshold.
func NewActivityLogHandlerWithLevel(inner slog.Handler, queries *store.Queries, level slog.Level) *ActivityLogHandler {
	return &ActivityLogHandler{inner: inner, queries: queries, level: level}
}

// Enabled implements slog.Handler.
func (h *ActivityLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ActivityLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.persist(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *ActivityLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &ActivityLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level, attrs: merged}
}

// WithGroup implements slog.Handler.
func (h *ActivityLogHandler) WithGroup(name string) slog.Handler {
	return &ActivityLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level, attrs: h.attrs}
}

// persist writes r with a background context so a cancelled request still gets logged.
func (h *ActivityLogHandler) persist(r slog.Record) {
	params := store.CreateActivityParams{
		Level:     levelName(r.Level),
		Message:   r.Message,
		CreatedAt: r.Time.UTC(),
	}
	if params.CreatedAt.IsZero() {
		params.CreatedAt = time.Now().UTC()
	}

	meta := make(map[string]string)
	visit := func(a slog.Attr) bool {
		switch a.Key {
		case AttrCategory:
			params.Category = a.Value.String()
		case AttrUserID:
			if a.Value.Kind() == slog.KindInt64 {
				params.UserID = sql.NullInt64{Int64: a.Value.Int64(), Valid: true}
			}
		case AttrIP:
			params.IPAddress = a.Value.String()
		default:
			meta[a.Key] = a.Value.String()
		}
		return true
	}
	for _, a := range h.attrs {
		visit(a)
	}
	r.Attrs(visit)

	if params.Category == "" {
		params.Category = inferCategory(r.Message)
	}
	params.Metadata = "{}"
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			params.Metadata = string(b)
		}
	}

	_ = h.queries.CreateActivity(context.Background(), params)
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.ActivityLevelError
	case level >= slog.LevelWarn:
		return model.ActivityLevelWarning
	default:
		return model.ActivityLevelInfo
	}
}

// inferCategory guesses a category from message keywords.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "csrf") || strings.Contains(msg, "denied") || strings.Contains(msg, "rate limit"):
		return model.ActivityCategorySecurity
	case strings.Contains(msg, "login") || strings.Contains(msg, "sign") || strings.Contains(msg, "session"):
		return model.ActivityCategoryAuth
	case strings.Contains(msg, "user") || strings.Contains(msg, "role"):
		return model.ActivityCategoryUser
	case strings.Contains(msg, "sermon") || strings.Contains(msg, "event") || strings.Contains(msg, "gallery") ||
		strings.Contains(msg, "choir") || strings.Contains(msg, "group") || strings.Contains(msg, "notification"):
		return model.ActivityCategoryContent
	default:
		return model.ActivityCategorySystem
	}
}
