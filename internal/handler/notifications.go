// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/service"
	"github.com/olegiv/churchcms/internal/store"
)

// BellData is the data of the header bell fragment.
type BellData struct {
	Items []store.Notification
	Count int
}

// BellHandler serves the header bell.
type BellHandler struct {
	renderer *render.Renderer
	notifier *service.Notifier
}

// NewBellHandler creates a new BellHandler.
func NewBellHandler(renderer *render.Renderer, notifier *service.Notifier) *BellHandler {
	return &BellHandler{renderer: renderer, notifier: notifier}
}

// Bell handles GET /notifications with the active, unexpired notifications.
// A failing read renders an empty bell.
func (h *BellHandler) Bell(w http.ResponseWriter, r *http.Request) {
	items, err := h.notifier.Active(r.Context(), service.DefaultBellLimit)
	if err != nil {
		slog.Error("failed to load notifications", "error", err)
		items = nil
	}
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.RenderFragment(w, "fragments/bell", BellData{Items: items, Count: len(items)}); err != nil {
		logAndInternalError(w, "failed to render bell", "error", err)
	}
}
