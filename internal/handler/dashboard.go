// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/service"
)

// StatCard is one counter tile on the dashboard.
type StatCard struct {
	Label string
	Count int64
	URL   string
}

// DashboardData holds the data of the admin dashboard.
type DashboardData struct {
	Stats  service.Stats
	Cards  []StatCard
	Failed string // comma separated counter names, empty when all loaded
}

// AdminHandler serves the dashboard and the unauthorized page.
type AdminHandler struct {
	renderer *render.Renderer
	stats    *service.StatsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{renderer: renderer, stats: stats}
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	st := h.stats.GetStats(r.Context())

	data := DashboardData{
		Stats: st,
		Cards: []StatCard{
			{"Sermons", st.Sermons, RouteAdmin + RouteSermons},
			{"Events", st.Events, RouteAdmin + RouteEvents},
			{"Gallery", st.Gallery, RouteAdmin + RouteGallery},
			{"Departments", st.CedGroups, RouteAdmin + "/ced-groups"},
			{"Choirs", st.Choirs, RouteAdmin + RouteChoirs},
			{"Notifications", st.Notifications, RouteAdmin + RouteNotifications},
			{"Members", st.TotalMembers, RouteAdmin + RouteUsers},
			{"Admins", st.AdminUsers, RouteAdmin + RouteUsers + "?role=admin"},
		},
	}
	if st.Partial() {
		data.Failed = strings.Join(st.Failed, ", ")
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	})
}

// Unauthorized handles GET /admin/unauthorized for signed-in members.
func (h *AdminHandler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusForbidden, "public/unauthorized", render.TemplateData{
		Title: "Access denied",
	})
}
