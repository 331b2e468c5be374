// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/session"
	"github.com/olegiv/churchcms/internal/store"
)

// UserStore is the subset of store.Queries the users page needs.
type UserStore interface {
	ListUsers(ctx context.Context, order store.ListOrder) ([]store.User, error)
	GetUserByID(ctx context.Context, id int64) (store.User, error)
	UpdateUserRole(ctx context.Context, arg store.UpdateUserRoleParams) error
	DeleteUser(ctx context.Context, id int64) error
}

// UsersHandler serves member administration.
type UsersHandler struct {
	users    UserStore
	renderer *render.Renderer
	effects  Effects
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(users UserStore, renderer *render.Renderer, effects Effects) *UsersHandler {
	return &UsersHandler{users: users, renderer: renderer, effects: effects}
}

// UsersListData holds the data of the admin users page.
type UsersListData struct {
	Users      []store.User
	State      listview.State
	Roles      []CategoryLink
	AllRoles   []string
	Total      int
	CurrentID  int64
	FilterRole string
}

// List handles GET /admin/users. The role filter uses the "role" query key.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := listview.FromQuery(q)
	st.Category = strings.TrimSpace(q.Get("role"))

	data := render.TemplateData{Title: "Members"}
	users, err := h.users.ListUsers(r.Context(), store.ListOrder{Column: "created_at"})
	if err != nil {
		slog.Error("failed to list users", "error", err)
		data.Flash = "Failed to load members."
		data.FlashType = render.FlashError
	}

	filtered := listview.Filter(users, st,
		func(u store.User) []string { return []string{u.Name, u.Email} },
		func(u store.User) string { return u.Role },
	)

	roles := []CategoryLink{{Label: "All", URL: roleURL(st, ""), Active: st.Category == ""}}
	for _, role := range model.Roles {
		roles = append(roles, CategoryLink{Label: role, URL: roleURL(st, role), Active: st.Category == role})
	}

	var currentID int64
	if s := session.FromContext(r.Context()); s != nil {
		currentID = s.User.ID
	}

	data.Data = UsersListData{
		Users:      filtered,
		State:      st,
		Roles:      roles,
		AllRoles:   model.Roles,
		Total:      len(users),
		CurrentID:  currentID,
		FilterRole: st.Category,
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/users", data)
}

// roleURL keeps the search and swaps the role filter. Roles use their own
// query key so the users page does not collide with content categories.
func roleURL(st listview.State, role string) string {
	v := st.WithCategory("").Query()
	if role != "" {
		v.Set("role", role)
	}
	if enc := v.Encode(); enc != "" {
		return redirectAdminUsers + "?" + enc
	}
	return redirectAdminUsers
}

// UpdateRole handles POST /admin/users/{id}/role.
func (h *UsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminUsers, "User not found")
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}
	role := r.PostForm.Get("role")
	if !model.IsValidRole(role) {
		flashError(w, r, h.renderer, redirectAdminUsers, "Invalid role")
		return
	}

	userID, ip := actor(r)
	if id == userID {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot change your own role")
		return
	}

	target, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminUsers, "User", id, func(id int64) (store.User, error) {
		return h.users.GetUserByID(r.Context(), id)
	})
	if !ok {
		return
	}

	err := h.users.UpdateUserRole(r.Context(), store.UpdateUserRoleParams{ID: id, Role: role, UpdatedAt: time.Now().UTC()})
	if errors.Is(err, store.ErrNotFound) {
		flashError(w, r, h.renderer, redirectAdminUsers, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to update user role", "error", err, "user_id", id)
		flashError(w, r, h.renderer, redirectAdminUsers, "Failed to update role")
		return
	}

	slog.Info("user role changed", "user_id", id, "role", role, "changed_by", userID)
	if h.effects.Activity != nil {
		h.effects.Activity.LogUser(r.Context(), "user role changed", id, userID, ip,
			map[string]any{"email": target.Email, "from": target.Role, "to": role})
	}
	if h.effects.Stats != nil {
		h.effects.Stats.Invalidate(r.Context())
	}
	flashSuccess(w, r, h.renderer, redirectAdminUsers, target.Email+" is now "+role)
}

// Delete handles DELETE /admin/users/{id} and its POST fallback.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.renderer, redirectAdminUsers, "User not found")
		return
	}
	userID, ip := actor(r)
	if id == userID {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot delete your own account")
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		slog.Error("failed to delete user", "error", err, "user_id", id)
		flashError(w, r, h.renderer, redirectAdminUsers, "Failed to delete user")
		return
	}

	slog.Info("user deleted", "user_id", id, "deleted_by", userID)
	if h.effects.Activity != nil {
		h.effects.Activity.LogUser(r.Context(), "user deleted", id, userID, ip, nil)
	}
	if h.effects.Stats != nil {
		h.effects.Stats.Invalidate(r.Context())
	}
	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User deleted successfully")
}
