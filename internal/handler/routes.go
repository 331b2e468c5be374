// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/churchcms/internal/middleware"
	"github.com/olegiv/churchcms/internal/render"
	"github.com/olegiv/churchcms/internal/resource"
)

// Site groups the handlers mounted by Mount.
type Site struct {
	Public   *PublicHandler
	Auth     *AuthHandler
	Admin    *AdminHandler
	Users    *UsersHandler
	Uploads  *UploadsHandler
	Bell     *BellHandler
	Activity *ActivityHandler
	Health   *HealthHandler
	SEO      *SEOHandler

	// Content holds one admin CRUD handler per content type.
	Content []ContentRoutes

	// Optional request protection. Nil entries are skipped.
	CSRF            func(http.Handler) http.Handler
	PublicLimiter   *middleware.RateLimiter
	LoginProtection *middleware.LoginProtection
}

// ContentRoutes is implemented by ContentHandler for every content type.
type ContentRoutes interface {
	BaseURL() string
	Routes(r chi.Router)
}

// NewContentRoutes builds the admin CRUD handlers for every content type.
// notificationTTL is the default lifetime of notifications entered by hand.
func NewContentRoutes(repos Repositories, renderer *render.Renderer, effects Effects, notificationTTL time.Duration) []ContentRoutes {
	return []ContentRoutes{
		NewContentHandler(resource.Sermons(), repos.Sermons, renderer, effects),
		NewContentHandler(resource.Events(), repos.Events, renderer, effects),
		NewContentHandler(resource.Gallery(), repos.Gallery, renderer, effects),
		NewContentHandler(resource.CedGroups(), repos.CedGroups, renderer, effects),
		NewContentHandler(resource.Choirs(), repos.Choirs, renderer, effects),
		NewContentHandler(resource.Notifications(notificationTTL), repos.Notifications, renderer, effects),
	}
}

// Mount registers every site route on r. r must already resolve the
// session (middleware.LoadSession) for the guards to work.
func (s *Site) Mount(r chi.Router) {
	use := func(r chi.Router, mw func(http.Handler) http.Handler) {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Get(RouteHealth, s.Health.Health)
	r.Get(RouteNotifications, s.Bell.Bell)
	if s.SEO != nil {
		r.Get(RouteRobots, s.SEO.Robots)
		r.Get(RouteSitemap, s.SEO.Sitemap)
	}

	// Public site
	r.Get(RouteRoot, s.Public.Home)
	r.Get(RouteSermons, s.Public.Sermons)
	r.Get(RouteSermons+RouteParamID, s.Public.Sermon)
	r.Get(RouteEvents, s.Public.Events)
	r.Get(RouteEvents+RouteParamID, s.Public.Event)
	r.Get(RouteGallery, s.Public.Gallery)
	r.Get(RouteChoirs, s.Public.Choirs)
	r.Get(RouteChoirs+RouteParamID, s.Public.Choir)
	r.Get(RouteDepartments, s.Public.Departments)
	r.Get(RouteDepartments+RouteParamID, s.Public.Department)

	// Authentication
	r.Group(func(r chi.Router) {
		if s.PublicLimiter != nil {
			r.Use(s.PublicLimiter.HTMLMiddleware())
		}
		use(r, s.CSRF)
		r.Get(RouteLogin, s.Auth.LoginForm)
		if s.LoginProtection != nil {
			r.With(s.LoginProtection.Middleware()).Post(RouteLogin, s.Auth.Login)
		} else {
			r.Post(RouteLogin, s.Auth.Login)
		}
		r.Get(RouteSignup, s.Auth.SignupForm)
		r.Post(RouteSignup, s.Auth.Signup)
		r.Post(RouteLogout, s.Auth.Logout)
	})

	r.Route(RouteAdmin, func(r chi.Router) {
		use(r, s.CSRF)

		r.With(middleware.RequireSession).Get(RouteUnauthorized, s.Admin.Unauthorized)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get(RouteRoot, s.Admin.Dashboard)
			for _, c := range s.Content {
				r.Route(strings.TrimPrefix(c.BaseURL(), RouteAdmin), c.Routes)
			}

			r.Get(RouteUsers, s.Users.List)
			r.Post(RouteUsers+RouteParamID+"/role", s.Users.UpdateRole)
			r.Delete(RouteUsers+RouteParamID, s.Users.Delete)
			r.Post(RouteUsers+RouteParamID+RouteSuffixDelete, s.Users.Delete)

			r.Get(RouteActivity, s.Activity.List)
			r.Post(RouteUploads, s.Uploads.Upload)
		})
	})

	r.NotFound(s.Public.NotFound)
}
