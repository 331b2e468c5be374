// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the POST fallback for browsers without fetch.
	RouteSuffixDelete = "/delete"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	RouteLogin         = "/login"
	RouteLogout        = "/logout"
	RouteSignup        = "/signup"
	RouteHealth        = "/health"
	RouteNotifications = "/notifications"
	RouteRobots        = "/robots.txt"
	RouteSitemap       = "/sitemap.xml"

	RouteSermons     = "/sermons"
	RouteEvents      = "/events"
	RouteGallery     = "/gallery"
	RouteChoirs      = "/choirs"
	RouteDepartments = "/departments"

	RouteAdmin        = "/admin"
	RouteUsers        = "/users"
	RouteActivity     = "/activity"
	RouteUploads      = "/uploads"
	RouteUnauthorized = "/unauthorized"
	RouteStatic       = "/static"
)

// Redirect targets.
const (
	redirectAdmin      = RouteAdmin
	redirectLogin      = RouteLogin
	redirectAdminUsers = RouteAdmin + RouteUsers
)

// Page sizes.
const (
	activityPerPage = 50
	homeEventLimit  = 3
	homeSermonLimit = 3
)
