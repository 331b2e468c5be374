// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain constants shared by the store, services
// and handlers: roles, activity levels, notification types and the option
// lists offered by admin forms.
package model

// User roles. The users.role column is the only source of truth for access.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Roles lists every assignable role.
var Roles = []string{RoleAdmin, RoleMember}

// IsAdminRole reports whether role grants admin access.
func IsAdminRole(role string) bool {
	return role == RoleAdmin
}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
