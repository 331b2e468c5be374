// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Notification types
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationSuccess = "success"
	NotificationError   = "error"
)

var NotificationTypes = []string{NotificationInfo, NotificationWarning, NotificationSuccess, NotificationError}

// IsValidNotificationType reports whether typ is one of NotificationTypes.
func IsValidNotificationType(typ string) bool {
	for _, t := range NotificationTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// Category options offered by the admin forms and public filters.
var (
	SermonCategories = []string{
		"Sunday Service", "Bible Study", "Youth Service", "Special Service", "Revival", "Conference",
	}
	EventCategories = []string{
		"Worship", "Youth Event", "Conference", "Outreach", "Fellowship", "Prayer", "Special Event",
	}
	GalleryCategories = []string{
		"Worship", "Events", "Youth", "Choir", "Outreach", "Community",
	}
	WeekDays = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
)

// DisplayDateLayout formats ISO dates for people ("March 1, 2025").
const (
	ISODateLayout     = "2006-01-02"
	TimeLayout        = "15:04"
	DisplayDateLayout = "January 2, 2006"
)
