// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook posts signed JSON events to the outgoing webhook URLs
// configured for the site.
package webhook

import (
	"time"
)

// Event types
const (
	EventSermonCreated  = "sermon.created"
	EventEventCreated   = "event.created"
	EventGalleryCreated = "gallery.created"
	EventTest           = "webhook.test"
)

// Event is the JSON body of every delivery.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates an event stamped with the current UTC time.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// AnnouncementData carries a published notification.
type AnnouncementData struct {
	NotificationID int64  `json:"notification_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	URL            string `json:"url,omitempty"`
}
