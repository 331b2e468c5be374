// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/mileusna/useragent"

// Client is the browser, OS and device class parsed from a User-Agent.
type Client struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
	Device  string `json:"device"`
}

// ParseClient describes the client behind a User-Agent header for the
// activity log.
func ParseClient(userAgent string) Client {
	ua := useragent.Parse(userAgent)

	c := Client{Browser: ua.Name, OS: ua.OS}
	if c.Browser == "" {
		c.Browser = "Unknown"
	}
	if c.OS == "" {
		c.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		c.Device = "bot"
	case ua.Tablet:
		c.Device = "tablet"
	case ua.Mobile:
		c.Device = "mobile"
	default:
		c.Device = "desktop"
	}
	return c
}

// String formats the client as "Firefox on Linux (desktop)".
func (c Client) String() string {
	return c.Browser + " on " + c.OS + " (" + c.Device + ")"
}
