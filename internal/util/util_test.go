// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sunday Service", "sunday-service"},
		{"  Youth  Night!! ", "youth-night"},
		{"Café Fellowship", "cafe-fellowship"},
		{"Хор Благодать", "khor-blagodat"},
		{"choir_photo.final", "choir-photo-final"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugify_Length(t *testing.T) {
	got := Slugify(strings.Repeat("hallelujah ", 20))
	if len(got) > maxSlugLength || strings.HasSuffix(got, "-") {
		t.Errorf("long slug = %q (%d)", got, len(got))
	}
}

func TestSlugifyFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Easter Choir.JPG", "easter-choir.jpg"},
		{`C:\photos\Baptism Day.png`, "baptism-day.png"},
		{"../../etc/passwd", "passwd"},
		{"???.webp", "file.webp"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := SlugifyFilename(tt.in); got != tt.want {
			t.Errorf("SlugifyFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoin(base, "gallery/2026/photo.jpg")
	if err != nil {
		t.Fatalf("SafeJoin: %v", err)
	}
	if want := filepath.Join(base, "gallery", "2026", "photo.jpg"); got != want {
		t.Errorf("SafeJoin = %q, want %q", got, want)
	}

	for _, key := range []string{"", "../secret", "gallery/../../x", ".", "a\x00b"} {
		if _, err := SafeJoin(base, key); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("SafeJoin(%q) err = %v, want ErrPathTraversal", key, err)
		}
	}
}

func TestContainsPathTraversal(t *testing.T) {
	tests := map[string]bool{
		"gallery/a.jpg":  false,
		"a..b/c.jpg":     false,
		"../a.jpg":       true,
		"gallery/../../": true,
		"/etc/passwd":    true,
		`..\win.ini`:     true,
	}
	for key, want := range tests {
		if got := ContainsPathTraversal(key); got != want {
			t.Errorf("ContainsPathTraversal(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"172.20.0.1", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"169.254.169.254", true},
		{"::1", true},
		{"fd00::1", true},
		{"::ffff:127.0.0.1", true},
		{"8.8.8.8", false},
		{"2606:4700:4700::1111", false},
	}
	for _, tt := range tests {
		if got := IsPrivateIP(net.ParseIP(tt.ip)); got != tt.want {
			t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
	if !IsPrivateIP(nil) {
		t.Error("nil IP should be treated as private")
	}
}

func TestValidateWebhookURL(t *testing.T) {
	valid := []string{"https://hooks.example.com/church", "http://93.184.216.34/hook"}
	for _, u := range valid {
		if err := ValidateWebhookURL(u); err != nil {
			t.Errorf("ValidateWebhookURL(%q) = %v", u, err)
		}
	}

	invalid := []string{
		"ftp://example.com/",
		"https://",
		"http://localhost:9000/",
		"http://api.localhost/",
		"http://127.0.0.1/",
		"http://[::1]/",
		"https://example.com/" + strings.Repeat("a", MaxWebhookURLLength),
	}
	for _, u := range invalid {
		if err := ValidateWebhookURL(u); err == nil {
			t.Errorf("ValidateWebhookURL(%q) should fail", u)
		}
	}
}

func TestSSRFSafeDialContext_BlocksLoopback(t *testing.T) {
	dial := SSRFSafeDialContext(&net.Dialer{})
	if _, err := dial(context.Background(), "tcp", "127.0.0.1:80"); err == nil {
		t.Error("dial to loopback should be blocked")
	}
	if _, err := dial(context.Background(), "tcp", "no-port"); err == nil {
		t.Error("invalid address should fail")
	}
}
