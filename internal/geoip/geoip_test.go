// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountry_WithoutDatabase(t *testing.T) {
	l, err := Open("")
	require.NoError(t, err)
	assert.False(t, l.Enabled())

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", Local},
		{"::1", Local},
		{"10.1.2.3", Local},
		{"172.20.0.5", Local},
		{"192.168.1.10", Local},
		{"fd00::1", Local},
		{"8.8.8.8", ""},
		{"not an ip", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Country(tt.ip), tt.ip)
	}
	assert.NoError(t, l.Reload())
	assert.NoError(t, l.Close())
}

func TestNilLocator(t *testing.T) {
	var l *Locator
	assert.False(t, l.Enabled())
	assert.Equal(t, Local, l.Country("127.0.0.1"))
	assert.Equal(t, "", l.Country("1.1.1.1"))
	assert.NoError(t, l.Reload())
	assert.NoError(t, l.Close())
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "GeoLite2-Country.mmdb"))
	assert.Error(t, err)
}
