// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage puts uploaded media into object storage and returns the
// public URL pages embed. Two backends exist: the local uploads directory and
// Supabase Storage.
package storage

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for empty keys or keys that escape the bucket.
var ErrInvalidKey = errors.New("storage: invalid object key")

// Storage is an object store addressed by slash-separated keys.
type Storage interface {
	// Put stores data under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Name identifies the backend in logs and the health report.
	Name() string
}
