// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/olegiv/churchcms/internal/util"
)

// LocalURLPrefix is where the router serves the uploads directory.
const LocalURLPrefix = "/uploads/"

// Local keeps objects as files below a base directory.
type Local struct {
	dir string
}

// NewLocal creates dir if needed and returns a store rooted at it.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the base directory.
func (l *Local) Dir() string { return l.dir }

func (l *Local) Name() string { return "local" }

func (l *Local) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	full, err := l.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o640); err != nil {
		return "", fmt.Errorf("writing object: %w", err)
	}
	return path.Join(LocalURLPrefix, key), nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	full, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing object: %w", err)
	}
	return nil
}

func (l *Local) Ping(context.Context) error {
	info, err := os.Stat(l.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", l.dir)
	}
	return nil
}

func (l *Local) resolve(key string) (string, error) {
	if key == "" || util.ContainsPathTraversal(key) {
		return "", ErrInvalidKey
	}
	full, err := util.SafeJoin(l.dir, key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return full, nil
}
