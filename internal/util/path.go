// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a joined path would leave its base.
var ErrPathTraversal = errors.New("path escapes base directory")

// SafeJoin joins key onto base and rejects results outside base.
func SafeJoin(base, key string) (string, error) {
	if key == "" || strings.ContainsRune(key, 0) {
		return "", ErrPathTraversal
	}
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", err
	}
	target := filepath.Join(absBase, filepath.FromSlash(key))
	if target == absBase || !strings.HasPrefix(target, absBase+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return target, nil
}

// ContainsPathTraversal reports whether key has ".." segments or is absolute.
func ContainsPathTraversal(key string) bool {
	if strings.HasPrefix(key, "/") || strings.HasPrefix(key, `\`) {
		return true
	}
	for _, seg := range strings.FieldsFunc(key, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
