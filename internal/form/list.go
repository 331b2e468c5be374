// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import "strings"

// ListField edits an ordered list of strings, such as a choir's video URLs.
// It always has at least one row; that row may be blank.
type ListField struct {
	rows []string
}

// NewListField returns a list with the given rows, or one blank row.
func NewListField(rows []string) *ListField {
	l := &ListField{rows: append([]string(nil), rows...)}
	if len(l.rows) == 0 {
		l.rows = []string{""}
	}
	return l
}

// AddRow appends a blank row.
func (l *ListField) AddRow() {
	l.rows = append(l.rows, "")
}

// RemoveRow deletes row i. Removing the only row leaves one blank row.
// Out-of-range indexes are ignored.
func (l *ListField) RemoveRow(i int) {
	if i < 0 || i >= len(l.rows) {
		return
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	if len(l.rows) == 0 {
		l.rows = []string{""}
	}
}

// SetRow replaces row i.
func (l *ListField) SetRow(i int, v string) {
	if i >= 0 && i < len(l.rows) {
		l.rows[i] = v
	}
}

// Rows returns a copy of the rows.
func (l *ListField) Rows() []string {
	return append([]string(nil), l.rows...)
}

// Len returns the number of rows.
func (l *ListField) Len() int {
	return len(l.rows)
}

// Compact returns the trimmed non-blank rows in order.
func (l *ListField) Compact() []string {
	return compactRows(l.rows)
}

func compactRows(rows []string) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
