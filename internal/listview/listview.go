// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listview holds the search, category and sort state of a list page
// and the pure filter applied to its rows. The state lives in the query
// string so every filtered view has a bookmarkable URL.
package listview

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names.
const (
	ParamSearch   = "q"
	ParamCategory = "category"
	ParamSort     = "sort"
	ParamDir      = "dir"
	ParamPage     = "page"
)

// State is the filter and sort selection of a list view.
type State struct {
	Search   string
	Category string
	Sort     string
	Asc      bool
}

// FromQuery reads the state from URL query values. Unknown dir values mean
// descending.
func FromQuery(q url.Values) State {
	return State{
		Search:   strings.TrimSpace(q.Get(ParamSearch)),
		Category: strings.TrimSpace(q.Get(ParamCategory)),
		Sort:     q.Get(ParamSort),
		Asc:      strings.EqualFold(q.Get(ParamDir), "asc"),
	}
}

// Query returns the state as URL values, omitting empty keys.
func (s State) Query() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}
	if s.Category != "" {
		v.Set(ParamCategory, s.Category)
	}
	if s.Sort != "" {
		v.Set(ParamSort, s.Sort)
		if s.Asc {
			v.Set(ParamDir, "asc")
		} else {
			v.Set(ParamDir, "desc")
		}
	}
	return v
}

// Encode returns the query string for the state, without a leading "?".
func (s State) Encode() string {
	return s.Query().Encode()
}

// URL returns base with the state appended.
func (s State) URL(base string) string {
	if q := s.Encode(); q != "" {
		return base + "?" + q
	}
	return base
}

// IsZero reports whether no search or category filter is set.
func (s State) IsZero() bool {
	return s.Search == "" && s.Category == ""
}

// WithCategory returns a copy of s filtered to category.
func (s State) WithCategory(category string) State {
	s.Category = category
	return s
}

// SortedBy returns the state for a column header link: the same column flips
// direction, a new column starts descending.
func (s State) SortedBy(column string) State {
	if s.Sort == column {
		s.Asc = !s.Asc
	} else {
		s.Sort = column
		s.Asc = false
	}
	return s
}

// Filter returns the rows matching s. Search is a case-insensitive substring
// match against any of text(row); category is a case-insensitive equality on
// category(row). The result keeps the input order, and with no filters set
// the input slice itself is returned.
func Filter[T any](rows []T, s State, text func(T) []string, category func(T) string) []T {
	search := strings.ToLower(strings.TrimSpace(s.Search))
	cat := strings.TrimSpace(s.Category)
	if search == "" && cat == "" {
		return rows
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if cat != "" && (category == nil || !strings.EqualFold(category(row), cat)) {
			continue
		}
		if search != "" && !matchesAny(text(row), search) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesAny(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Page describes one page of a paginated list.
type Page struct {
	Number     int
	PerPage    int
	Total      int64
	TotalPages int
}

// NewPage reads the page number from q and clamps it to the available pages.
func NewPage(q url.Values, perPage int, total int64) Page {
	if perPage < 1 {
		perPage = 50
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	n, _ := strconv.Atoi(q.Get(ParamPage))
	n = min(max(n, 1), pages)
	return Page{Number: n, PerPage: perPage, Total: total, TotalPages: pages}
}

// Offset is the row offset of the page.
func (p Page) Offset() int64 {
	return int64(p.Number-1) * int64(p.PerPage)
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }
