// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package resource describes the church content types generically: a
// Repository per table and a Schema telling the admin handler how to list,
// filter, edit and announce rows of that type.
package resource

import (
	"context"
	"slices"

	"github.com/olegiv/churchcms/internal/form"
	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/store"
)

// Order selects the list sort column and direction.
type Order = store.ListOrder

// Repository is the CRUD contract every content table satisfies.
type Repository[T any] interface {
	List(ctx context.Context, order Order) ([]T, error)
	// Get returns store.ErrNotFound when no row has id.
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, v T) (T, error)
	// Update returns store.ErrNotFound when no row has id.
	Update(ctx context.Context, id int64, v T) error
	// Delete succeeds when no row has id.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// Announcement is published to members after new content is created.
type Announcement struct {
	Kind    string
	Title   string
	Message string
	URL     string
}

// Column is one cell of an admin or public list row.
type Column[T any] struct {
	Label string
	Sort  string // store column, empty when not sortable
	Value func(T) string
}

// Row is a list row with its cells rendered to strings.
type Row struct {
	ID    int64
	Label string
	Cells []string
}

// Schema describes one content type.
type Schema[T any] struct {
	Name     string // URL segment, e.g. "ced-groups"
	Singular string
	Plural   string
	Kind     string // activity/log key, e.g. "sermon"

	Fields  []form.Field
	Columns []Column[T]

	// SortColumns whitelists Order.Column; the first entry is the default.
	SortColumns  []string
	DefaultOrder Order

	SearchText      func(T) []string
	Category        func(T) string
	CategoryOptions []string

	ID    func(T) int64
	Label func(T) string

	Encode func(T) *form.Draft
	// Decode applies a validated draft onto base and returns the result.
	Decode func(d *form.Draft, base T) T
	// Announce returns the announcement for a newly created row, or nil.
	Announce func(T) *Announcement
	// Defaults pre-fills the draft of a new row.
	Defaults func() *form.Draft
}

// OrderFor maps list state to a whitelisted order.
func (s *Schema[T]) OrderFor(st listview.State) Order {
	if st.Sort == "" || !slices.Contains(s.SortColumns, st.Sort) {
		return s.DefaultOrder
	}
	return Order{Column: st.Sort, Ascending: st.Asc}
}

// Filter applies the list state's search and category to rows.
func (s *Schema[T]) Filter(rows []T, st listview.State) []T {
	return listview.Filter(rows, st, s.SearchText, s.Category)
}

// Rows renders items for a list table.
func (s *Schema[T]) Rows(items []T) []Row {
	out := make([]Row, 0, len(items))
	for _, it := range items {
		r := Row{ID: s.ID(it), Label: s.Label(it), Cells: make([]string, len(s.Columns))}
		for i, c := range s.Columns {
			r.Cells[i] = c.Value(it)
		}
		out = append(out, r)
	}
	return out
}

// NewForm returns a controller for creating a row.
func (s *Schema[T]) NewForm() *form.Controller {
	if s.Defaults != nil {
		return form.New(s.Fields, s.Defaults())
	}
	return form.New(s.Fields, nil)
}

// EditForm returns a controller pre-filled from v.
func (s *Schema[T]) EditForm(v T) *form.Controller {
	return form.New(s.Fields, s.Encode(v))
}

// HasCategory reports whether the list offers a category filter.
func (s *Schema[T]) HasCategory() bool {
	return s.Category != nil && len(s.CategoryOptions) > 0
}
