// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"strings"

	"github.com/olegiv/churchcms/internal/form"
	"github.com/olegiv/churchcms/internal/listview"
	"github.com/olegiv/churchcms/internal/resource"
)

// FieldView is one form input as the admin form template sees it.
type FieldView struct {
	Name        string
	Label       string
	Type        string
	Required    bool
	Options     []string
	Placeholder string
	Help        string
	Value       string
	Rows        []string // list fields only
	Checked     bool     // checkbox fields only
	Error       string
}

// FormView is the data of the admin/form template.
type FormView struct {
	Singular  string
	Plural    string
	ListURL   string
	Action    string
	IsNew     bool
	Fields    []FieldView
	Message   string
	CanSubmit bool
}

func fieldViews(c *form.Controller) []FieldView {
	d := c.Draft()
	out := make([]FieldView, 0, len(c.Fields()))
	for _, f := range c.Fields() {
		v := FieldView{
			Name:        f.Name,
			Label:       f.Label,
			Type:        f.Kind.String(),
			Required:    f.Required,
			Options:     f.Options,
			Placeholder: f.Placeholder,
			Help:        f.Help,
			Value:       d.Get(f.Name),
			Error:       c.Error(f.Name),
		}
		switch f.Kind {
		case form.KindList:
			v.Rows = c.List(f.Name).Rows()
		case form.KindCheckbox:
			v.Checked = d.Bool(f.Name)
		}
		out = append(out, v)
	}
	return out
}

// ColumnView is a list table header.
type ColumnView struct {
	Label   string
	SortURL string // empty when the column is not sortable
	Sorted  bool
	Asc     bool
}

// CategoryLink is one chip of a category filter bar.
type CategoryLink struct {
	Label  string
	URL    string
	Active bool
}

// ListView is the data of the admin/list template.
type ListView struct {
	Singular   string
	Plural     string
	BaseURL    string
	State      listview.State
	Columns    []ColumnView
	Rows       []resource.Row
	Categories []CategoryLink
	Total      int
	ClearURL   string
}

func listColumns[T any](s *resource.Schema[T], base string, st listview.State) []ColumnView {
	order := s.OrderFor(st)
	out := make([]ColumnView, 0, len(s.Columns))
	for _, c := range s.Columns {
		cv := ColumnView{Label: c.Label}
		if c.Sort != "" {
			cv.SortURL = st.SortedBy(c.Sort).URL(base)
			cv.Sorted = order.Column == c.Sort
			cv.Asc = order.Ascending
		}
		out = append(out, cv)
	}
	return out
}

// categoryLinks builds the filter bar; the first link clears the category.
func categoryLinks(options []string, base string, st listview.State) []CategoryLink {
	if len(options) == 0 {
		return nil
	}
	links := []CategoryLink{{Label: "All", URL: st.WithCategory("").URL(base), Active: st.Category == ""}}
	for _, o := range options {
		links = append(links, CategoryLink{
			Label:  o,
			URL:    st.WithCategory(o).URL(base),
			Active: strings.EqualFold(st.Category, o),
		})
	}
	return links
}
