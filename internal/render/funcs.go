// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/oembed"
	"github.com/olegiv/churchcms/internal/util"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	// htmlSanitizer strips anything unsafe from rendered markdown.
	htmlSanitizer = bluemonday.UGCPolicy()
)

// Markdown renders admin-entered markdown to sanitised HTML.
func Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes()))
}

// ISODate formats a stored YYYY-MM-DD date with layout, returning the input
// unchanged when it does not parse.
func ISODate(iso, layout string) string {
	t, err := time.Parse(model.ISODateLayout, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return t.Format(layout)
}

// Truncate shortens s to at most n runes, appending an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("Jan 2, 2006 3:04 PM")
		},
		"isoDate": func(iso string) string {
			return ISODate(iso, model.DisplayDateLayout)
		},
		"isoDay": func(iso string) string {
			return ISODate(iso, "2")
		},
		"isoMonth": func(iso string) string {
			return ISODate(iso, "Jan")
		},
		"markdown": Markdown,
		"truncate": Truncate,
		"slug":     util.Slugify,
		"videoID": func(url string) string {
			id, _ := oembed.VideoID(url)
			return id
		},
		"embedURL": oembed.EmbedURL,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
		"hasPrefix": strings.HasPrefix,
		"lower":     strings.ToLower,
	}
}
