// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small helpers shared by the storage, media and webhook
// code: slugs for object keys, safe path joins and SSRF-safe dialing.
package util

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// maxSlugLength bounds slugs used inside storage keys.
const maxSlugLength = 80

// Slugify converts s to a lowercase ASCII slug. Accents are stripped and
// other scripts are transliterated, so "Хор Благодать" becomes
// "khor-blagodat".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := strings.ToLower(unidecode.Unidecode(folded))
	out = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '.' || r == '/' {
			return '-'
		}
		return r
	}, out)
	out = nonSlugChars.ReplaceAllString(out, "")
	out = multipleHyphens.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if len(out) > maxSlugLength {
		out = strings.TrimRight(out[:maxSlugLength], "-")
	}
	return out
}

// SlugifyFilename slugs the base name of filename and keeps its lowercased
// extension. An empty result falls back to "file".
func SlugifyFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	ext := strings.ToLower(path.Ext(base))
	name := Slugify(strings.TrimSuffix(base, path.Ext(base)))
	if name == "" {
		name = "file"
	}
	if ext != "" && !nonSlugChars.MatchString(ext[1:]) {
		return name + ext
	}
	return name
}
