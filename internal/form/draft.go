// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"net/url"
	"strings"
)

// Draft holds the in-progress values of a form. Keys keep insertion order
// and each key may carry several values (list fields).
type Draft struct {
	keys   []string
	values map[string][]string
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{values: make(map[string][]string)}
}

// DraftFromValues reads the values of fields from submitted form data.
// Unknown keys are ignored. Checkbox fields become "true" or "".
func DraftFromValues(form url.Values, fields []Field) *Draft {
	d := NewDraft()
	for _, f := range fields {
		switch f.Kind {
		case KindList:
			d.SetValues(f.Name, form[f.Name])
		case KindCheckbox:
			if v := form.Get(f.Name); v != "" && v != "false" && v != "0" {
				d.Set(f.Name, "true")
			} else {
				d.Set(f.Name, "")
			}
		default:
			d.Set(f.Name, form.Get(f.Name))
		}
	}
	return d
}

func (d *Draft) touch(name string) {
	if _, ok := d.values[name]; !ok {
		d.keys = append(d.keys, name)
	}
}

// Set replaces the values of name with v.
func (d *Draft) Set(name, v string) {
	d.touch(name)
	d.values[name] = []string{v}
}

// SetValues replaces the values of name with a copy of vs.
func (d *Draft) SetValues(name string, vs []string) {
	d.touch(name)
	d.values[name] = append([]string(nil), vs...)
}

// SetBool stores b as "true" or "".
func (d *Draft) SetBool(name string, b bool) {
	if b {
		d.Set(name, "true")
	} else {
		d.Set(name, "")
	}
}

// Get returns the first value of name, or "".
func (d *Draft) Get(name string) string {
	if vs := d.values[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Trimmed returns Get(name) without surrounding whitespace.
func (d *Draft) Trimmed(name string) string {
	return strings.TrimSpace(d.Get(name))
}

// Bool reports whether name holds a truthy value.
func (d *Draft) Bool(name string) bool {
	return d.Get(name) == "true"
}

// Values returns a copy of all values of name.
func (d *Draft) Values(name string) []string {
	return append([]string(nil), d.values[name]...)
}

// Keys returns the keys in insertion order.
func (d *Draft) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Clone returns a deep copy of d.
func (d *Draft) Clone() *Draft {
	c := NewDraft()
	for _, k := range d.keys {
		c.SetValues(k, d.values[k])
	}
	return c
}
