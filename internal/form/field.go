// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Kind selects the input widget and default format rule of a field.
type Kind int

const (
	KindText Kind = iota
	KindTextarea
	KindMarkdown
	KindDate
	KindTime
	KindURL
	KindEmail
	KindPhone
	KindSelect
	KindImage
	KindCheckbox
	KindList
)

var kindNames = map[Kind]string{
	KindText:     "text",
	KindTextarea: "textarea",
	KindMarkdown: "markdown",
	KindDate:     "date",
	KindTime:     "time",
	KindURL:      "url",
	KindEmail:    "email",
	KindPhone:    "tel",
	KindSelect:   "select",
	KindImage:    "image",
	KindCheckbox: "checkbox",
	KindList:     "list",
}

// String returns the name templates switch on.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "text"
}

// Field describes one input of an admin form.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Rule        string // validator tag applied to non-blank values
	Options     []string
	Placeholder string
	Help        string
}

// rule returns the explicit rule or the default for the field kind.
func (f Field) rule() string {
	if f.Rule != "" {
		return f.Rule
	}
	switch f.Kind {
	case KindDate:
		return "datetime=2006-01-02"
	case KindTime:
		return "datetime=15:04"
	case KindURL, KindImage:
		return "uri"
	case KindEmail:
		return "email"
	case KindSelect:
		if len(f.Options) > 0 {
			return "oneof=" + oneofParam(f.Options)
		}
	case KindList:
		return "url"
	}
	return ""
}

// oneofParam quotes options containing spaces the way validator expects.
func oneofParam(options []string) string {
	parts := make([]string, len(options))
	for i, o := range options {
		if strings.ContainsAny(o, " \t") {
			parts[i] = "'" + o + "'"
		} else {
			parts[i] = o
		}
	}
	return strings.Join(parts, " ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// checkValue runs rule against v and returns a readable message, or "".
func (f Field) checkValue(v string) string {
	rule := f.rule()
	if rule == "" || v == "" {
		return ""
	}
	err := validatorInstance().Var(v, rule)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(verrs[0].Tag(), verrs[0].Param(), f.Options)
	}
	return "is invalid"
}

func message(tag, param string, options []string) string {
	switch tag {
	case "url", "uri", "http_url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "datetime":
		if param == "15:04" {
			return "must be a time like 18:30"
		}
		return "must be a date like 2025-03-01"
	case "oneof":
		return "must be one of: " + strings.Join(options, ", ")
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "min":
		return fmt.Sprintf("must be at least %s characters", param)
	case "e164":
		return "must be a phone number like +15551234567"
	default:
		return "is invalid"
	}
}
