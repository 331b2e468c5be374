// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form implements the admin create/edit form: a draft of submitted
// values, required-field gating, format checks with go-playground/validator
// and a small submit state machine.
//
//	Editing -> Submitting -> Success -> Navigated
//	                      -> Failure -> Editing
package form

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// State is the lifecycle position of a Controller.
type State int

const (
	Editing State = iota
	Submitting
	Success
	Navigated
	Failure
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Navigated:
		return "navigated"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

var (
	// ErrValidation is returned by Submit when the draft fails required or
	// format checks. The submit function is not called.
	ErrValidation = errors.New("form: validation failed")
	// ErrBusy is returned when Submit is called outside the Editing state.
	ErrBusy = errors.New("form: not editable")
)

// DefaultFailureMessage is shown when a submit function fails.
const DefaultFailureMessage = "Failed to save. Please try again."

// Controller drives one form through its lifecycle.
type Controller struct {
	fields   []Field
	draft    *Draft
	state    State
	errors   map[string]string
	message  string
	location string
}

// New returns a controller in the Editing state. A nil draft starts empty.
func New(fields []Field, draft *Draft) *Controller {
	if draft == nil {
		draft = NewDraft()
	}
	return &Controller{fields: fields, draft: draft, errors: map[string]string{}}
}

// Fields returns the field definitions.
func (c *Controller) Fields() []Field { return c.fields }

// Draft returns the current draft.
func (c *Controller) Draft() *Draft { return c.draft }

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Message returns the last failure message.
func (c *Controller) Message() string { return c.message }

// SetMessage overrides the failure message shown with the form.
func (c *Controller) SetMessage(msg string) { c.message = msg }

// Errors returns per-field error messages.
func (c *Controller) Errors() map[string]string { return c.errors }

// Error returns the error for field name, or "".
func (c *Controller) Error(name string) string { return c.errors[name] }

// Value returns the draft value of name.
func (c *Controller) Value(name string) string { return c.draft.Get(name) }

// Location is the URL recorded by Navigate.
func (c *Controller) Location() string { return c.location }

// CanSubmit is false when any required field is blank.
func (c *Controller) CanSubmit() bool {
	for _, f := range c.fields {
		if f.Required && c.blank(f) {
			return false
		}
	}
	return true
}

func (c *Controller) blank(f Field) bool {
	if f.Kind == KindList {
		return len(compactRows(c.draft.Values(f.Name))) == 0
	}
	return c.draft.Trimmed(f.Name) == ""
}

// Validate fills the field errors and reports whether the draft is valid.
func (c *Controller) Validate() bool {
	c.errors = map[string]string{}
	for _, f := range c.fields {
		if f.Required && c.blank(f) {
			c.errors[f.Name] = f.Label + " is required"
			continue
		}
		if f.Kind == KindList {
			for i, row := range compactRows(c.draft.Values(f.Name)) {
				if msg := f.checkValue(row); msg != "" {
					c.errors[f.Name] = "Row " + strconv.Itoa(i+1) + " " + msg
					break
				}
			}
			continue
		}
		if msg := f.checkValue(c.draft.Trimmed(f.Name)); msg != "" {
			c.errors[f.Name] = f.Label + " " + msg
		}
	}
	return len(c.errors) == 0
}

// Submit validates the draft and calls fn with a compacted copy of it.
// Validation errors return ErrValidation without calling fn. A failing fn
// leaves the controller in Failure with the draft untouched.
func (c *Controller) Submit(ctx context.Context, fn func(context.Context, *Draft) error) error {
	if c.state != Editing {
		return ErrBusy
	}
	if !c.Validate() {
		c.message = "Please fix the highlighted fields."
		return ErrValidation
	}

	c.state = Submitting
	if err := fn(ctx, c.compacted()); err != nil {
		c.state = Failure
		c.message = DefaultFailureMessage
		return err
	}
	c.state = Success
	c.message = ""
	return nil
}

// Resume returns a failed controller to Editing, keeping the draft and message.
func (c *Controller) Resume() {
	if c.state == Failure {
		c.state = Editing
	}
}

// Navigate records the post-success destination.
func (c *Controller) Navigate(location string) bool {
	if c.state != Success {
		return false
	}
	c.location = location
	c.state = Navigated
	return true
}

func (c *Controller) compacted() *Draft {
	d := c.draft.Clone()
	for _, f := range c.fields {
		if f.Kind == KindList {
			d.SetValues(f.Name, compactRows(d.Values(f.Name)))
		}
	}
	return d
}

// List returns the list editor for field name.
func (c *Controller) List(name string) *ListField {
	return NewListField(c.draft.Values(name))
}

// listField returns the first list field of the form.
func (c *Controller) listField() (Field, bool) {
	for _, f := range c.fields {
		if f.Kind == KindList {
			return f, true
		}
	}
	return Field{}, false
}

// Action names accepted by ApplyAction.
const (
	ActionAddRow    = "add_row"
	ActionRemoveRow = "remove_row:"
)

// ApplyAction performs a server-side row edit on the form's list field:
// "add_row" or "remove_row:<i>". It reports whether the action was
// recognised; the draft is re-rendered instead of submitted in that case.
func (c *Controller) ApplyAction(action string) bool {
	f, ok := c.listField()
	if !ok || action == "" {
		return false
	}
	l := c.List(f.Name)
	switch {
	case action == ActionAddRow:
		l.AddRow()
	case strings.HasPrefix(action, ActionRemoveRow):
		i, err := strconv.Atoi(strings.TrimPrefix(action, ActionRemoveRow))
		if err != nil {
			return false
		}
		l.RemoveRow(i)
	default:
		return false
	}
	c.draft.SetValues(f.Name, l.Rows())
	return true
}
