// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"errors"
	"net/mail"
	"slices"
	"strings"

	"github.com/jeranaias/nexa-tui/internal/apperr"
)

// ContactForm is the message form of the contact page. Nothing is sent;
// a valid form is simply acknowledged.
type ContactForm struct {
	Subject string
	Name    string
	Email   string
	Message string
}

// ContactSubjects are the selectable inquiry kinds; the first is the default.
var ContactSubjects = []string{"General Inquiry", "Technical Support", "Partnership", "Bug Report"}

// Validate returns every field error, joined.
func (f ContactForm) Validate() error {
	var errs []error
	if f.Subject != "" && !slices.Contains(ContactSubjects, f.Subject) {
		errs = append(errs, apperr.NewValidationError("subject", "Choose a subject"))
	}
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, apperr.NewValidationError("name", "Enter your name"))
	}
	if addr, err := mail.ParseAddress(strings.TrimSpace(f.Email)); err != nil || !strings.Contains(addr.Address, ".") {
		errs = append(errs, apperr.NewValidationError("email", "Enter a valid email address"))
	}
	if strings.TrimSpace(f.Message) == "" {
		errs = append(errs, apperr.NewValidationError("message", "Enter a message"))
	}
	return errors.Join(errs...)
}

// FieldErrors maps each rejected field to its message.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var walk func(error)
	walk = func(e error) {
		switch x := e.(type) {
		case nil:
		case *apperr.ValidationError:
			out[x.Field] = x.Message
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		default:
			var ve *apperr.ValidationError
			if errors.As(e, &ve) {
				out[ve.Field] = ve.Message
			}
		}
	}
	walk(err)
	return out
}
