// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modules

import (
	"context"
	"slices"
	"strings"

	"github.com/jeranaias/nexa-tui/internal/apperr"
	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/util"
)

// Grades offered by the education screen.
var Grades = []int{8, 9, 10}

// Subjects offered by the education screen.
var Subjects = []string{"Science", "Mathematics", "English", "Social Studies", "Nepali"}

// LessonSource produces lessons. *completion.Client implements it.
type LessonSource interface {
	Lesson(ctx context.Context, grade int, subject, topic string) (*completion.Lesson, error)
}

// EducationForm is the lesson request entered by the user.
type EducationForm struct {
	Grade   int
	Subject string
	Topic   string
}

// DefaultEducationForm returns grade 10 science with no topic.
func DefaultEducationForm() EducationForm {
	return EducationForm{Grade: 10, Subject: "Science"}
}

// Validate checks the form.
func (f EducationForm) Validate() error {
	if !slices.Contains(Grades, f.Grade) {
		return apperr.NewValidationError("grade", "Choose grade 8, 9 or 10")
	}
	if !slices.Contains(Subjects, f.Subject) {
		return apperr.NewValidationError("subject", "Choose a subject")
	}
	topic := strings.TrimSpace(f.Topic)
	if topic == "" {
		return apperr.NewValidationError("topic", "Enter a topic")
	}
	if util.RuneLen(topic) > 200 {
		return apperr.NewValidationError("topic", "Topic is too long")
	}
	return nil
}

// Education is the state of the education screen.
type Education struct {
	Form   EducationForm
	Lesson Slot[*completion.Lesson]

	source LessonSource
}

// NewEducation creates the education state.
func NewEducation(source LessonSource) *Education {
	return &Education{Form: DefaultEducationForm(), source: source}
}

// Submit validates the form and issues a lesson request.
func (e *Education) Submit() (Pending[*completion.Lesson], error) {
	if err := e.Form.Validate(); err != nil {
		return Pending[*completion.Lesson]{}, err
	}
	form := e.Form
	form.Topic = strings.TrimSpace(form.Topic)
	return e.Lesson.Issue(func(ctx context.Context) (*completion.Lesson, error) {
		return e.source.Lesson(ctx, form.Grade, form.Subject, form.Topic)
	}), nil
}

// Leave discards requests in flight.
func (e *Education) Leave() { e.Lesson.Invalidate() }
