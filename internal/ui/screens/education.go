// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nexa-tui/internal/completion"
	"github.com/jeranaias/nexa-tui/internal/modules"
	"github.com/jeranaias/nexa-tui/internal/router"
	"github.com/jeranaias/nexa-tui/internal/ui/components"
)

type lessonMsg modules.Response[*completion.Lesson]

// Education is the NEB lesson helper.
type Education struct {
	deps  Deps
	state *modules.Education

	form     fields
	gradePos int
	subjPos  int
	topicIn  int
	sendPos  int
	fieldErr map[string]string
	spinner  components.Spinner
}

// NewEducation creates the education screen over state.
func NewEducation(deps Deps, state *modules.Education) *Education {
	e := &Education{deps: deps, state: state, spinner: components.NewSpinner(deps.Theme, "Generating lesson")}
	e.gradePos = e.form.control()
	e.subjPos = e.form.control()
	e.topicIn = e.form.add(newInput("e.g. Photosynthesis", 200))
	e.sendPos = e.form.control()
	return e
}

func (e *Education) ID() router.Screen { return router.ScreenEducation }

func (e *Education) Enter() tea.Cmd {
	return e.form.focusAt(e.form.positionOf(e.topicIn))
}

func (e *Education) Leave() {
	e.state.Leave()
	e.spinner.Stop()
	e.form.blurAll()
}

func (e *Education) Capturing() bool { return e.form.onInput() }

func (e *Education) Help() []key.Binding {
	return []key.Binding{keys.Next, keys.Left, keys.Right, keys.Submit}
}

func (e *Education) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case lessonMsg:
		e.state.Lesson.Apply(modules.Response[*completion.Lesson](msg))
		if !e.state.Lesson.Loading() {
			e.spinner.Stop()
		}
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		e.spinner, cmd = e.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		return e.handleKey(msg)
	}
	return nil
}

func (e *Education) handleKey(km tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(km, keys.Next):
		return e.form.move(1)
	case key.Matches(km, keys.Prev):
		return e.form.move(-1)
	case key.Matches(km, keys.Submit):
		return e.submit()
	}

	delta := 0
	switch {
	case key.Matches(km, keys.Left):
		delta = -1
	case key.Matches(km, keys.Right):
		delta = 1
	}
	switch {
	case e.form.at(e.gradePos) && delta != 0:
		i := slices.Index(modules.Grades, e.state.Form.Grade)
		e.state.Form.Grade = modules.Grades[cycle(i, delta, len(modules.Grades))]
		return nil
	case e.form.at(e.subjPos) && delta != 0:
		i := slices.Index(modules.Subjects, e.state.Form.Subject)
		e.state.Form.Subject = modules.Subjects[cycle(i, delta, len(modules.Subjects))]
		return nil
	}
	return e.form.update(km)
}

func (e *Education) submit() tea.Cmd {
	e.state.Form.Topic = e.form.value(e.topicIn)
	pending, err := e.state.Submit()
	if err != nil {
		e.fieldErr = modules.FieldErrors(err)
		return nil
	}
	e.fieldErr = nil
	return tea.Batch(e.spinner.Start(), run(pending, func(r modules.Response[*completion.Lesson]) lessonMsg {
		return lessonMsg(r)
	}))
}

func (e *Education) View(width, height int) string {
	th := e.deps.Theme
	f := e.state.Form

	form := lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render("Edu.Sync"),
		th.Subtitle.Render("Concept explanations aligned with the NEB curriculum."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			components.Choice(th, "grade", "Grade "+strconv.Itoa(f.Grade), e.form.at(e.gradePos)),
			"    ",
			components.Choice(th, "subject", f.Subject, e.form.at(e.subjPos)),
		),
		components.Field(th, "topic", e.form.view(e.topicIn), e.form.focused(e.topicIn), e.fieldErr["topic"]),
		components.Button(th, "Generate Lesson", e.form.at(e.sendPos)),
	)

	var result string
	switch {
	case e.state.Lesson.Loading():
		result = e.spinner.View()
	case e.state.Lesson.Err() != nil:
		result = components.ErrorLine(th, e.state.Lesson.Err())
	}
	if lesson, ok := e.state.Lesson.Value(); ok && lesson != nil {
		result = lipgloss.JoinVertical(lipgloss.Left, result, e.lessonView(lesson, width-4))
	}

	page := lipgloss.JoinVertical(lipgloss.Left, form, "", result)
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(width).MaxHeight(height).Render(page)
}

func (e *Education) lessonView(l *completion.Lesson, width int) string {
	th := e.deps.Theme
	var md strings.Builder
	md.WriteString("## " + l.Concept + "\n\n")
	md.WriteString(l.Explanation + "\n\n")
	md.WriteString("> " + l.Analogy + "\n")
	body := e.deps.markdown(md.String(), width-4)

	quiz := make([]string, len(l.QuickQuiz))
	for i, q := range l.QuickQuiz {
		quiz[i] = th.Accent.Render(strconv.Itoa(i+1)+". ") + th.Value.Render(q)
	}
	return components.Card(th, "", lipgloss.JoinVertical(lipgloss.Left,
		body,
		"",
		th.CardTitle.Render("Quick Quiz"),
		lipgloss.JoinVertical(lipgloss.Left, quiz...),
	), width)
}
