// Package tui is the terminal rendition of the questionnaire wizard.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
	"gradpath/internal/present"
	"gradpath/internal/service"
	"gradpath/internal/submission"
	"gradpath/internal/wizard"
)

// generatedMsg carries the outcome of one generation attempt
type generatedMsg struct {
	attemptID string
	document  string
	err       error
}

// Model is the bubbletea model for the wizard
type Model struct {
	ctx       context.Context
	form      *wizard.Form
	generator service.Generator
	clipboard present.Clipboard
	outDir    string

	input      textinput.Model
	focus      int
	submission model.Submission
	notice     *model.Notice
	width      int
	quitting   bool
}

// Options configures the wizard model
type Options struct {
	Generator service.Generator
	Clipboard present.Clipboard
	OutDir    string
}

// NewModel creates a wizard over a fresh form
func NewModel(ctx context.Context, def *model.FormDefinition, opts Options) Model {
	ti := textinput.New()
	ti.CharLimit = 4000
	ti.Width = 72
	ti.Prompt = "> "

	cb := opts.Clipboard
	if cb == nil {
		cb = present.SystemClipboard{}
	}
	m := Model{
		ctx:        ctx,
		form:       wizard.NewForm(def),
		generator:  opts.Generator,
		clipboard:  cb,
		outDir:     opts.OutDir,
		input:      ti,
		submission: model.Submission{Phase: model.PhaseIdle},
	}
	m.loadInput()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case generatedMsg:
		return m.finish(msg), nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.submission.Phase {
		case model.PhaseSubmitting:
			return m, nil
		case model.PhaseSuccess, model.PhaseFailed:
			return m.updateOutcome(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q, ok := m.focused()
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.moveFocus(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.moveFocus(-1)
		return m, nil
	case tea.KeyCtrlB, tea.KeyPgUp:
		m.form.Prev()
		m.focus = 0
		m.notice = nil
		m.loadInput()
		return m, nil
	case tea.KeyEnter:
		if m.form.IsLastPage() {
			return m.submit()
		}
		if err := m.form.Next(); err != nil {
			n := apperr.NoticeFor(err)
			m.notice = &n
			return m, nil
		}
		m.focus = 0
		m.notice = nil
		m.loadInput()
		return m, nil
	}

	if ok && q.Kind == model.KindSingleChoice {
		switch msg.Type {
		case tea.KeyRight:
			m.cycleChoice(q, 1)
		case tea.KeyLeft:
			m.cycleChoice(q, -1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if ok {
		m.form.SetAnswer(q.ID, m.input.Value())
		m.clampFocus()
	}
	return m, cmd
}

func (m Model) updateOutcome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.submission, _ = submission.Reset(m.submission)
		m.notice = nil
		m.loadInput()
		return m, nil
	}
	if m.submission.Phase != model.PhaseSuccess {
		return m, nil
	}
	switch msg.String() {
	case "c":
		n, _ := present.Copy(m.clipboard, m.submission.Document)
		m.notice = &n
	case "s":
		path, err := present.SaveFile(m.outDir, m.submission.Document)
		if err != nil {
			n := model.Notice{Level: model.NoticeError, Code: apperr.CodeInternal, Message: err.Error()}
			m.notice = &n
			break
		}
		m.notice = &model.Notice{Level: model.NoticeSuccess, Message: "Saved to " + path}
	}
	return m, nil
}

// submit finalizes the answers and starts one generation attempt
func (m Model) submit() (tea.Model, tea.Cmd) {
	answers, err := m.form.Finalize()
	if err != nil {
		n := apperr.NoticeFor(err)
		m.notice = &n
		return m, nil
	}
	attemptID := uuid.New().String()
	next, err := submission.Begin(m.submission, attemptID)
	if err != nil {
		return m, nil
	}
	m.submission = next
	m.notice = nil

	ctx, gen, def := m.ctx, m.generator, m.form.Definition()
	return m, func() tea.Msg {
		doc, err := gen.Generate(ctx, def, answers)
		return generatedMsg{attemptID: attemptID, document: doc, err: err}
	}
}

func (m Model) finish(msg generatedMsg) Model {
	var (
		next model.Submission
		err  error
	)
	if msg.err != nil {
		next, err = submission.Fail(m.submission, msg.attemptID, apperr.NoticeFor(msg.err))
	} else {
		next, err = submission.Succeed(m.submission, msg.attemptID, msg.document)
	}
	if err != nil {
		// stale attempt
		return m
	}
	m.submission = next
	return m
}

func (m *Model) focused() (model.Question, bool) {
	qs := m.form.CurrentQuestions()
	if m.focus < 0 || m.focus >= len(qs) {
		return model.Question{}, false
	}
	return qs[m.focus], true
}

func (m *Model) moveFocus(delta int) {
	n := len(m.form.CurrentQuestions())
	if n == 0 {
		return
	}
	m.focus = (m.focus + delta + n) % n
	m.loadInput()
}

// clampFocus keeps focus in range when an answer hides a question
func (m *Model) clampFocus() {
	if n := len(m.form.CurrentQuestions()); m.focus >= n && n > 0 {
		m.focus = n - 1
	}
}

func (m *Model) cycleChoice(q model.Question, delta int) {
	if len(q.Options) == 0 {
		return
	}
	idx := -1
	current := m.form.Answer(q.ID)
	for i, o := range q.Options {
		if o == current {
			idx = i
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(q.Options) - 1
	default:
		idx = (idx + delta + len(q.Options)) % len(q.Options)
	}
	m.form.SetAnswer(q.ID, q.Options[idx])
	m.clampFocus()
}

func (m *Model) loadInput() {
	q, ok := m.focused()
	if !ok || q.Kind == model.KindSingleChoice {
		m.input.Blur()
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.form.Answer(q.ID))
	m.input.CursorEnd()
	m.input.Focus()
}

// Submission returns the current submission state
func (m Model) Submission() model.Submission {
	return m.submission
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.form.Definition().Title))
	b.WriteString("\n\n")

	switch m.submission.Phase {
	case model.PhaseSubmitting:
		b.WriteString(dimStyle.Render("Generating your statement of purpose..."))
		b.WriteString("\n")
	case model.PhaseSuccess:
		m.viewResult(&b)
	case model.PhaseFailed:
		if m.submission.Failure != nil {
			b.WriteString(errorStyle.Render(m.submission.Failure.Message))
			b.WriteString("\n\n")
		}
		b.WriteString(dimStyle.Render("r: back to the form  q: quit"))
		b.WriteString("\n")
	default:
		m.viewForm(&b)
	}

	if m.notice != nil {
		b.WriteString("\n")
		if m.notice.Level == model.NoticeSuccess {
			b.WriteString(successStyle.Render(m.notice.Message))
		} else {
			b.WriteString(errorStyle.Render(m.notice.Message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewForm(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n\n", dimStyle.Render(fmt.Sprintf("Page %d of %d", m.form.Page()+1, m.form.PageCount())))
	for i, q := range m.form.CurrentQuestions() {
		prompt := q.Prompt
		if q.Required {
			prompt += " *"
		}
		if i == m.focus {
			b.WriteString(focusStyle.Render("› " + prompt))
		} else {
			b.WriteString(promptStyle.Render("  " + prompt))
		}
		b.WriteString("\n")

		switch {
		case q.Kind == model.KindSingleChoice:
			current := m.form.Answer(q.ID)
			for _, o := range q.Options {
				if o == current {
					b.WriteString("    " + selectedStyle.Render("(•) "+o) + "\n")
				} else {
					b.WriteString("    " + dimStyle.Render("( ) "+o) + "\n")
				}
			}
		case i == m.focus:
			b.WriteString("  " + m.input.View() + "\n")
		default:
			b.WriteString("    " + dimStyle.Render(m.form.Answer(q.ID)) + "\n")
		}
		b.WriteString("\n")
	}

	action := "enter: next"
	if m.form.IsLastPage() {
		action = "enter: submit"
	}
	b.WriteString(dimStyle.Render("tab: next field  ←/→: choose  ctrl+b: previous page  " + action + "  ctrl+c: quit"))
	b.WriteString("\n")
}

func (m Model) viewResult(b *strings.Builder) {
	res := present.Render(m.submission.Document, nil)
	style := documentStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	b.WriteString(style.Render(strings.Join(res.Paragraphs, "\n")))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("c: copy  s: save " + res.Filename + "  r: edit answers  q: quit"))
	b.WriteString("\n")
}
