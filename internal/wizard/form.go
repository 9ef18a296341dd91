package wizard

import (
	"gradpath/internal/apperr"
	"gradpath/internal/model"
)

// Form ties the collector and paginator of one form instance together
type Form struct {
	def       *model.FormDefinition
	collector *Collector
	pager     *Paginator
}

// NewForm starts an empty form instance
func NewForm(def *model.FormDefinition) *Form {
	return Restore(def, nil, 0)
}

// Restore rebuilds a form instance from persisted answers and page
func Restore(def *model.FormDefinition, answers model.AnswerMap, page int) *Form {
	f := &Form{
		def:       def,
		collector: NewCollector(def, answers),
		pager:     NewPaginator(def.PageSize, page),
	}
	f.pager.Clamp(len(f.collector.Visible()))
	return f
}

// Definition returns the form template
func (f *Form) Definition() *model.FormDefinition { return f.def }

// SetAnswer stores an answer and re-clamps the page, since hiding a
// conditional question can remove the current page
func (f *Form) SetAnswer(questionID, value string) {
	f.collector.SetAnswer(questionID, value)
	f.pager.Clamp(len(f.collector.Visible()))
}

// Answer returns the stored answer for a question
func (f *Form) Answer(questionID string) string { return f.collector.Answer(questionID) }

// Answers returns a copy of all answers
func (f *Form) Answers() model.AnswerMap { return f.collector.Answers() }

// Visible returns the visible question set
func (f *Form) Visible() []model.Question { return f.collector.Visible() }

// Page returns the current page index
func (f *Form) Page() int { return f.pager.Current() }

// PageCount returns the number of pages of the visible set
func (f *Form) PageCount() int { return f.pager.PageCount(len(f.Visible())) }

// CurrentQuestions returns the questions on the current page
func (f *Form) CurrentQuestions() []model.Question { return f.pager.Page(f.Visible()) }

// IsLastPage reports whether the current page is the final one
func (f *Form) IsLastPage() bool { return f.pager.IsLast(f.Visible()) }

// CanAdvance reports whether the current page is complete
func (f *Form) CanAdvance() bool {
	return f.pager.CanAdvance(f.Visible(), f.collector.answers)
}

// Next advances one page. An incomplete page yields a ValidationError
// naming the missing questions; the last page is a no-op.
func (f *Form) Next() error {
	visible := f.Visible()
	if missing := f.pager.Missing(visible, f.collector.answers); len(missing) > 0 {
		return &apperr.ValidationError{Missing: missing}
	}
	f.pager.Advance(visible, f.collector.answers)
	return nil
}

// Prev moves back one page
func (f *Form) Prev() { f.pager.Retreat() }

// Finalize validates every visible required question and applies the
// substitution rules
func (f *Form) Finalize() (Finalized, error) {
	return Finalize(f.collector.answers, f.Visible(), f.def.Rules)
}

// State builds the client view of the form
func (f *Form) State() model.FormState {
	return model.FormState{
		FormID:     f.def.ID,
		Page:       f.Page(),
		PageCount:  f.PageCount(),
		IsLastPage: f.IsLastPage(),
		Questions:  f.CurrentQuestions(),
		Answers:    f.Answers(),
		CanAdvance: f.CanAdvance(),
	}
}
