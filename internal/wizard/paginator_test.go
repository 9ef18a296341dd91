package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gradpath/internal/model"
)

func questions(n int, required bool) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{ID: string(rune('a' + i)), Kind: model.KindShortText, Required: required}
	}
	return qs
}

func TestPageCount(t *testing.T) {
	p := NewPaginator(3, 0)
	for n, want := range map[int]int{0: 0, 1: 1, 3: 1, 4: 2, 9: 3, 10: 4} {
		assert.Equal(t, want, p.PageCount(n), "n=%d", n)
	}
}

func TestCanAdvanceChecksOnlyCurrentPage(t *testing.T) {
	qs := questions(6, true)
	p := NewPaginator(3, 0)
	answers := model.AnswerMap{"a": "x", "b": "y"}
	assert.False(t, p.CanAdvance(qs, answers))

	answers["c"] = "   \t"
	assert.False(t, p.CanAdvance(qs, answers), "whitespace answer does not count")

	answers["c"] = "z"
	assert.True(t, p.CanAdvance(qs, answers), "later pages are not checked")
}

func TestCanAdvanceIgnoresOptionalQuestions(t *testing.T) {
	qs := []model.Question{
		{ID: "a", Required: true},
		{ID: "b"},
	}
	p := NewPaginator(2, 0)
	assert.True(t, p.CanAdvance(qs, model.AnswerMap{"a": "yes"}))
	assert.Equal(t, []string{"a"}, p.Missing(qs, model.AnswerMap{}))
}

func TestAdvanceAndRetreatBounds(t *testing.T) {
	qs := questions(5, false)
	p := NewPaginator(2, 0)

	assert.False(t, p.Retreat())
	assert.Equal(t, 0, p.Current())

	assert.True(t, p.Advance(qs, nil))
	assert.True(t, p.Advance(qs, nil))
	assert.Equal(t, 2, p.Current())
	assert.True(t, p.IsLast(qs))
	assert.False(t, p.Advance(qs, nil))
	assert.Equal(t, 2, p.Current())

	assert.True(t, p.Retreat())
	assert.Equal(t, 1, p.Current())
}

func TestAdvanceBlockedByIncompletePage(t *testing.T) {
	qs := questions(4, true)
	p := NewPaginator(2, 0)
	assert.False(t, p.Advance(qs, model.AnswerMap{"a": "1"}))
	assert.Equal(t, 0, p.Current())
	assert.True(t, p.Advance(qs, model.AnswerMap{"a": "1", "b": "2"}))
}

func TestPageClampsWhenVisibleSetShrinks(t *testing.T) {
	qs := questions(4, false)
	p := NewPaginator(3, 1)
	assert.Equal(t, []string{"d"}, ids(p.Page(qs)))

	shrunk := qs[:3]
	page := p.Page(shrunk)
	assert.Equal(t, 0, p.Current())
	assert.Equal(t, []string{"a", "b", "c"}, ids(page))

	p.Clamp(0)
	assert.Equal(t, 0, p.Current())
	assert.Empty(t, p.Page(nil))
}
