package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
)

func TestFormWalkthrough(t *testing.T) {
	f := NewForm(SOPForm())
	assert.Equal(t, 0, f.Page())
	assert.Equal(t, 3, f.PageCount())
	assert.Equal(t, []string{QuestionUniversity, "program", "background"}, ids(f.CurrentQuestions()))

	err := f.Next()
	var valErr *apperr.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{QuestionUniversity, "program", "background"}, valErr.Missing)

	for k, v := range completeSOP() {
		f.SetAnswer(k, v)
	}
	require.NoError(t, f.Next())
	require.NoError(t, f.Next())
	assert.True(t, f.IsLastPage())
	assert.Equal(t, []string{"achievements", "research", "contribution"}, ids(f.CurrentQuestions()))
	require.NoError(t, f.Next(), "next on the last page is a no-op")
	assert.Equal(t, 2, f.Page())

	fin, err := f.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "Stanford University", fin.Get(QuestionUniversity))
}

func TestFormClampsWhenConditionalQuestionDisappears(t *testing.T) {
	def := &model.FormDefinition{
		ID:       "small",
		PageSize: 2,
		Questions: []model.Question{
			{ID: "choice", Kind: model.KindSingleChoice, Options: []string{"x", "Other"}},
			{ID: "detail", Kind: model.KindShortText},
			{ID: "tail", Kind: model.KindShortText},
		},
		Rules: []model.ConditionalRule{{TriggerID: "choice", TriggerValue: "Other", DependentID: "detail", Substitute: true}},
	}
	f := NewForm(def)
	f.SetAnswer("choice", "Other")
	require.Equal(t, 2, f.PageCount())
	require.NoError(t, f.Next())
	assert.Equal(t, 1, f.Page())

	f.SetAnswer("choice", "x")
	assert.Equal(t, 1, f.PageCount())
	assert.Equal(t, 0, f.Page())
	assert.Equal(t, []string{"choice", "tail"}, ids(f.CurrentQuestions()))
}

func TestRestoreClampsPersistedPage(t *testing.T) {
	f := Restore(SOPForm(), model.AnswerMap{"program": "CS"}, 10)
	assert.Equal(t, 2, f.Page())
	assert.Equal(t, "CS", f.Answer("program"))

	st := f.State()
	assert.Equal(t, SOPFormID, st.FormID)
	assert.True(t, st.IsLastPage)
	assert.False(t, st.CanAdvance)
}

func TestValidateDefinition(t *testing.T) {
	require.NoError(t, Validate(SOPForm()))

	bad := []*model.FormDefinition{
		{ID: "", PageSize: 1},
		{ID: "x", PageSize: 0},
		{ID: "x", PageSize: 1, Questions: []model.Question{{ID: "a", Kind: model.KindShortText}, {ID: "a", Kind: model.KindShortText}}},
		{ID: "x", PageSize: 1, Questions: []model.Question{{ID: "a", Kind: model.KindSingleChoice}}},
		{ID: "x", PageSize: 1, Questions: []model.Question{{ID: "a", Kind: model.KindLongText, Options: []string{"o"}}}},
		{ID: "x", PageSize: 1, Questions: []model.Question{{ID: "a", Kind: "slider"}}},
		{ID: "x", PageSize: 1, Questions: []model.Question{{ID: "a", Kind: model.KindShortText}},
			Rules: []model.ConditionalRule{{TriggerID: "a", TriggerValue: "v", DependentID: "missing"}}},
		{ID: "x", PageSize: 1, Questions: []model.Question{{ID: "a", Kind: model.KindShortText}, {ID: "b", Kind: model.KindShortText, Required: true}},
			Rules: []model.ConditionalRule{{TriggerID: "a", TriggerValue: "v", DependentID: "b", Substitute: true}}},
	}
	for i, d := range bad {
		assert.Error(t, Validate(d), "case %d", i)
	}
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(SOPForm())
	require.NoError(t, err)
	def, err := reg.Get(SOPFormID)
	require.NoError(t, err)
	assert.Equal(t, "Statement of Purpose", def.Title)
	_, err = reg.Get("nope")
	assert.ErrorIs(t, err, ErrFormNotFound)
	assert.Equal(t, []string{SOPFormID}, reg.IDs())
}
