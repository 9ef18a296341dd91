package wizard

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
)

func completeSOP() model.AnswerMap {
	return model.AnswerMap{
		QuestionUniversity: "Stanford University",
		"program":          "MS Computer Science",
		"background":       "BSc in CS",
		"whyProgram":       "AI research",
		"careerGoals":      "Research lead",
		"skills":           "Go, ML",
		"contribution":     "Mentoring",
	}
}

func TestFinalizeListsAllMissingRequired(t *testing.T) {
	qs := []model.Question{
		{ID: "A", Required: true},
		{ID: "B", Required: true},
		{ID: "C"},
	}
	_, err := Finalize(model.AnswerMap{"B": "  "}, qs, nil)
	var valErr *apperr.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"A", "B"}, valErr.Missing)
}

func TestFinalizeChecksEveryPage(t *testing.T) {
	def := SOPForm()
	answers := completeSOP()
	delete(answers, "contribution") // last page
	_, err := Finalize(answers, VisibleQuestions(def.Questions, def.Rules, answers), def.Rules)
	var valErr *apperr.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"contribution"}, valErr.Missing)
}

func TestFinalizeSubstitutesOtherUniversity(t *testing.T) {
	def := SOPForm()
	answers := completeSOP()
	answers[QuestionUniversity] = OtherUniversity
	answers[QuestionOtherUni] = "KTH Royal Institute of Technology"
	visible := VisibleQuestions(def.Questions, def.Rules, answers)

	got, err := Finalize(answers, visible, def.Rules)
	require.NoError(t, err)
	assert.Equal(t, "KTH Royal Institute of Technology", got.Get(QuestionUniversity))
	assert.NotContains(t, got.Keys(), QuestionOtherUni)
	// input is untouched
	assert.Equal(t, OtherUniversity, answers[QuestionUniversity])
}

func TestFinalizeKeepsSentinelWithoutOverride(t *testing.T) {
	def := SOPForm()
	answers := completeSOP()
	answers[QuestionUniversity] = OtherUniversity
	got, err := Finalize(answers, VisibleQuestions(def.Questions, def.Rules, answers), def.Rules)
	require.NoError(t, err)
	assert.Equal(t, OtherUniversity, got.Get(QuestionUniversity))
}

func TestFinalizeIsIdempotent(t *testing.T) {
	def := SOPForm()
	cases := map[string]model.AnswerMap{
		"plain": completeSOP(),
		"substituted": func() model.AnswerMap {
			m := completeSOP()
			m[QuestionUniversity] = OtherUniversity
			m[QuestionOtherUni] = "Other"
			return m
		}(),
		"override": func() model.AnswerMap {
			m := completeSOP()
			m[QuestionUniversity] = OtherUniversity
			m[QuestionOtherUni] = "TU Delft"
			return m
		}(),
	}
	for name, answers := range cases {
		t.Run(name, func(t *testing.T) {
			visible := VisibleQuestions(def.Questions, def.Rules, answers)
			once, err := Finalize(answers, visible, def.Rules)
			require.NoError(t, err)
			twice, err := Finalize(once.Map(), visible, def.Rules)
			require.NoError(t, err)
			if diff := cmp.Diff(once.Map(), twice.Map()); diff != "" {
				t.Fatalf("finalize not idempotent (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestFinalizedIsImmutable(t *testing.T) {
	def := SOPForm()
	answers := completeSOP()
	got, err := Finalize(answers, VisibleQuestions(def.Questions, def.Rules, answers), def.Rules)
	require.NoError(t, err)

	m := got.Map()
	m["program"] = "changed"
	assert.Equal(t, "MS Computer Science", got.Get("program"))

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"program":"MS Computer Science"`)
}
