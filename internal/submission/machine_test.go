package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradpath/internal/model"
)

func TestHappyPath(t *testing.T) {
	var s model.Submission
	s, err := Begin(s, "a1")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseSubmitting, s.Phase)

	s, err = Succeed(s, "a1", "doc")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseSuccess, s.Phase)
	assert.Equal(t, "doc", s.Document)
	assert.True(t, Settled(s))

	s, err = Reset(s)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseIdle, s.Phase)
	assert.Empty(t, s.Document)
}

func TestDoubleSubmitRejected(t *testing.T) {
	s, err := Begin(model.Submission{Phase: model.PhaseIdle}, "a1")
	require.NoError(t, err)
	again, err := Begin(s, "a2")
	assert.ErrorIs(t, err, ErrAlreadySubmitting)
	assert.Equal(t, "a1", again.AttemptID)
}

func TestBeginRequiresIdle(t *testing.T) {
	_, err := Begin(model.Submission{Phase: model.PhaseSuccess}, "a")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = Begin(model.Submission{Phase: model.PhaseFailed}, "a")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestFailureCarriesNotice(t *testing.T) {
	s, _ := Begin(model.Submission{}, "a1")
	s, err := Fail(s, "a1", model.Notice{Level: model.NoticeError, Message: "try again"})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseFailed, s.Phase)
	require.NotNil(t, s.Failure)
	assert.Equal(t, "try again", s.Failure.Message)
}

func TestStaleAndIllegalCompletions(t *testing.T) {
	s, _ := Begin(model.Submission{}, "a1")
	_, err := Succeed(s, "other", "doc")
	assert.ErrorIs(t, err, ErrStaleAttempt)

	_, err = Succeed(model.Submission{Phase: model.PhaseIdle}, "a1", "doc")
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = Fail(model.Submission{Phase: model.PhaseSuccess, AttemptID: "a1"}, "a1", model.Notice{})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestResetWhileSubmittingIsIllegal(t *testing.T) {
	s, _ := Begin(model.Submission{}, "a1")
	_, err := Reset(s)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	idle, err := Reset(model.Submission{Phase: model.PhaseIdle})
	require.NoError(t, err)
	assert.Equal(t, model.PhaseIdle, idle.Phase)
}
