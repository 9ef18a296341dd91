// Package submission is the per-form state machine guarding the single
// in-flight call to an external collaborator.
//
// Legal transitions: idle -> submitting -> (success | failed) -> idle.
package submission

import (
	"errors"
	"time"

	"gradpath/internal/model"
)

var (
	ErrAlreadySubmitting = errors.New("a submission is already in progress")
	ErrIllegalTransition = errors.New("illegal submission transition")
	ErrStaleAttempt      = errors.New("submission attempt is no longer current")
)

var now = time.Now

// Begin moves idle -> submitting under a new attempt id
func Begin(s model.Submission, attemptID string) (model.Submission, error) {
	switch s.Phase {
	case model.PhaseSubmitting:
		return s, ErrAlreadySubmitting
	case model.PhaseIdle, "":
	default:
		return s, ErrIllegalTransition
	}
	return model.Submission{Phase: model.PhaseSubmitting, AttemptID: attemptID, UpdatedAt: now()}, nil
}

// Succeed moves submitting -> success for the current attempt
func Succeed(s model.Submission, attemptID, document string) (model.Submission, error) {
	if err := checkAttempt(s, attemptID); err != nil {
		return s, err
	}
	return model.Submission{Phase: model.PhaseSuccess, AttemptID: attemptID, Document: document, UpdatedAt: now()}, nil
}

// Fail moves submitting -> failed for the current attempt
func Fail(s model.Submission, attemptID string, notice model.Notice) (model.Submission, error) {
	if err := checkAttempt(s, attemptID); err != nil {
		return s, err
	}
	return model.Submission{Phase: model.PhaseFailed, AttemptID: attemptID, Failure: &notice, UpdatedAt: now()}, nil
}

// Reset moves success or failed back to idle. Resetting idle is a no-op;
// a pending submission cannot be reset.
func Reset(s model.Submission) (model.Submission, error) {
	switch s.Phase {
	case model.PhaseSuccess, model.PhaseFailed:
		return model.Submission{Phase: model.PhaseIdle, UpdatedAt: now()}, nil
	case model.PhaseIdle, "":
		return s, nil
	default:
		return s, ErrIllegalTransition
	}
}

// Settled reports whether the submission has a final outcome
func Settled(s model.Submission) bool {
	return s.Phase == model.PhaseSuccess || s.Phase == model.PhaseFailed
}

func checkAttempt(s model.Submission, attemptID string) error {
	if s.Phase != model.PhaseSubmitting {
		return ErrIllegalTransition
	}
	if s.AttemptID != attemptID {
		return ErrStaleAttempt
	}
	return nil
}
