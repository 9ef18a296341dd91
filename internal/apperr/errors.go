// Package apperr defines the user-facing failure taxonomy and converts
// failures into transient notices.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	"gradpath/internal/model"
)

// ValidationError lists required questions or fields that have no answer
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "missing required answers: " + strings.Join(e.Missing, ", ")
}

// Invalid builds a ValidationError for a single field rule
func Invalid(reason string, fields ...string) *ValidationError {
	return &ValidationError{Missing: fields, Reason: reason}
}

// RemoteCallError is a network, timeout or non-success failure of an
// external collaborator
type RemoteCallError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteCallError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: remote returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

// RemoteResponseError is a response whose shape could not be trusted
type RemoteResponseError struct {
	Op     string
	Reason string
}

func (e *RemoteResponseError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %s", e.Op, e.Reason)
}

// ClipboardError is a best-effort clipboard write failure
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }

// Notice codes
const (
	CodeValidation     = "validation"
	CodeRemoteCall     = "remote_call"
	CodeRemoteResponse = "remote_response"
	CodeClipboard      = "clipboard"
	CodeInternal       = "internal"
)

// NoticeFor converts a failure into the transient notice shown to the user
func NoticeFor(err error) model.Notice {
	var (
		valErr  *ValidationError
		callErr *RemoteCallError
		respErr *RemoteResponseError
		clipErr *ClipboardError
	)
	switch {
	case errors.As(err, &valErr):
		msg := "Please answer all required questions before proceeding"
		if valErr.Reason != "" {
			msg = valErr.Reason
		}
		return model.Notice{Level: model.NoticeError, Code: CodeValidation, Message: msg}
	case errors.As(err, &callErr):
		return model.Notice{Level: model.NoticeError, Code: CodeRemoteCall, Message: "The request failed. Please try again."}
	case errors.As(err, &respErr):
		return model.Notice{Level: model.NoticeError, Code: CodeRemoteResponse, Message: "The service returned an unexpected response. Please try again."}
	case errors.As(err, &clipErr):
		return model.Notice{Level: model.NoticeError, Code: CodeClipboard, Message: "Failed to copy text"}
	default:
		return model.Notice{Level: model.NoticeError, Code: CodeInternal, Message: "Something went wrong. Please try again."}
	}
}
