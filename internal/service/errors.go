package service

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrResultNotReady  = errors.New("no generated document for this session")
	ErrUnknownQuestion = errors.New("unknown question")

	errAttemptAbandoned = errors.New("submission attempt was abandoned")
)
