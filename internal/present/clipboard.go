package present

import (
	"fmt"

	"github.com/atotto/clipboard"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
)

// Clipboard is a write-only text clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Copy places the whole document on the clipboard. Failures, including
// panics inside the clipboard backend, come back as a failure notice
// with the ClipboardError that caused it.
func Copy(cb Clipboard, document string) (notice model.Notice, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &apperr.ClipboardError{Err: fmt.Errorf("panic: %v", r)}
			notice = apperr.NoticeFor(err)
		}
	}()
	if err := cb.WriteAll(document); err != nil {
		cerr := &apperr.ClipboardError{Err: err}
		return apperr.NoticeFor(cerr), cerr
	}
	return model.Notice{Level: model.NoticeSuccess, Message: "Copied to clipboard"}, nil
}
