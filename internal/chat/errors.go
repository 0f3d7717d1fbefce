package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a send or import is already in flight for the session.
	ErrBusy = errors.New("session is busy")
	// ErrEmptyMessage is returned for blank user input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrUnsupportedFile is returned for uploads of a type the operation does not accept.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrFileTooLarge is returned for uploads above MaxUploadBytes.
	ErrFileTooLarge = errors.New("file too large")
	// ErrTooManyPages is returned for PDFs longer than the import page limit.
	ErrTooManyPages = errors.New("document has too many pages")
	// ErrInvalidTemplate is returned by SelectTemplate for unknown identifiers.
	ErrInvalidTemplate = errors.New("unknown template")
)

// FileError represents a rejected upload
type FileError struct {
	FileName string
	MIMEType string
	Err      error
}

func (e *FileError) Error() string {
	if e.MIMEType != "" {
		return fmt.Sprintf("file %q (%s): %v", e.FileName, e.MIMEType, e.Err)
	}
	return fmt.Sprintf("file %q: %v", e.FileName, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
