package session

import "errors"

// Local validation errors. All are rejected before any network call and
// surfaced to the user as an immediate toast; none causes a state
// transition.
var (
	ErrInvalidFileKind = errors.New("only PDF files are allowed")
	ErrFileTooLarge    = errors.New("file too large: maximum size is 16 MiB")
	ErrDocumentLoaded  = errors.New("a document is already loaded; reset the session first")
	ErrEmptyQuestion   = errors.New("question cannot be empty")
	ErrNoDocument      = errors.New("no document uploaded yet")
)

// ErrResetWhileAsking is the concurrency rejection for a reset requested
// while an answer is outstanding. Aborting a backend call that is not
// itself cancellable would leave the server-side session inconsistent with
// ours, so the reset is refused with a warning instead of queued.
var ErrResetWhileAsking = errors.New("cannot reset while an answer is in flight")

// IsValidationError reports whether err is one of the local validation
// rejections.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidFileKind) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrDocumentLoaded) ||
		errors.Is(err, ErrEmptyQuestion) ||
		errors.Is(err, ErrNoDocument)
}
