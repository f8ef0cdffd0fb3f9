package errors

import (
	"errors"
	"io/fs"
)

// ErrorSeverity indicates the severity of an error for UI presentation.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // User should know, not blocking
	SeverityWarning                      // Degraded functionality
	SeverityError                        // Operation failed
	SeverityFatal                        // Application must exit
)

// UIError wraps an error with UI-friendly presentation metadata.
type UIError struct {
	Err      error
	Severity ErrorSeverity
	Title    string   // Short user-facing title
	Message  string   // Detailed user-facing message
	Recovery []string // Suggested actions (bullet points)
	Details  string   // Technical details (collapsed by default)
}

func (e UIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Title
}

// Unwrap returns the underlying error.
func (e UIError) Unwrap() error {
	return e.Err
}

// ClassifyError converts a standard error into a UIError with appropriate
// severity, title, message, and recovery suggestions.
func ClassifyError(err error) *UIError {
	if err == nil {
		return nil
	}

	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr
	}

	switch {
	case errors.Is(err, ErrNotConfigured):
		return &UIError{
			Err:      err,
			Severity: SeverityFatal,
			Title:    "No Segments",
			Message:  "The accordion has no segment provider.",
			Recovery: []string{"Set a provider before rebuilding the accordion"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrInvalidSegmentCount):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid Segments",
			Message:  "The segment provider reported a negative segment count.",
			Details:  err.Error(),
		}

	case errors.Is(err, ErrUnknownPolicy):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Unknown Toggle Policy",
			Message:  "The requested toggle policy does not exist.",
			Recovery: []string{"Use one of: history, filler, next-previous, cycle"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrInvalidDuration):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid Duration",
			Message:  "Animation duration must not be negative.",
			Recovery: []string{"Use a duration such as 300ms"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrNoStorage):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Layouts Unavailable",
			Message:  "Layouts cannot be saved or loaded in this session.",
			Details:  err.Error(),
		}

	case errors.Is(err, fs.ErrNotExist):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "File Not Found",
			Message:  "A configuration or segments file could not be found.",
			Recovery: []string{"Check the file path", "Run without the file to use the built-in segments"},
			Details:  err.Error(),
		}
	}

	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid Configuration",
			Message:  validationErr.Message,
			Recovery: []string{"Correct the value and try again"},
			Details:  validationErr.Error(),
		}
	}

	return &UIError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Unexpected Error",
		Message:  "An unexpected error occurred.",
		Recovery: []string{"Try again"},
		Details:  err.Error(),
	}
}
