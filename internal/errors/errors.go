package errors

import "errors"

// Sentinel errors for accordion misconfiguration.
var (
	ErrNotConfigured       = errors.New("no segment provider configured")
	ErrIndexOutOfRange     = errors.New("segment index out of range")
	ErrInvalidSegmentCount = errors.New("invalid segment count")
	ErrInvalidDuration     = errors.New("invalid animation duration")
	ErrUnknownPolicy       = errors.New("unknown toggle policy")
	ErrNoStorage           = errors.New("layout storage unavailable")
)

// ValidationError represents a configuration field validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
