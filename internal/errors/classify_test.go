package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		title    string
		severity ErrorSeverity
	}{
		{"not configured", ErrNotConfigured, "No Segments", SeverityFatal},
		{"segment count", fmt.Errorf("build: %w", ErrInvalidSegmentCount), "Invalid Segments", SeverityError},
		{"policy", fmt.Errorf("%w: %q", ErrUnknownPolicy, "x"), "Unknown Toggle Policy", SeverityError},
		{"duration", ErrInvalidDuration, "Invalid Duration", SeverityError},
		{"storage", ErrNoStorage, "Layouts Unavailable", SeverityWarning},
		{"missing file", fmt.Errorf("read: %w", fs.ErrNotExist), "File Not Found", SeverityError},
		{"validation", ValidationError{Field: "theme", Message: "unknown theme"}, "Invalid Configuration", SeverityError},
		{"other", fmt.Errorf("boom"), "Unexpected Error", SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uiErr := ClassifyError(tt.err)
			require.NotNil(t, uiErr)
			assert.Equal(t, tt.title, uiErr.Title)
			assert.Equal(t, tt.severity, uiErr.Severity)
			assert.ErrorIs(t, uiErr, tt.err)
			assert.Equal(t, tt.err.Error(), uiErr.Details)
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestClassifyError_PassesThroughUIError(t *testing.T) {
	original := &UIError{Title: "Custom", Severity: SeverityInfo}
	assert.Same(t, original, ClassifyError(fmt.Errorf("wrapped: %w", original)))
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "theme: bad", ValidationError{Field: "theme", Message: "bad"}.Error())
	assert.Equal(t, "bad", ValidationError{Message: "bad"}.Error())
}
