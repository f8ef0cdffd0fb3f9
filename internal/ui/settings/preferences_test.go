package settings

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestParseDurationMillis(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		ok    bool
	}{
		{"300", 300 * time.Millisecond, true},
		{"0", 0, true},
		{"-5", 0, false},
		{"fast", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDurationMillis(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSavedDuration(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	assert.Equal(t, 300*time.Millisecond, SavedDuration(app, 300*time.Millisecond))

	app.Preferences().SetInt(PrefDuration, 120)
	assert.Equal(t, 120*time.Millisecond, SavedDuration(app, 300*time.Millisecond))

	app.Preferences().SetInt(PrefDuration, -1)
	assert.Equal(t, 300*time.Millisecond, SavedDuration(app, 300*time.Millisecond))
}
