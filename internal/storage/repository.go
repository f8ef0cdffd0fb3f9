package storage

import "github.com/shhac/roboaccordion/internal/segments"

// Session is the demo state restored on the next launch.
type Session struct {
	Policy string `json:"policy"`
	Layout string `json:"layout,omitempty"` // last loaded layout, empty for the default content
}

// Repository defines persistence operations for the demo
type Repository interface {
	// Layout operations
	SaveLayout(name string, defs []segments.Definition) error
	LoadLayout(name string) ([]segments.Definition, error)
	ListLayouts() ([]string, error)
	DeleteLayout(name string) error

	// Session operations
	SaveSession(session Session) error
	LoadSession() (*Session, error)
}
