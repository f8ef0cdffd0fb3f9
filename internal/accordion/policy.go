package accordion

import (
	"fmt"
	"strings"

	apperrors "github.com/shhac/roboaccordion/internal/errors"
)

// Filler is the index of the filler pseudo-segment that occupies the
// remaining space when no real segment is expanded.
const Filler = -1

// NoHistory is the PreviouslyExpanded value before any transition completed.
const NoHistory = -1

// Snapshot is the index history a TogglePolicy decides from.
type Snapshot struct {
	SegmentCount       int
	Expanded           int
	PreviouslyExpanded int
}

// TogglePolicy decides which segment is expanded on build and which one
// expands next when the open segment is clicked again.
//
// Implementations return a segment index or Filler. Anything outside
// [0, SegmentCount) is treated as Filler by the controller.
type TogglePolicy interface {
	FirstSegmentToExpand() int
	NextSegmentToExpand(clicked int, snap Snapshot) int
}

// NextPreviousPolicy expands the segment after the clicked one. The last
// segment wraps to the one before it, not to the first.
type NextPreviousPolicy struct{}

func (NextPreviousPolicy) FirstSegmentToExpand() int { return 0 }

func (NextPreviousPolicy) NextSegmentToExpand(clicked int, snap Snapshot) int {
	if clicked == snap.SegmentCount-1 {
		return clicked - 1
	}
	return clicked + 1
}

// FillerPolicy collapses the clicked segment into the filler.
type FillerPolicy struct{}

func (FillerPolicy) FirstSegmentToExpand() int { return 0 }

func (FillerPolicy) NextSegmentToExpand(int, Snapshot) int { return Filler }

// HistoryPolicy re-opens whatever was expanded just before the clicked
// segment. Without history it asks Fallback.
type HistoryPolicy struct {
	Fallback TogglePolicy
}

// NewHistoryPolicy returns a HistoryPolicy falling back to NextPreviousPolicy.
func NewHistoryPolicy() HistoryPolicy {
	return HistoryPolicy{Fallback: NextPreviousPolicy{}}
}

func (HistoryPolicy) FirstSegmentToExpand() int { return 0 }

func (p HistoryPolicy) NextSegmentToExpand(clicked int, snap Snapshot) int {
	if snap.PreviouslyExpanded == NoHistory {
		if p.Fallback == nil {
			return NextPreviousPolicy{}.NextSegmentToExpand(clicked, snap)
		}
		return p.Fallback.NextSegmentToExpand(clicked, snap)
	}
	return snap.PreviouslyExpanded
}

// MappedPolicy is a fixed clicked→next relationship. Unmapped segments
// collapse into the filler.
type MappedPolicy struct {
	First int
	Next  map[int]int
}

func (p MappedPolicy) FirstSegmentToExpand() int { return p.First }

func (p MappedPolicy) NextSegmentToExpand(clicked int, _ Snapshot) int {
	if next, ok := p.Next[clicked]; ok {
		return next
	}
	return Filler
}

// CyclePolicy walks 0 → 1 → 2 → 1 on repeated self-clicks.
func CyclePolicy() MappedPolicy {
	return MappedPolicy{
		First: 0,
		Next:  map[int]int{0: 1, 1: 2, 2: 1},
	}
}

// Policy names accepted by ParsePolicy.
const (
	PolicyHistory      = "history"
	PolicyFiller       = "filler"
	PolicyNextPrevious = "next-previous"
	PolicyCycle        = "cycle"
)

// PolicyNames lists the built-in policy names in display order.
func PolicyNames() []string {
	return []string{PolicyHistory, PolicyFiller, PolicyNextPrevious, PolicyCycle}
}

// ParsePolicy returns the built-in policy registered under name.
func ParsePolicy(name string) (TogglePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyHistory, "":
		return NewHistoryPolicy(), nil
	case PolicyFiller:
		return FillerPolicy{}, nil
	case PolicyNextPrevious, "nextprev":
		return NextPreviousPolicy{}, nil
	case PolicyCycle:
		return CyclePolicy(), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownPolicy, name)
	}
}
