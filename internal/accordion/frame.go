package accordion

// VisibilityThreshold is the height, in device-independent units, below
// which the expanding panel stays hidden. The same margin triggers the
// final snap to fill.
const VisibilityThreshold float32 = 5

// Frame is one step of a transition as the host should render it.
type Frame struct {
	Fraction float32

	Expanding int
	// ExpandingHeight is ignored when Fill is set.
	ExpandingHeight  float32
	ExpandingVisible bool

	Collapsing        int
	CollapsingHeight  float32
	CollapsingVisible bool

	// Fill means the expanding panel takes all remaining space.
	Fill bool
}

// Interpolate computes both panel heights for fraction f of a transition
// whose collapsing panel measured h at the start. Both heights follow one
// linear ramp, so they always sum to h.
func Interpolate(h, f float32) (collapsing, expanding float32) {
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	expanding = h * f
	collapsing = h - expanding
	return collapsing, expanding
}

func buildFrame(expandingIdx, collapsingIdx int, h, f float32) Frame {
	collapsing, expanding := Interpolate(h, f)
	frame := Frame{
		Fraction:          f,
		Expanding:         expandingIdx,
		ExpandingHeight:   expanding,
		ExpandingVisible:  expanding >= VisibilityThreshold,
		Collapsing:        collapsingIdx,
		CollapsingHeight:  collapsing,
		CollapsingVisible: true,
	}
	if expanding > h-VisibilityThreshold {
		frame.Fill = true
		frame.ExpandingVisible = true
		frame.CollapsingVisible = false
	}
	return frame
}
