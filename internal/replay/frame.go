// Package replay records and plays back input frames and persists replays
// as files.
package replay

import (
	"fmt"

	"github.com/vovakirdan/tui-osu/internal/core"
)

// Sentinel cursor position used by the reserved leading frames.
const (
	sentinelX = 256
	sentinelY = -500
)

// Frame is one recorded input state.
type Frame struct {
	TimeDiff int // milliseconds since the previous frame
	Time     int // absolute track position
	X, Y     float64
	Keys     core.Keys
}

// FromInput converts an input frame recorded after a frame at prevTime.
func FromInput(f core.Frame, prevTime int) Frame {
	return Frame{TimeDiff: f.Time - prevTime, Time: f.Time, X: f.X, Y: f.Y, Keys: f.Keys}
}

// Input returns the frame as router input.
func (f Frame) Input() core.Frame {
	return core.Frame{Time: f.Time, X: f.X, Y: f.Y, Keys: f.Keys}
}

func (f Frame) String() string {
	return fmt.Sprintf("(%d, [%.2f, %.2f], %s)", f.Time, f.X, f.Y, f.Keys)
}

// startFrame is the first reserved frame.
func startFrame() Frame {
	return Frame{X: sentinelX, Y: sentinelY}
}

// skipFrame is the second reserved frame. Its TimeDiff carries the negated
// skip time, or -1 if the intro was played through.
func skipFrame(skipTime int) Frame {
	diff := -1
	if skipTime > 0 {
		diff = -skipTime
	}
	return Frame{TimeDiff: diff, X: sentinelX, Y: sentinelY}
}

// LifeFrame samples the health bar.
type LifeFrame struct {
	Time  int
	Ratio float64 // health in [0, 1]
}
