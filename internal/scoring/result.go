// Package scoring turns judgement results into score, combo, accuracy and
// health. A Model is owned by one play attempt and reset between attempts.
package scoring

import (
	"fmt"

	"github.com/vovakirdan/tui-osu/internal/core"
)

// Result is the outcome of one judgement.
type Result int

const (
	Miss Result = iota
	Hit50
	Hit100
	Hit300
	Slider10
	Slider30
	SpinnerSpin
	SpinnerBonus
	SpinnerHold
	resultCount
)

var resultNames = [...]string{"miss", "50", "100", "300", "slider10", "slider30", "spin", "bonus", "hold"}

func (r Result) String() string {
	if r < 0 || r >= resultCount {
		return fmt.Sprintf("Result(%d)", int(r))
	}
	return resultNames[r]
}

// Value returns the raw points of the result before combo scaling.
func (r Result) Value() int {
	switch r {
	case Hit300:
		return 300
	case Hit100:
		return 100
	case Hit50:
		return 50
	case Slider30:
		return 30
	case Slider10:
		return 10
	case SpinnerSpin:
		return 100
	case SpinnerBonus:
		return 1000
	default:
		return 0
	}
}

// IsObject reports whether r grades a whole hit object (as opposed to a
// slider tick or spinner rotation).
func (r Result) IsObject() bool {
	return r <= Hit300
}

// HitResult is one judgement emitted by a hit object.
type HitResult struct {
	Object   int // index of the object in the timeline
	Time     int // track position at which the judgement fired
	Result   Result
	Tick     bool // slider sub-judgement (head, tick, repeat) rather than the final grade
	ComboEnd bool // last object of its combo
	Pos      core.Vec2
	HitSound int
	Held     int // ms spent spinning, for SpinnerHold
}

func (h HitResult) String() string {
	tick := ""
	if h.Tick {
		tick = " tick"
	}
	return fmt.Sprintf("#%d@%d %s%s", h.Object, h.Time, h.Result, tick)
}
