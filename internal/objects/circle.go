package objects

import (
	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// Circle is judged by a single press.
type Circle struct {
	base
}

func newCircle(b *beatmap.Beatmap, index, stack int, env *Env) *Circle {
	return &Circle{base: newBase(b, index, stack, env)}
}

func (c *Circle) Kind() Kind                          { return KindCircle }
func (c *Circle) EndTime() int                        { return c.hit.Time }
func (c *Circle) PointAt(trackPosition int) core.Vec2 { return c.pos }

// Grade returns the result for a press dt milliseconds away from the
// circle's time.
func (c *Circle) Grade(dt int) scoring.Result {
	p := c.env.Params
	dt = core.Abs(dt)
	switch {
	case dt <= p.Window300:
		return scoring.Hit300
	case dt <= p.Window100:
		return scoring.Hit100
	case dt <= p.Window50:
		return scoring.Hit50
	default:
		return scoring.Miss
	}
}

// Press hits the circle when the cursor is over it and the press falls
// inside the miss window. Earlier presses are ignored.
func (c *Circle) Press(st State, emit Emit) bool {
	if c.resolved {
		return false
	}
	if st.Cursor.Dist(c.pos) > c.env.Params.Radius() {
		return false
	}
	dt := st.TrackPosition - c.hit.Time
	if core.Abs(dt) >= c.env.Params.MissWindow {
		return false
	}
	c.finish(st.TrackPosition, c.Grade(dt), c.pos, emit)
	return true
}

// Update resolves the circle as a miss once the 50 window has passed. Under
// Auto it hits itself perfectly.
func (c *Circle) Update(st State, emit Emit) bool {
	if c.resolved {
		return true
	}
	dt := st.TrackPosition - c.hit.Time
	switch {
	case c.auto() && (core.Abs(dt) <= c.env.Params.Window300 || dt > 0):
		c.finish(c.hit.Time, scoring.Hit300, c.pos, emit)
	case dt > c.env.Params.Window50:
		c.finish(st.TrackPosition, scoring.Miss, c.pos, emit)
	}
	return c.resolved
}

func (c *Circle) ForceMiss(t int, emit Emit) {
	if !c.resolved {
		c.finish(t, scoring.Miss, c.pos, emit)
	}
}

func (c *Circle) Reset() {
	c.resolved = false
}
