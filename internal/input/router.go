// Package input turns input frames into judgement calls. Live play, replay
// playback and autoplay all go through the same Router so that a recorded
// session reproduces its results exactly.
package input

import (
	"math"
	"sort"

	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/objects"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/timeline"
)

// spinRadius is the radius of the circle the auto cursor draws around a
// spinner.
const spinRadius = 50.0

// Result is the outcome of routing one frame.
type Result struct {
	// Frame is the effective input after mods were applied. It is what a
	// recorder should store.
	Frame   core.Frame
	Results []scoring.HitResult
	// Presses counts the presses that were dispatched to the timeline.
	Presses int
}

// Router dispatches frames to a timeline.
type Router struct {
	tl   *timeline.Timeline
	mods mods.Mods

	prevKeys core.Keys
	prevTime int
	started  bool
}

// NewRouter creates a router feeding tl under the given mods.
func NewRouter(tl *timeline.Timeline, m mods.Mods) *Router {
	return &Router{tl: tl, mods: m}
}

// Reset forgets the previous frame.
func (r *Router) Reset() {
	r.prevKeys = core.KeyNone
	r.prevTime = 0
	r.started = false
}

func (r *Router) Mods() mods.Mods { return r.mods }

// Route processes one frame: presses first, oldest unresolved object
// first, then the timeline advance to the frame's time.
func (r *Router) Route(f core.Frame) Result {
	delta := 0
	if r.started {
		delta = core.Max(f.Time-r.prevTime, 0)
	}

	eff := r.effective(f)
	res := Result{Frame: eff}
	st := objects.State{
		TrackPosition: eff.Time,
		Delta:         delta,
		Cursor:        eff.Cursor(),
		KeyHeld:       eff.Keys.Pressed(),
	}

	switch {
	case r.mods.Has(mods.Auto):
		// Objects judge themselves.
	case r.mods.Has(mods.Relax):
		if r.relaxDue(eff.Time) {
			res.Results = append(res.Results, r.tl.Press(st)...)
			res.Presses++
		}
	default:
		for range eff.Keys.NewPresses(r.prevKeys) {
			res.Results = append(res.Results, r.tl.Press(st)...)
			res.Presses++
		}
	}
	res.Results = append(res.Results, r.tl.Advance(st)...)

	r.prevKeys = eff.Keys
	r.prevTime = eff.Time
	r.started = true
	return res
}

// effective applies cursor and key overrides for the active mods.
func (r *Router) effective(f core.Frame) core.Frame {
	switch {
	case r.mods.Has(mods.Auto):
		p := AutoCursor(r.tl, f.Time, 1)
		f.X, f.Y = p.X, p.Y
		f.Keys = core.KeyNone
		if active(r.tl.Objects(), f.Time) != nil {
			f.Keys = core.KeyK1
		}
	case r.mods.Has(mods.Autopilot):
		p := AutoCursor(r.tl, f.Time, 2)
		f.X, f.Y = p.X, p.Y
	case r.mods.Has(mods.Relax):
		f.Keys |= core.KeyK1
	}
	return f
}

// relaxDue reports whether an unresolved object at the cursor or in the
// passed set is inside the 300 window at t.
func (r *Router) relaxDue(t int) bool {
	w := r.tl.Params().Window300
	objs := r.tl.Objects()
	for _, i := range r.tl.Passed() {
		if !objs[i].Resolved() && core.Abs(t-objs[i].Time()) <= w {
			return true
		}
	}
	o := r.tl.Current()
	return o != nil && !o.Resolved() && core.Abs(t-o.Time()) <= w
}

// AutoCursor returns the synthetic cursor at t. Between objects it moves
// linearly from the previous end point to the next start point, with rate
// scaling the time fraction (clamped to [0,1]). Inside a slider it follows
// the ball and inside a spinner it circles the centre.
func AutoCursor(tl *timeline.Timeline, t int, rate float64) core.Vec2 {
	objs := tl.Objects()
	if len(objs) == 0 {
		return core.PlayfieldCenter()
	}
	if o := active(objs, t); o != nil {
		if o.Kind() == objects.KindSpinner {
			angle := float64(t-o.Time()) / 20
			return o.Pos().Add(core.V(math.Cos(angle), math.Sin(angle)).Scale(spinRadius))
		}
		return o.PointAt(t)
	}

	next := sort.Search(len(objs), func(i int) bool { return objs[i].Time() > t })
	if next == len(objs) {
		last := objs[len(objs)-1]
		return last.PointAt(last.EndTime())
	}

	to := objs[next].PointAt(objs[next].Time())
	toTime := objs[next].Time()
	from := core.PlayfieldCenter()
	fromTime := toTime - tl.Params().ApproachTime
	if next > 0 {
		prev := objs[next-1]
		from = prev.PointAt(prev.EndTime())
		fromTime = prev.EndTime()
	}

	gap := toTime - fromTime
	if gap <= 0 {
		return to
	}
	frac := core.ClampF(float64(t-fromTime)/float64(gap)*rate, 0, 1)
	return core.Lerp(from, to, frac)
}

// active returns the slider or spinner running at t, if any.
func active(objs []objects.Object, t int) objects.Object {
	i := sort.Search(len(objs), func(i int) bool { return objs[i].Time() > t }) - 1
	if i < 0 {
		return nil
	}
	o := objs[i]
	if o.Kind() != objects.KindSlider && o.Kind() != objects.KindSpinner {
		return nil
	}
	if t > o.EndTime() {
		return nil
	}
	return o
}
