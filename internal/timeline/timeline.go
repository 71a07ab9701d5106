// Package timeline schedules hit objects against the track position: it
// owns the object arena, the cursor of the next unresolved object and the
// set of objects passed by the cursor that are still waiting for judgement.
package timeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/difficulty"
	"github.com/vovakirdan/tui-osu/internal/objects"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// ErrNoObjects is returned for a beatmap without hit objects.
var ErrNoObjects = errors.New("timeline: beatmap has no hit objects")

// Timeline is driven by one goroutine; it has no locking.
type Timeline struct {
	beatmap *beatmap.Beatmap
	env     *objects.Env
	objs    []objects.Object
	stacks  []int
	logger  *log.Logger

	index    int   // next object the cursor has not passed
	passed   []int // passed but unresolved, oldest first
	finished bool

	tpIndex        int
	baseBeatLength float64
	beatLength     float64
}

// New builds the object arena for b. Objects that fail to build are replaced
// by dummies and logged.
func New(b *beatmap.Beatmap, env *objects.Env, logger *log.Logger) (*Timeline, error) {
	if b == nil || len(b.Objects) == 0 {
		return nil, ErrNoObjects
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	tl := &Timeline{
		beatmap: b,
		env:     env,
		logger:  logger,
		stacks:  b.Stacks(float64(env.Params.ApproachTime)),
		objs:    make([]objects.Object, len(b.Objects)),
	}
	for i := range b.Objects {
		obj, err := objects.New(b, i, tl.stacks[i], env)
		if err != nil {
			logger.Warn("substituting dummy for malformed object", "index", i, "time", b.Objects[i].Time, "error", err)
		}
		tl.objs[i] = obj
	}
	tl.Reset()
	return tl, nil
}

// Reset rewinds every object and the cursor to the start of the map.
func (tl *Timeline) Reset() {
	for _, o := range tl.objs {
		o.Reset()
	}
	tl.index = 0
	tl.passed = tl.passed[:0]
	tl.finished = false
	tl.Resync(0)
}

// Advance moves the timeline to st.TrackPosition and returns the results
// produced on the way. Nothing is judged inside a break.
func (tl *Timeline) Advance(st objects.State) []scoring.HitResult {
	tl.syncTimingPoint(st.TrackPosition)
	if tl.finished || tl.beatmap.InBreak(st.TrackPosition) {
		return nil
	}

	var out []scoring.HitResult
	emit := func(r scoring.HitResult) { out = append(out, r) }

	kept := tl.passed[:0]
	for _, i := range tl.passed {
		if !tl.objs[i].Update(st, emit) {
			kept = append(kept, i)
		}
	}
	tl.passed = kept

	window := tl.env.Params.Window50
	n := len(tl.objs)
	for tl.index < n && st.TrackPosition > tl.objs[tl.index].Time() {
		obj := tl.objs[tl.index]
		overlap := tl.index+1 < n && st.TrackPosition > tl.objs[tl.index+1].Time()-window

		resolved := obj.Update(st, emit)
		switch {
		case resolved:
			tl.index++
		case overlap:
			// The next object is already judgeable; keep this one pending
			// alongside it.
			tl.passed = append(tl.passed, tl.index)
			tl.index++
		default:
			return out
		}
	}
	return out
}

// Press offers one key press to the passed objects, oldest first, then to
// the current object. At most one object consumes it.
func (tl *Timeline) Press(st objects.State) []scoring.HitResult {
	if tl.finished || tl.beatmap.InBreak(st.TrackPosition) {
		return nil
	}

	var out []scoring.HitResult
	emit := func(r scoring.HitResult) { out = append(out, r) }

	for k, i := range tl.passed {
		if !tl.objs[i].Press(st, emit) {
			continue
		}
		if tl.objs[i].Resolved() {
			tl.passed = append(tl.passed[:k], tl.passed[k+1:]...)
		}
		return out
	}

	if tl.index < len(tl.objs) {
		obj := tl.objs[tl.index]
		if obj.Press(st, emit) && obj.Resolved() {
			tl.index++
		}
	}
	return out
}

// Finish resolves every remaining object as a miss at time t and marks the
// map complete.
func (tl *Timeline) Finish(t int) []scoring.HitResult {
	if tl.finished {
		return nil
	}
	var out []scoring.HitResult
	emit := func(r scoring.HitResult) { out = append(out, r) }

	for _, i := range tl.passed {
		tl.objs[i].ForceMiss(t, emit)
	}
	for ; tl.index < len(tl.objs); tl.index++ {
		tl.objs[tl.index].ForceMiss(t, emit)
	}
	tl.passed = tl.passed[:0]
	tl.finished = true
	return out
}

// Complete reports whether every object has been judged.
func (tl *Timeline) Complete() bool {
	return tl.finished || (tl.index == len(tl.objs) && len(tl.passed) == 0)
}

// syncTimingPoint applies every timing point at or before t. It is the only
// place the timing index moves forward.
func (tl *Timeline) syncTimingPoint(t int) {
	tps := tl.beatmap.TimingPoints
	for tl.tpIndex < len(tps) && tps[tl.tpIndex].Time <= t {
		tp := tps[tl.tpIndex]
		if tp.Inherited {
			tl.beatLength = tl.baseBeatLength * tp.BeatLengthFactor()
		} else {
			tl.baseBeatLength = tp.BeatLength
			tl.beatLength = tp.BeatLength
		}
		tl.tpIndex++
	}
}

// Resync re-derives the timing state for t from scratch. Callers use it
// after the clock jumps.
func (tl *Timeline) Resync(t int) {
	tl.tpIndex = 0
	tl.baseBeatLength, tl.beatLength = 500, 500
	for _, tp := range tl.beatmap.TimingPoints {
		if !tp.Inherited {
			tl.baseBeatLength, tl.beatLength = tp.BeatLength, tp.BeatLength
			break
		}
	}
	tl.syncTimingPoint(t)
}

// BeatLength returns the effective beat length at the last advanced time.
func (tl *Timeline) BeatLength() float64 {
	return tl.beatLength
}

// BaseBeatLength returns the uninherited beat length in effect.
func (tl *Timeline) BaseBeatLength() float64 {
	return tl.baseBeatLength
}

// TimingPoint returns the timing point last applied, if any.
func (tl *Timeline) TimingPoint() (beatmap.TimingPoint, bool) {
	if tl.tpIndex == 0 {
		return beatmap.TimingPoint{}, false
	}
	return tl.beatmap.TimingPoints[tl.tpIndex-1], true
}

func (tl *Timeline) ObjectIndex() int          { return tl.index }
func (tl *Timeline) Len() int                  { return len(tl.objs) }
func (tl *Timeline) Objects() []objects.Object { return tl.objs }
func (tl *Timeline) Stacks() []int             { return tl.stacks }
func (tl *Timeline) Params() difficulty.Params { return tl.env.Params }
func (tl *Timeline) Beatmap() *beatmap.Beatmap { return tl.beatmap }

// Passed returns a copy of the passed-but-unresolved indexes.
func (tl *Timeline) Passed() []int {
	return append([]int(nil), tl.passed...)
}

// Current returns the object at the cursor, or nil once every object has
// been passed.
func (tl *Timeline) Current() objects.Object {
	if tl.index >= len(tl.objs) {
		return nil
	}
	return tl.objs[tl.index]
}

func (tl *Timeline) String() string {
	return fmt.Sprintf("timeline{index=%d/%d passed=%v finished=%v}", tl.index, len(tl.objs), tl.passed, tl.finished)
}
