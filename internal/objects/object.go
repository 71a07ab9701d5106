// Package objects holds the judgement state machines for hit objects. Each
// beatmap object becomes exactly one Circle, Slider, Spinner or Dummy, owned
// by the timeline and addressed by its index.
package objects

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/difficulty"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// ErrMalformedObject is reported when a hit object cannot be built and a
// Dummy stands in for it.
var ErrMalformedObject = errors.New("objects: malformed hit object")

// Kind identifies the variant of an Object.
type Kind int

const (
	KindCircle Kind = iota
	KindSlider
	KindSpinner
	KindDummy
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	default:
		return "dummy"
	}
}

// State is the input snapshot an object is judged against.
type State struct {
	TrackPosition int
	Delta         int // milliseconds since the previous step
	Cursor        core.Vec2
	KeyHeld       bool
}

// Emit receives hit results as objects produce them.
type Emit func(scoring.HitResult)

// Env is shared by every object of a session.
type Env struct {
	Params difficulty.Params
	Mods   mods.Mods
}

// Object is a hit object's judgement state machine. The set of
// implementations is closed.
type Object interface {
	Index() int
	Kind() Kind
	Time() int
	EndTime() int

	// Pos is the stacked head position.
	Pos() core.Vec2
	// PointAt returns where the object wants the cursor at trackPosition.
	PointAt(trackPosition int) core.Vec2
	ComboEnd() bool

	// Update advances the object to st and reports whether it is resolved.
	Update(st State, emit Emit) bool
	// Press offers a key press and reports whether the object consumed it.
	Press(st State, emit Emit) bool
	// ForceMiss resolves the object as a miss if it is still pending.
	ForceMiss(t int, emit Emit)
	Resolved() bool
	Reset()

	isObject()
}

// base carries the fields every variant shares.
type base struct {
	env      *Env
	index    int
	hit      beatmap.HitObject
	pos      core.Vec2
	shift    core.Vec2 // stack offset applied to every position
	comboEnd bool
	resolved bool
}

func newBase(b *beatmap.Beatmap, index, stack int, env *Env) base {
	h := b.Objects[index]
	off := -float64(stack) * env.Params.StackOffset()
	shift := core.V(off, off)
	return base{
		env:      env,
		index:    index,
		hit:      h,
		pos:      h.Pos().Add(shift),
		shift:    shift,
		comboEnd: index == len(b.Objects)-1 || b.Objects[index+1].NewCombo(),
	}
}

func (o *base) Index() int     { return o.index }
func (o *base) Time() int      { return o.hit.Time }
func (o *base) Pos() core.Vec2 { return o.pos }
func (o *base) ComboEnd() bool { return o.comboEnd }
func (o *base) Resolved() bool { return o.resolved }
func (o *base) isObject()      {}

func (o *base) auto() bool {
	return o.env.Mods.Has(mods.Auto)
}

// finish resolves the object with its final grade.
func (o *base) finish(t int, r scoring.Result, pos core.Vec2, emit Emit) {
	o.resolved = true
	emit(scoring.HitResult{
		Object:   o.index,
		Time:     t,
		Result:   r,
		ComboEnd: o.comboEnd,
		Pos:      pos,
		HitSound: o.hit.HitSound,
	})
}

// sub emits a judgement that does not resolve the object.
func (o *base) sub(t int, r scoring.Result, tick bool, pos core.Vec2, emit Emit) {
	emit(scoring.HitResult{
		Object:   o.index,
		Time:     t,
		Result:   r,
		Tick:     tick,
		Pos:      pos,
		HitSound: o.hit.HitSound,
	})
}

// New builds the state machine for the object at index. A construction
// failure yields a Dummy together with an error wrapping ErrMalformedObject.
func New(b *beatmap.Beatmap, index, stack int, env *Env) (obj Object, err error) {
	defer func() {
		if r := recover(); r != nil {
			obj = newDummy(b, index, env)
			err = fmt.Errorf("%w: object %d: %v", ErrMalformedObject, index, r)
		}
	}()

	h := b.Objects[index]
	switch {
	case h.IsCircle():
		return newCircle(b, index, stack, env), nil
	case h.IsSlider():
		s, err := newSlider(b, index, stack, env)
		if err != nil {
			return newDummy(b, index, env), fmt.Errorf("%w: object %d: %v", ErrMalformedObject, index, err)
		}
		return s, nil
	case h.IsSpinner():
		if h.EndTime < h.Time {
			return newDummy(b, index, env), fmt.Errorf("%w: object %d: spinner ends at %d before it starts at %d",
				ErrMalformedObject, index, h.EndTime, h.Time)
		}
		return newSpinner(b, index, env), nil
	default:
		return newDummy(b, index, env), fmt.Errorf("%w: object %d: unknown type %d", ErrMalformedObject, index, h.Type)
	}
}
