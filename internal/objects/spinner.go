package objects

import (
	"math"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// Spinner is judged by how many rotations the cursor makes around the
// playfield centre before its end time.
type Spinner struct {
	base
	end    int
	needed float64

	rotations float64
	lastAngle float64
	hasAngle  bool
}

func newSpinner(b *beatmap.Beatmap, index int, env *Env) *Spinner {
	h := b.Objects[index]
	spinsPerMinute := 100 + env.Params.Stats.OD*15
	s := &Spinner{
		base:   newBase(b, index, 0, env),
		end:    h.EndTime,
		needed: spinsPerMinute * float64(h.EndTime-h.Time) / 60000,
	}
	s.pos = core.PlayfieldCenter()
	return s
}

func (s *Spinner) Kind() Kind               { return KindSpinner }
func (s *Spinner) EndTime() int             { return s.end }
func (s *Spinner) PointAt(int) core.Vec2    { return s.pos }
func (s *Spinner) Press(State, Emit) bool   { return false }
func (s *Spinner) Rotations() float64       { return s.rotations }
func (s *Spinner) RotationsNeeded() float64 { return s.needed }

// Update accumulates rotation while the spinner runs and grades it once the
// end time has passed.
func (s *Spinner) Update(st State, emit Emit) bool {
	if s.resolved {
		return true
	}
	t := st.TrackPosition
	if t > s.end {
		s.finish(s.end, s.grade(), s.pos, emit)
		return true
	}
	if t < s.hit.Time {
		return false
	}

	switch {
	case s.auto():
		s.spin(float64(st.Delta)/20, st, emit)
	case s.env.Mods.Has(mods.SpunOut):
		s.spin(float64(st.Delta)/32, st, emit)
	case !st.KeyHeld:
		s.hasAngle = false
	case s.env.Mods.Has(mods.Autopilot):
		// The synthetic cursor circles at the auto rate.
		s.spin(float64(st.Delta)/20, st, emit)
	default:
		d := st.Cursor.Sub(core.PlayfieldCenter())
		angle := math.Atan2(d.Y, d.X)
		if s.hasAngle {
			diff := math.Abs(wrapAngle(angle - s.lastAngle))
			// Huge jumps are teleports, not spins.
			if diff < math.Pi/2 {
				s.spin(diff, st, emit)
			}
		}
		s.lastAngle = angle
		s.hasAngle = true
	}
	return false
}

// spin keeps health topped up for the time spent spinning, then rotates.
func (s *Spinner) spin(rad float64, st State, emit Emit) {
	if st.Delta > 0 {
		emit(scoring.HitResult{
			Object: s.index,
			Time:   st.TrackPosition,
			Result: scoring.SpinnerHold,
			Held:   st.Delta,
			Pos:    s.pos,
		})
	}
	s.rotate(rad, st.TrackPosition, emit)
}

// rotate adds rad radians and emits one result per whole rotation crossed.
func (s *Spinner) rotate(rad float64, t int, emit Emit) {
	if rad <= 0 {
		return
	}
	next := s.rotations + rad/(2*math.Pi)
	for n := math.Floor(s.rotations) + 1; n <= math.Floor(next); n++ {
		r := scoring.SpinnerSpin
		if n > s.needed {
			r = scoring.SpinnerBonus
		}
		s.sub(t, r, false, s.pos, emit)
	}
	s.rotations = next
}

func (s *Spinner) grade() scoring.Result {
	if s.needed <= 0 || s.env.Mods.Any(mods.Auto|mods.SpunOut) {
		return scoring.Hit300
	}
	ratio := s.rotations / s.needed
	switch {
	case ratio >= 1:
		return scoring.Hit300
	case ratio >= 0.8:
		return scoring.Hit100
	case ratio >= 0.5:
		return scoring.Hit50
	default:
		return scoring.Miss
	}
}

func (s *Spinner) ForceMiss(t int, emit Emit) {
	if !s.resolved {
		s.finish(t, scoring.Miss, s.pos, emit)
	}
}

func (s *Spinner) Reset() {
	s.resolved = false
	s.rotations = 0
	s.lastAngle = 0
	s.hasAngle = false
}

// wrapAngle maps a to (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
