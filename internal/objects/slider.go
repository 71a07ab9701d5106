package objects

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// checkpoint is a tick or a repeat point along a slider.
type checkpoint struct {
	time   int
	repeat bool
}

// Slider is judged by its head press, every checkpoint it passes while the
// cursor follows it, and its tail.
type Slider struct {
	base
	curve       *beatmap.Curve
	span        float64 // duration of one pass
	repeats     int
	end         int
	checkpoints []checkpoint

	headDone  bool
	next      int
	ticksHit  int
	intervals int
}

func newSlider(b *beatmap.Beatmap, index, stack int, env *Env) (*Slider, error) {
	h := b.Objects[index]
	span := b.SliderSpan(index)
	if math.IsNaN(span) || math.IsInf(span, 0) || span < 0 {
		return nil, fmt.Errorf("bad slider duration %v", span)
	}
	if math.IsNaN(h.PixelLength) || h.PixelLength < 0 {
		return nil, fmt.Errorf("bad pixel length %v", h.PixelLength)
	}

	s := &Slider{
		base:    newBase(b, index, stack, env),
		curve:   b.SliderCurve(index),
		span:    span,
		repeats: core.Max(1, h.Repeats),
		end:     b.EndTime(index),
	}

	baseLength, beatLength := b.TimingAt(h.Time)
	d := b.Difficulty
	tickLengthDiv := 100 * d.SliderMultiplier / d.SliderTickRate / (beatLength / baseLength)
	tickCount := 0
	if tickLengthDiv > 0 && h.PixelLength > 0 {
		tickCount = core.Max(0, int(math.Ceil(h.PixelLength/tickLengthDiv))-1)
	}

	for pass := 0; pass < s.repeats; pass++ {
		for k := 1; k <= tickCount; k++ {
			f := float64(k) / float64(tickCount+1)
			s.checkpoints = append(s.checkpoints, checkpoint{time: h.Time + int((float64(pass)+f)*span)})
		}
		if pass < s.repeats-1 {
			s.checkpoints = append(s.checkpoints, checkpoint{time: h.Time + int(float64(pass+1)*span), repeat: true})
		}
	}
	s.Reset()
	return s, nil
}

func (s *Slider) Kind() Kind   { return KindSlider }
func (s *Slider) EndTime() int { return s.end }

// Checkpoints returns the number of ticks and repeat points.
func (s *Slider) Checkpoints() int {
	return len(s.checkpoints)
}

// PointAt returns the ball position, travelling back and forth over repeats.
func (s *Slider) PointAt(trackPosition int) core.Vec2 {
	if s.span <= 0 {
		return s.pos
	}
	f := core.ClampF(float64(trackPosition-s.hit.Time)/s.span, 0, float64(s.repeats))
	pass := math.Floor(f)
	t := f - pass
	if int(pass)%2 == 1 {
		t = 1 - t
	}
	return s.curve.PointAt(t).Add(s.shift)
}

// Press judges the head. Only the first press inside the miss window counts;
// the slider stays active afterwards.
func (s *Slider) Press(st State, emit Emit) bool {
	if s.resolved || s.headDone {
		return false
	}
	if st.Cursor.Dist(s.pos) > s.env.Params.Radius() {
		return false
	}
	dt := core.Abs(st.TrackPosition - s.hit.Time)
	if dt >= s.env.Params.MissWindow {
		return false
	}
	s.headDone = true
	if dt <= s.env.Params.Window50 {
		s.ticksHit++
		s.sub(st.TrackPosition, scoring.Slider30, true, s.pos, emit)
	} else {
		s.sub(st.TrackPosition, scoring.Miss, true, s.pos, emit)
	}
	return true
}

// Update judges the head timeout, every checkpoint reached and finally the
// tail.
func (s *Slider) Update(st State, emit Emit) bool {
	if s.resolved {
		return true
	}
	t := st.TrackPosition
	p := s.env.Params

	if !s.headDone {
		switch {
		case t > s.hit.Time+p.Window50 || (s.end <= s.hit.Time && t > s.hit.Time):
			s.judgeHead(t, s.auto(), emit)
		case s.auto() && core.Abs(t-s.hit.Time) <= p.Window300:
			s.judgeHead(s.hit.Time, true, emit)
		}
	}

	for s.next < len(s.checkpoints) && t >= s.checkpoints[s.next].time {
		cp := s.checkpoints[s.next]
		s.next++
		s.intervals++
		pos := s.PointAt(cp.time)
		switch {
		case s.following(st, pos):
			s.ticksHit++
			r := scoring.Slider10
			if cp.repeat {
				r = scoring.Slider30
			}
			s.sub(cp.time, r, true, pos, emit)
		default:
			s.sub(cp.time, scoring.Miss, true, pos, emit)
		}
	}

	if s.headDone && t > s.end {
		s.intervals++
		tail := s.PointAt(s.end)
		if s.following(st, tail) {
			s.ticksHit++
		}
		s.finish(s.end, s.grade(), tail, emit)
	}
	return s.resolved
}

func (s *Slider) judgeHead(t int, hit bool, emit Emit) {
	s.headDone = true
	if hit {
		s.ticksHit++
		s.sub(t, scoring.Slider30, true, s.pos, emit)
		return
	}
	s.sub(t, scoring.Miss, true, s.pos, emit)
}

func (s *Slider) following(st State, ball core.Vec2) bool {
	if s.auto() {
		return true
	}
	return st.KeyHeld && st.Cursor.Dist(ball) <= s.env.Params.FollowRadius()
}

// grade turns the share of hit intervals into the slider's final result.
func (s *Slider) grade() scoring.Result {
	ratio := float64(s.ticksHit) / float64(s.intervals)
	switch {
	case ratio >= 1:
		return scoring.Hit300
	case ratio >= 0.5:
		return scoring.Hit100
	case ratio > 0:
		return scoring.Hit50
	default:
		return scoring.Miss
	}
}

func (s *Slider) ForceMiss(t int, emit Emit) {
	if !s.resolved {
		s.finish(t, scoring.Miss, s.PointAt(t), emit)
	}
}

func (s *Slider) Reset() {
	s.resolved = false
	s.headDone = false
	s.next = 0
	s.ticksHit = 0
	s.intervals = 1 // the head
}
