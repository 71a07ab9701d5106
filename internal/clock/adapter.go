package clock

import (
	"fmt"

	"github.com/vovakirdan/tui-osu/internal/core"
)

const (
	// SkipOffset is how far before the first object a skip lands.
	SkipOffset = 2000
	// skipMinimum is the shortest intro that can be skipped.
	skipMinimum = 4000
	// DesyncTolerance is the largest unexplained drift between ticks, in
	// milliseconds, that is not reported as a discontinuity.
	DesyncTolerance = 100
)

// Options configures an Adapter.
type Options struct {
	// LeadIn is the time before the track starts: audio lead-in plus
	// approach time.
	LeadIn int
	// Offset is added to every clock read.
	Offset int
	// MapEnd is the last seekable position.
	MapEnd int
}

// Tick is the adapter state after one update.
type Tick struct {
	Position      int
	LeadIn        bool
	Paused        bool
	Ended         bool
	Discontinuity bool
}

// Adapter turns an AudioClock into the track position. During lead-in the
// position counts up from -LeadIn to 0 while the clock is held at zero.
type Adapter struct {
	clock AudioClock
	opts  Options

	leadIn   int
	paused   bool
	position int
	expected int
	started  bool

	speed Speed
	carry float64
}

func NewAdapter(c AudioClock, opts Options) *Adapter {
	return &Adapter{clock: c, opts: opts, speed: SpeedNormal}
}

func (a *Adapter) Clock() AudioClock { return a.clock }
func (a *Adapter) Position() int     { return a.position }
func (a *Adapter) InLeadIn() bool    { return a.leadIn > 0 }
func (a *Adapter) Paused() bool      { return a.paused }
func (a *Adapter) Speed() Speed       { return a.speed }

// SetSpeed changes how fast track time runs against the caller's ticks.
func (a *Adapter) SetSpeed(s Speed) {
	if s <= 0 {
		s = SpeedNormal
	}
	a.speed = s
	a.carry = 0
}

// scale converts a wall-clock delta into track time, carrying the
// fraction a half-speed tick leaves over.
func (a *Adapter) scale(deltaMs int) int {
	if a.speed == SpeedNormal {
		return deltaMs
	}
	a.carry += float64(deltaMs) * float64(a.speed)
	n := int(a.carry)
	a.carry -= float64(n)
	return n
}

// Start rewinds the clock and begins the lead-in.
func (a *Adapter) Start() error {
	a.clock.Pause()
	if err := a.clock.SetPosition(0); err != nil {
		return fmt.Errorf("clock: cannot rewind: %w", err)
	}
	a.leadIn = core.Max(a.opts.LeadIn, 0)
	a.paused = false
	a.started = true
	a.position = -a.leadIn
	a.expected = a.position
	if a.leadIn == 0 {
		a.clock.Resume()
		a.position = a.read()
		a.expected = a.position
	}
	return nil
}

// Update advances by deltaMs and reads the clock.
func (a *Adapter) Update(deltaMs int) Tick {
	if !a.started || a.paused {
		return a.tick(false)
	}
	deltaMs = a.scale(deltaMs)

	if a.leadIn > 0 {
		a.leadIn -= deltaMs
		if a.leadIn > 0 {
			a.position = -a.leadIn
			a.expected = a.position
			return a.tick(false)
		}
		// The remainder of this tick runs on the track.
		carry := -a.leadIn
		a.leadIn = 0
		a.clock.Resume()
		a.step(carry)
		a.position = a.read()
		a.expected = a.position
		return a.tick(false)
	}

	a.step(deltaMs)
	pos := a.read()
	want := a.expected + deltaMs
	jump := core.Abs(pos-want) > DesyncTolerance && !a.clock.TrackEnded()
	a.position = pos
	a.expected = pos
	return a.tick(jump)
}

func (a *Adapter) tick(jump bool) Tick {
	return Tick{
		Position:      a.position,
		LeadIn:        a.leadIn > 0,
		Paused:        a.paused,
		Ended:         a.started && a.leadIn <= 0 && a.clock.TrackEnded(),
		Discontinuity: jump,
	}
}

func (a *Adapter) step(deltaMs int) {
	if s, ok := a.clock.(Stepper); ok {
		s.Advance(deltaMs)
	}
}

func (a *Adapter) read() int {
	return a.clock.Position(true) + a.opts.Offset
}

// Pause freezes the track position.
func (a *Adapter) Pause() {
	if a.paused {
		return
	}
	a.paused = true
	a.clock.Pause()
}

// Resume continues after Pause. During lead-in the clock stays stopped.
func (a *Adapter) Resume() {
	if !a.paused {
		return
	}
	a.paused = false
	if a.leadIn <= 0 {
		a.clock.Resume()
	}
	a.expected = a.position
}

// CanSkip reports whether the intro before firstObject can be skipped from
// the current position.
func (a *Adapter) CanSkip(firstObject int) bool {
	target := firstObject - SkipOffset
	return target > skipMinimum && a.position < target
}

// Skip jumps to SkipOffset before firstObject when the intro is long
// enough. It reports the target and whether it skipped.
func (a *Adapter) Skip(firstObject int) (int, bool) {
	if !a.CanSkip(firstObject) {
		return a.position, false
	}
	target := firstObject - SkipOffset
	if a.leadIn > 0 {
		a.leadIn = 0
		if !a.paused {
			a.clock.Resume()
		}
	}
	if err := a.clock.SetPosition(target - a.opts.Offset); err != nil {
		return a.position, false
	}
	a.position = a.read()
	a.expected = a.position
	return target, true
}

// Seek moves to ms, which must lie in [0, MapEnd]. On error nothing
// changes.
func (a *Adapter) Seek(ms int) error {
	if ms < 0 || ms > a.opts.MapEnd {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidCheckpoint, ms, a.opts.MapEnd)
	}
	clockPos := core.Max(ms-a.opts.Offset, 0)
	if err := a.clock.SetPosition(clockPos); err != nil {
		return err
	}
	a.leadIn = 0
	a.position = a.read()
	a.expected = a.position
	if !a.paused {
		a.clock.Resume()
	}
	return nil
}
