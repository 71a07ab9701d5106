// Package clock provides the audio clocks that drive track time and the
// adapter that turns them into the game's track position.
package clock

import (
	"errors"
	"fmt"
)

// ErrInvalidCheckpoint is returned for a seek outside the playable range.
var ErrInvalidCheckpoint = errors.New("clock: seek target out of range")

// AudioClock is the song playback the game follows. Positions are in
// milliseconds from the start of the track.
type AudioClock interface {
	Position(precise bool) int
	SetPosition(ms int) error
	Pause()
	Resume()
	IsPlaying() bool
	TrackEnded() bool
}

// Stepper is implemented by clocks that do not run on their own and must
// be moved forward by the caller each tick.
type Stepper interface {
	Advance(deltaMs int)
}

// Manual is an AudioClock that only moves when advanced. It backs headless
// runs and tests.
type Manual struct {
	pos     int
	length  int
	playing bool
}

// NewManual returns a paused clock for a track of the given length. A
// length of zero never ends.
func NewManual(length int) *Manual {
	return &Manual{length: length}
}

func (m *Manual) Position(bool) int { return m.pos }
func (m *Manual) Pause()            { m.playing = false }
func (m *Manual) Resume()           { m.playing = true }
func (m *Manual) IsPlaying() bool   { return m.playing }
func (m *Manual) Length() int       { return m.length }

func (m *Manual) TrackEnded() bool {
	return m.length > 0 && m.pos >= m.length
}

func (m *Manual) SetPosition(ms int) error {
	if ms < 0 || (m.length > 0 && ms > m.length) {
		return fmt.Errorf("%w: %d", ErrInvalidCheckpoint, ms)
	}
	m.pos = ms
	return nil
}

// Advance moves a playing clock forward by deltaMs.
func (m *Manual) Advance(deltaMs int) {
	if !m.playing || deltaMs <= 0 {
		return
	}
	m.pos += deltaMs
	if m.length > 0 && m.pos > m.length {
		m.pos = m.length
	}
}

// Jump moves the clock without telling anyone, the way a desynced audio
// device would.
func (m *Manual) Jump(ms int) {
	m.pos = ms
}
