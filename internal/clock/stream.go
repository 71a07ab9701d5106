package clock

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// DefaultSampleRate is used for generated silence.
const DefaultSampleRate = beep.SampleRate(44100)

// chunk is the number of samples pulled from the stream per read.
const chunk = 512

// Stream is an AudioClock backed by a beep stream. It is stepped offline:
// each Advance pulls the matching number of samples through a Ctrl, so
// the position is whatever the decoder has consumed.
type Stream struct {
	seeker beep.StreamSeeker
	ctrl   *beep.Ctrl
	format beep.Format
	closer io.Closer
	buf    [][2]float64
	ended  bool
}

// NewStream wraps s. The stream starts paused.
func NewStream(s beep.StreamSeeker, format beep.Format) *Stream {
	return &Stream{
		seeker: s,
		ctrl:   &beep.Ctrl{Streamer: s, Paused: true},
		format: format,
		buf:    make([][2]float64, chunk),
	}
}

// OpenAudio decodes a WAV file into a stream clock. Close releases the
// file.
func OpenAudio(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("clock: cannot open audio %s: %w", path, err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("clock: cannot decode %s: %w", path, err)
	}
	st := NewStream(s, format)
	st.closer = s
	return st, nil
}

// Silence returns a stream clock of the given length with no audio, for
// beatmaps without a song file.
func Silence(length time.Duration) *Stream {
	format := beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(format)
	buf.Append(beep.Silence(format.SampleRate.N(length)))
	return NewStream(buf.Streamer(0, buf.Len()), format)
}

func (s *Stream) Format() beep.Format { return s.format }
func (s *Stream) Pause()              { s.ctrl.Paused = true }
func (s *Stream) IsPlaying() bool     { return !s.ctrl.Paused && !s.ended }
func (s *Stream) TrackEnded() bool    { return s.ended }

func (s *Stream) Resume() {
	if !s.ended {
		s.ctrl.Paused = false
	}
}

// Length returns the track length in milliseconds.
func (s *Stream) Length() int {
	return int(s.format.SampleRate.D(s.seeker.Len()) / time.Millisecond)
}

func (s *Stream) Position(bool) int {
	return int(s.format.SampleRate.D(s.seeker.Position()) / time.Millisecond)
}

func (s *Stream) SetPosition(ms int) error {
	if ms < 0 || ms > s.Length() {
		return fmt.Errorf("%w: %d", ErrInvalidCheckpoint, ms)
	}
	if err := s.seeker.Seek(s.format.SampleRate.N(time.Duration(ms) * time.Millisecond)); err != nil {
		return fmt.Errorf("clock: seek to %d: %w", ms, err)
	}
	s.ended = s.seeker.Position() >= s.seeker.Len()
	return nil
}

// Advance consumes deltaMs worth of samples while playing.
func (s *Stream) Advance(deltaMs int) {
	if s.ctrl.Paused || s.ended || deltaMs <= 0 {
		return
	}
	n := s.format.SampleRate.N(time.Duration(deltaMs) * time.Millisecond)
	for n > 0 {
		k := min(n, len(s.buf))
		got, ok := s.ctrl.Stream(s.buf[:k])
		n -= got
		if !ok || got < k {
			s.ended = true
			return
		}
	}
	if s.seeker.Position() >= s.seeker.Len() {
		s.ended = true
	}
}

// Err reports a decoding error from the underlying stream.
func (s *Stream) Err() error {
	return s.seeker.Err()
}

func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
