package clock

import (
	"errors"
	"testing"
	"time"
)

func TestManual(t *testing.T) {
	m := NewManual(1000)
	m.Advance(100)
	if m.Position(true) != 0 {
		t.Errorf("paused clock moved to %d", m.Position(true))
	}
	m.Resume()
	m.Advance(400)
	if m.Position(true) != 400 {
		t.Errorf("Position = %d, want 400", m.Position(true))
	}
	m.Advance(5000)
	if !m.TrackEnded() || m.Position(true) != 1000 {
		t.Errorf("Position = %d ended=%v, want 1000 ended", m.Position(true), m.TrackEnded())
	}
	if err := m.SetPosition(2000); !errors.Is(err, ErrInvalidCheckpoint) {
		t.Errorf("SetPosition past end error = %v", err)
	}
}

func TestStreamSilence(t *testing.T) {
	s := Silence(2 * time.Second)
	if s.Length() != 2000 {
		t.Fatalf("Length = %d, want 2000", s.Length())
	}

	s.Advance(500)
	if s.Position(true) != 0 {
		t.Errorf("paused stream moved to %d", s.Position(true))
	}
	s.Resume()
	s.Advance(500)
	if s.Position(true) != 500 {
		t.Errorf("Position = %d, want 500", s.Position(true))
	}
	s.Advance(2000)
	if !s.TrackEnded() || s.IsPlaying() {
		t.Errorf("ended=%v playing=%v, want ended", s.TrackEnded(), s.IsPlaying())
	}
	if s.Position(true) != 2000 {
		t.Errorf("Position at end = %d, want 2000", s.Position(true))
	}

	if err := s.SetPosition(1000); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if s.TrackEnded() || s.Position(true) != 1000 {
		t.Errorf("after seek: ended=%v pos=%d", s.TrackEnded(), s.Position(true))
	}
	if err := s.SetPosition(5000); !errors.Is(err, ErrInvalidCheckpoint) {
		t.Errorf("SetPosition past end error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOpenAudioMissing(t *testing.T) {
	if _, err := OpenAudio(t.TempDir() + "/missing.wav"); err == nil {
		t.Error("OpenAudio on a missing file should fail")
	}
}

func TestAdapterLeadIn(t *testing.T) {
	m := NewManual(0)
	a := NewAdapter(m, Options{LeadIn: 1000, MapEnd: 20000})
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	steps := []struct {
		delta  int
		pos    int
		leadIn bool
	}{
		{0, -1000, true},
		{400, -600, true},
		{700, 100, false},
		{16, 116, false},
	}
	for _, s := range steps {
		tick := a.Update(s.delta)
		if tick.Position != s.pos || tick.LeadIn != s.leadIn {
			t.Errorf("Update(%d) = %+v, want pos %d leadIn %v", s.delta, tick, s.pos, s.leadIn)
		}
		if tick.Discontinuity {
			t.Errorf("Update(%d) reported a discontinuity", s.delta)
		}
	}
}

func TestAdapterDiscontinuity(t *testing.T) {
	m := NewManual(0)
	a := NewAdapter(m, Options{MapEnd: 20000})
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	a.Update(16)

	m.Jump(5000)
	if tick := a.Update(16); !tick.Discontinuity || tick.Position != 5016 {
		t.Errorf("after jump: %+v, want discontinuity at 5016", tick)
	}
	if tick := a.Update(16); tick.Discontinuity || tick.Position != 5032 {
		t.Errorf("after resync: %+v", tick)
	}
}

func TestAdapterPause(t *testing.T) {
	m := NewManual(0)
	a := NewAdapter(m, Options{MapEnd: 20000})
	a.Start()
	a.Update(100)

	a.Pause()
	for i := 0; i < 5; i++ {
		if tick := a.Update(100); tick.Position != 100 || !tick.Paused {
			t.Fatalf("paused tick = %+v", tick)
		}
	}
	a.Resume()
	if tick := a.Update(50); tick.Position != 150 || tick.Discontinuity {
		t.Errorf("resumed tick = %+v, want 150", tick)
	}
}

func TestAdapterSkip(t *testing.T) {
	tests := []struct {
		name    string
		first   int
		want    int
		skipped bool
	}{
		{"long intro", 10000, 8000, true},
		{"short intro", 5000, -1000, false},
		{"exactly minimum", 6000, -1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManual(0)
			a := NewAdapter(m, Options{LeadIn: 1000, MapEnd: 20000})
			a.Start()
			got, ok := a.Skip(tt.first)
			if got != tt.want || ok != tt.skipped {
				t.Errorf("Skip(%d) = %d, %v; want %d, %v", tt.first, got, ok, tt.want, tt.skipped)
			}
			if ok && (a.InLeadIn() || !m.IsPlaying()) {
				t.Error("skip should end the lead-in and start the clock")
			}
		})
	}
}

func TestAdapterSeek(t *testing.T) {
	m := NewManual(0)
	a := NewAdapter(m, Options{Offset: -50, MapEnd: 20000})
	a.Start()
	a.Update(300)
	before := a.Position()

	for _, target := range []int{-1, 20001} {
		if err := a.Seek(target); !errors.Is(err, ErrInvalidCheckpoint) {
			t.Errorf("Seek(%d) error = %v", target, err)
		}
		if a.Position() != before {
			t.Errorf("Seek(%d) moved the position to %d", target, a.Position())
		}
	}

	if err := a.Seek(5000); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if a.Position() != 5000 || m.Position(true) != 5050 {
		t.Errorf("position = %d clock = %d, want 5000 and 5050", a.Position(), m.Position(true))
	}
	if tick := a.Update(16); tick.Discontinuity || tick.Position != 5016 {
		t.Errorf("tick after seek = %+v", tick)
	}
}

func TestAdapterSpeed(t *testing.T) {
	m := NewManual(0)
	a := NewAdapter(m, Options{MapEnd: 20000})
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	steps := []struct {
		speed Speed
		delta int
		pos   int
	}{
		{SpeedDouble, 16, 32},
		{SpeedHalf, 15, 39},
		{SpeedHalf, 15, 47}, // the carried half millisecond lands here
		{SpeedNormal, 16, 63},
	}
	for _, s := range steps {
		if a.Speed() != s.speed {
			a.SetSpeed(s.speed)
		}
		tick := a.Update(s.delta)
		if tick.Position != s.pos || tick.Discontinuity {
			t.Errorf("Update(%d) at %v = %+v, want pos %d", s.delta, s.speed, tick, s.pos)
		}
	}
}

func TestSpeed(t *testing.T) {
	if got := SpeedNormal.Next().Next().Next(); got != SpeedNormal {
		t.Errorf("three Next calls from 1x gave %v", got)
	}
	if SpeedNormal.Next() != SpeedDouble || SpeedDouble.Next() != SpeedHalf {
		t.Errorf("cycle order is not 1x, 2x, 0.5x")
	}

	tests := []struct {
		in   string
		want Speed
		ok   bool
	}{
		{"1", SpeedNormal, true},
		{"2x", SpeedDouble, true},
		{"0.5x", SpeedHalf, true},
		{"3", 0, false},
		{"fast", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSpeed(tt.in)
			if (err == nil) != tt.ok || got != tt.want {
				t.Errorf("ParseSpeed(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
	if s := SpeedHalf.String(); s != "0.5x" {
		t.Errorf("String() = %q", s)
	}
}
