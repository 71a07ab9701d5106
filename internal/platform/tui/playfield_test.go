package tui

import (
	"testing"

	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/objects"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/session"
)

func TestPlayfieldShowResult(t *testing.T) {
	tests := []struct {
		name   string
		result scoring.HitResult
		shown  bool
	}{
		{"circle 300", scoring.HitResult{Result: scoring.Hit300}, true},
		{"circle miss", scoring.HitResult{Result: scoring.Miss}, true},
		{"slider tick hit", scoring.HitResult{Result: scoring.Hit300, Tick: true}, false},
		{"slider tick miss", scoring.HitResult{Result: scoring.Miss, Tick: true}, true},
		{"slider points", scoring.HitResult{Result: scoring.Slider30}, false},
		{"spinner bonus", scoring.HitResult{Result: scoring.SpinnerBonus}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayfield(30)
			p.ShowResult(tt.result)
			if got := len(p.popups) == 1; got != tt.shown {
				t.Errorf("shown = %v, want %v", got, tt.shown)
			}
		})
	}
}

func TestPlayfieldPopupLifetime(t *testing.T) {
	p := NewPlayfield(30)
	p.ShowResult(scoring.HitResult{Result: scoring.Hit100, Time: 1000})

	p.Begin(1599)
	if len(p.popups) != 1 {
		t.Fatalf("popup dropped too early")
	}
	p.Begin(1600)
	if len(p.popups) != 0 {
		t.Errorf("popup kept past its lifetime")
	}

	// After a seek backwards, judgements from the future go away.
	p.ShowResult(scoring.HitResult{Result: scoring.Hit100, Time: 5000})
	p.Begin(3000)
	if len(p.popups) != 0 {
		t.Errorf("popup from the future kept")
	}
}

func TestPlayfieldFlashing(t *testing.T) {
	p := NewPlayfield(30)
	p.Begin(0)
	if p.Flashing() {
		t.Fatal("flashing before any sound")
	}

	p.PlayHitSound(session.HitSound{Time: 100})
	p.Begin(150)
	if !p.Flashing() {
		t.Error("not flashing right after a hit sound")
	}
	p.Begin(180)
	if p.Flashing() {
		t.Error("still flashing after flashTime")
	}
	if p.Sounds() != 1 {
		t.Errorf("Sounds() = %d, want 1", p.Sounds())
	}

	p.Reset()
	if p.Sounds() != 0 || p.Flashing() {
		t.Error("Reset kept sound state")
	}
}

func TestPlayfieldPaint(t *testing.T) {
	s := core.NewScreen(40, 20)
	area := core.NewRect(2, 2, 32, 12)
	centre := core.PlayfieldCenter()

	p := NewPlayfield(30)
	p.Begin(1000)
	p.DrawObject(session.ObjectView{
		Kind:  objects.KindCircle,
		Combo: 3,
		Head:  centre,
		Pos:   centre,
		End:   centre,
		Time:  1000,
		Alpha: 1,
	})
	if len(p.Views()) != 1 {
		t.Fatalf("Views() = %d, want 1", len(p.Views()))
	}
	p.Paint(s, area, centre, false)

	x, y, ok := core.Project(area, centre)
	if !ok {
		t.Fatal("centre is outside the playfield")
	}
	if got := s.Get(x, y); got != '3' {
		t.Errorf("cell at circle = %q, want '3'", got)
	}
	if got := s.Get(area.X-1, area.Y-1); got == ' ' {
		t.Error("playfield border not drawn")
	}
}

func TestPlayfieldPaintCursor(t *testing.T) {
	s := core.NewScreen(40, 20)
	area := core.NewRect(2, 2, 32, 12)
	cursor := core.V(100, 100)

	p := NewPlayfield(30)
	p.Begin(0)
	p.Paint(s, area, cursor, true)

	x, y, _ := core.Project(area, cursor)
	if got := s.Get(x, y); got != '+' {
		t.Errorf("cell at cursor = %q, want '+'", got)
	}
}
