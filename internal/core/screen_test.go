package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'O', ColorCyan)
	cell := s.GetCell(5, 5)
	if cell.Rune != 'O' || cell.Color != ColorCyan {
		t.Errorf("GetCell(5, 5) = %+v, expected 'O' in cyan", cell)
	}

	// Out of bounds should be silent
	s.SetColored(-1, 0, 'A', ColorRed)
	s.SetColored(100, 0, 'A', ColorRed)

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawText(2, 1, "300x", ColorYellow)

	if got := strings.TrimSpace(strings.Split(s.String(), "\n")[1]); got != "300x" {
		t.Errorf("row 1 = %q, expected %q", got, "300x")
	}
	if s.GetCell(2, 1).Color != ColorYellow {
		t.Error("DrawText should color its cells")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorGray)

	expected := []string{
		"┌───┐",
		"│   │",
		"│   │",
		"└───┘",
	}
	if got := s.String(); got != strings.Join(expected, "\n") {
		t.Errorf("DrawBox produced:\n%s", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.Set(1, 1, 'X')
	s.Resize(4, 3)

	if s.Width() != 4 || s.Height() != 3 {
		t.Errorf("Resize() gave %dx%d, expected 4x3", s.Width(), s.Height())
	}
	if s.Get(1, 1) != ' ' {
		t.Error("Resize should clear content")
	}
}

func TestProjectRoundTrip(t *testing.T) {
	area := NewRect(1, 1, 65, 25)

	tests := []struct {
		name string
		p    Vec2
		x, y int
	}{
		{"top-left", V(0, 0), 1, 1},
		{"centre", PlayfieldCenter(), 33, 13},
		{"bottom-right", V(PlayfieldWidth, PlayfieldHeight), 65, 25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y, ok := Project(area, tc.p)
			if !ok {
				t.Fatalf("Project(%v) reported outside playfield", tc.p)
			}
			if x != tc.x || y != tc.y {
				t.Errorf("Project(%v) = (%d, %d), expected (%d, %d)", tc.p, x, y, tc.x, tc.y)
			}
			back := Unproject(area, x, y)
			if back.Dist(tc.p) > 1e-9 {
				t.Errorf("Unproject(%d, %d) = %v, expected %v", x, y, back, tc.p)
			}
		})
	}

	if _, _, ok := Project(area, V(256, -500)); ok {
		t.Error("Project should reject points above the playfield")
	}
}
