package core

import "strings"

// Keys is the key bitmask carried by input and replay frames.
// Keyboard keys share a bit with their mouse counterpart, so K1 implies M1
// and K2 implies M2 in the raw mask.
type Keys uint8

const (
	KeyNone Keys = 0
	KeyM1   Keys = 1
	KeyM2   Keys = 2
	KeyK1   Keys = 4 | 1
	KeyK2   Keys = 8 | 2
)

// Pressed returns true if any button is held.
func (k Keys) Pressed() bool {
	return k != KeyNone
}

// Buttons decodes the mask into logical buttons. A set K1 bit reports K1
// only, never an additional M1.
func (k Keys) Buttons() []Keys {
	var out []Keys
	if k&4 != 0 {
		out = append(out, KeyK1)
	}
	if k&8 != 0 {
		out = append(out, KeyK2)
	}
	if k&1 != 0 && k&4 == 0 {
		out = append(out, KeyM1)
	}
	if k&2 != 0 && k&8 == 0 {
		out = append(out, KeyM2)
	}
	return out
}

// NewPresses returns the logical buttons that are held in k but were not
// held in prev. Buttons that only turn off are never reported.
func (k Keys) NewPresses(prev Keys) []Keys {
	held := make(map[Keys]bool, 4)
	for _, b := range prev.Buttons() {
		held[b] = true
	}
	var out []Keys
	for _, b := range k.Buttons() {
		if !held[b] {
			out = append(out, b)
		}
	}
	return out
}

// String returns a compact representation such as "K1+M2".
func (k Keys) String() string {
	if k == KeyNone {
		return "None"
	}
	names := make([]string, 0, 2)
	for _, b := range k.Buttons() {
		names = append(names, buttonName(b))
	}
	return strings.Join(names, "+")
}

func buttonName(b Keys) string {
	switch b {
	case KeyK1:
		return "K1"
	case KeyK2:
		return "K2"
	case KeyM1:
		return "M1"
	case KeyM2:
		return "M2"
	default:
		return "?"
	}
}

// Frame is the input state at one point in track time: the cursor position
// in playfield coordinates and the held key bitmask. Live input, replay
// playback and autoplay all reach the judgement engine as Frames.
type Frame struct {
	Time int // Track position in milliseconds
	X, Y float64
	Keys Keys
}

// Cursor returns the frame's cursor position.
func (f Frame) Cursor() Vec2 {
	return Vec2{X: f.X, Y: f.Y}
}
