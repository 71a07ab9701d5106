// Package mods defines gameplay modifiers, their score multipliers and the
// rules for combining them.
package mods

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Mods is a bitset of active modifiers. Bit values follow the osu! replay
// format so a recorded mod state round-trips through replay files.
type Mods uint32

const (
	NoFail      Mods = 1 << 0
	Easy        Mods = 1 << 1
	Hidden      Mods = 1 << 3
	HardRock    Mods = 1 << 4
	SuddenDeath Mods = 1 << 5
	Relax       Mods = 1 << 7
	Flashlight  Mods = 1 << 10
	Auto        Mods = 1 << 11
	SpunOut     Mods = 1 << 12
	Autopilot   Mods = 1 << 13
)

// None is the empty mod set.
const None Mods = 0

// ErrConflict is returned when two mutually exclusive mods are combined.
var ErrConflict = errors.New("mods: conflicting mods")

// ErrUnknown is returned when parsing an unrecognised mod name.
var ErrUnknown = errors.New("mods: unknown mod")

type modInfo struct {
	mod        Mods
	short      string
	name       string
	multiplier float64
}

var table = []modInfo{
	{Easy, "EZ", "Easy", 0.5},
	{NoFail, "NF", "NoFail", 0.5},
	{HardRock, "HR", "HardRock", 1.06},
	{SuddenDeath, "SD", "SuddenDeath", 1.0},
	{Hidden, "HD", "Hidden", 1.06},
	{Flashlight, "FL", "Flashlight", 1.12},
	{Relax, "RX", "Relax", 0},
	{Autopilot, "AP", "Autopilot", 0},
	{SpunOut, "SO", "SpunOut", 0.9},
	{Auto, "AT", "Auto", 1.0},
}

// conflicts lists pairs that may not be active together.
var conflicts = [][2]Mods{
	{Easy, HardRock},
	{NoFail, SuddenDeath},
	{Relax, Autopilot},
	{Auto, SuddenDeath},
	{Auto, SpunOut},
	{Auto, Relax},
	{Auto, Autopilot},
}

// Has reports whether every mod in o is active.
func (m Mods) Has(o Mods) bool {
	return m&o == o
}

// Any reports whether at least one mod in o is active.
func (m Mods) Any(o Mods) bool {
	return m&o != 0
}

// ScoreMultiplier returns the product of all active mods' multipliers.
func (m Mods) ScoreMultiplier() float64 {
	mult := 1.0
	for _, info := range table {
		if m.Has(info.mod) {
			mult *= info.multiplier
		}
	}
	return mult
}

// Synthetic reports whether input is generated rather than played, in which
// case results are never submitted as scores.
func (m Mods) Synthetic() bool {
	return m.Any(Auto | Relax | Autopilot)
}

// Validate returns ErrConflict if two exclusive mods are both active.
func (m Mods) Validate() error {
	for _, pair := range conflicts {
		if m.Has(pair[0]) && m.Has(pair[1]) {
			return fmt.Errorf("%w: %s and %s", ErrConflict, pair[0], pair[1])
		}
	}
	return nil
}

// String returns the short names of active mods, e.g. "HDHR", or "None".
func (m Mods) String() string {
	if m == None {
		return "None"
	}
	var sb strings.Builder
	for _, info := range table {
		if m.Has(info.mod) {
			sb.WriteString(info.short)
		}
	}
	return sb.String()
}

// Names returns the long names of active mods in display order.
func (m Mods) Names() []string {
	var names []string
	for _, info := range table {
		if m.Has(info.mod) {
			names = append(names, info.name)
		}
	}
	return names
}

// Parse converts names (short or long, case-insensitive) into a mod set.
// The result is validated.
func Parse(names []string) (Mods, error) {
	var m Mods
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		mod, ok := lookup(name)
		if !ok {
			return None, fmt.Errorf("%w: %q (known: %s)", ErrUnknown, name, strings.Join(Known(), ", "))
		}
		m |= mod
	}
	if err := m.Validate(); err != nil {
		return None, err
	}
	return m, nil
}

// ParseString parses a comma separated list or a concatenated short form
// such as "HDHR".
func ParseString(s string) (Mods, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return None, nil
	}
	if strings.Contains(s, ",") {
		return Parse(strings.Split(s, ","))
	}
	if _, ok := lookup(s); ok {
		return Parse([]string{s})
	}
	if len(s)%2 != 0 {
		return None, fmt.Errorf("%w: %q", ErrUnknown, s)
	}
	parts := make([]string, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		parts = append(parts, s[i:i+2])
	}
	return Parse(parts)
}

// Known returns all short mod names sorted alphabetically.
func Known() []string {
	out := make([]string, 0, len(table))
	for _, info := range table {
		out = append(out, info.short)
	}
	sort.Strings(out)
	return out
}

func lookup(name string) (Mods, bool) {
	for _, info := range table {
		if strings.EqualFold(name, info.short) || strings.EqualFold(name, info.name) {
			return info.mod, true
		}
	}
	return None, false
}
