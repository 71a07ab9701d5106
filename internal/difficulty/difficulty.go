// Package difficulty converts beatmap difficulty stats into the concrete
// timing windows, sizes and rates used by the judgement engine.
package difficulty

import (
	"math"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/mods"
)

// MapRange maps a difficulty value in [0, 10] piecewise linearly onto the
// breakpoints atZero, atFive and atTen.
func MapRange(value, atZero, atFive, atTen float64) float64 {
	switch {
	case value > 5:
		return atFive + (atTen-atFive)*(value-5)/5
	case value < 5:
		return atFive - (atFive-atZero)*(5-value)/5
	default:
		return atFive
	}
}

// Stats are the four difficulty stats that feed Calculate.
type Stats struct {
	CS float64 `yaml:"cs"`
	AR float64 `yaml:"ar"`
	OD float64 `yaml:"od"`
	HP float64 `yaml:"hp"`
}

// FromBeatmap returns the raw stats of a beatmap.
func FromBeatmap(d beatmap.Difficulty) Stats {
	return Stats{
		CS: d.CircleSize,
		AR: d.ApproachRate,
		OD: d.OverallDifficulty,
		HP: d.HPDrainRate,
	}
}

// Overrides pins individual stats to fixed values. Nil fields are left
// alone.
type Overrides struct {
	CS *float64 `yaml:"cs,omitempty"`
	AR *float64 `yaml:"ar,omitempty"`
	OD *float64 `yaml:"od,omitempty"`
	HP *float64 `yaml:"hp,omitempty"`
}

// Adjust applies mod multipliers, then fixed overrides, then clamps every
// stat to [0, 10].
func Adjust(s Stats, m mods.Mods, o Overrides) Stats {
	if m.Has(mods.HardRock) {
		s.CS *= 1.3
		s.AR *= 1.4
		s.OD *= 1.4
		s.HP *= 1.4
	}
	if m.Has(mods.Easy) {
		s.CS *= 0.5
		s.AR *= 0.5
		s.OD *= 0.5
		s.HP *= 0.5
	}

	if o.CS != nil {
		s.CS = *o.CS
	}
	if o.AR != nil {
		s.AR = *o.AR
	}
	if o.OD != nil {
		s.OD = *o.OD
	}
	if o.HP != nil {
		s.HP = *o.HP
	}

	s.CS = core.ClampF(s.CS, 0, 10)
	s.AR = core.ClampF(s.AR, 0, 10)
	s.OD = core.ClampF(s.OD, 0, 10)
	s.HP = core.ClampF(s.HP, 0, 10)
	return s
}

// Params are the derived gameplay constants for one session. Times are in
// milliseconds and sizes in osu!pixels.
type Params struct {
	Stats Stats

	CircleDiameter float64
	ApproachTime   int

	Window300  int
	Window100  int
	Window50   int
	MissWindow int

	FadeInTime      int
	HiddenDecayTime int
	HiddenTimeDiff  int
}

// Calculate derives Params from adjusted stats.
func Calculate(s Stats) Params {
	approach := int(MapRange(s.AR, 1800, 1200, 450))
	return Params{
		Stats:           s,
		CircleDiameter:  108.848 - s.CS*8.9646,
		ApproachTime:    approach,
		Window300:       int(MapRange(s.OD, 80, 50, 20)),
		Window100:       int(MapRange(s.OD, 140, 100, 60)),
		Window50:        int(MapRange(s.OD, 200, 150, 100)),
		MissWindow:      int(500 - s.OD*10),
		FadeInTime:      int(math.Min(375, float64(approach)/2.5)),
		HiddenDecayTime: int(float64(approach) / 3.6),
		HiddenTimeDiff:  int(float64(approach) / 3.3),
	}
}

// Radius is the hit radius of a circle.
func (p Params) Radius() float64 {
	return p.CircleDiameter / 2
}

// FollowRadius is the radius of a slider's follow circle.
func (p Params) FollowRadius() float64 {
	return p.CircleDiameter * 259 / 128 / 2
}

// StackOffset is the position shift per stack level.
func (p Params) StackOffset() float64 {
	return p.CircleDiameter * beatmap.StackOffsetFactor
}

// ScoreDifficulty is the score multiplier of a beatmap, from its raw stats
// and object density. Mods do not change it.
func ScoreDifficulty(b *beatmap.Beatmap) int {
	d := b.Difficulty
	drainSeconds := float64(b.DrainLength()) / 1000
	density := 16.0
	if drainSeconds > 0 {
		density = core.ClampF(float64(len(b.Objects))/drainSeconds*8, 0, 16)
	}
	return int(math.Round((d.HPDrainRate + d.CircleSize + d.OverallDifficulty + density) / 38 * 5))
}
