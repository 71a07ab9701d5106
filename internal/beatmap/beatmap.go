// Package beatmap holds the parsed chart consumed by the judgement engine:
// hit objects, timing points, breaks and difficulty stats. Values are
// immutable once a session has been built from them.
package beatmap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/tui-osu/internal/core"
)

// ErrInvalidBeatmap is wrapped by every validation failure.
var ErrInvalidBeatmap = errors.New("beatmap: invalid beatmap")

// ObjectType holds the hit object type flags of the file format.
type ObjectType int

const (
	TypeCircle    ObjectType = 1
	TypeSlider    ObjectType = 2
	TypeNewCombo  ObjectType = 4
	TypeSpinner   ObjectType = 8
	typeComboSkip ObjectType = 16 | 32 | 64
)

// CurveType selects how slider control points are interpreted.
type CurveType byte

const (
	CurveLinear  CurveType = 'L'
	CurveBezier  CurveType = 'B'
	CurvePerfect CurveType = 'P'
	CurveCatmull CurveType = 'C'
)

// HitObject is one note of the chart.
type HitObject struct {
	X, Y     float64
	Time     int
	Type     ObjectType
	HitSound int

	// Spinner only.
	EndTime int

	// Slider only.
	CurveType   CurveType
	CurvePoints []core.Vec2 // control points after the head
	Repeats     int
	PixelLength float64
}

// Pos returns the object's head position.
func (h HitObject) Pos() core.Vec2 {
	return core.Vec2{X: h.X, Y: h.Y}
}

func (h HitObject) IsCircle() bool  { return h.Type&TypeCircle != 0 }
func (h HitObject) IsSlider() bool  { return h.Type&TypeSlider != 0 }
func (h HitObject) IsSpinner() bool { return h.Type&TypeSpinner != 0 }
func (h HitObject) NewCombo() bool  { return h.Type&TypeNewCombo != 0 }

// ComboSkip returns how many combo colors to skip when a new combo starts.
func (h HitObject) ComboSkip() int {
	return int(h.Type&typeComboSkip) >> 4
}

// TimingPoint changes tempo (uninherited) or slider velocity (inherited).
type TimingPoint struct {
	Time         int
	BeatLength   float64
	Meter        int
	SampleSet    string
	SampleVolume int
	Inherited    bool
	Kiai         bool
}

// BeatLengthFactor returns the factor an inherited point applies to the
// base beat length (0.5 doubles slider velocity). Uninherited points return 1.
func (tp TimingPoint) BeatLengthFactor() float64 {
	if !tp.Inherited || tp.BeatLength >= 0 {
		return 1
	}
	return core.ClampF(-tp.BeatLength, 10, 1000) / 100
}

// Break is a declared pause in which nothing is judged.
type Break struct {
	Start, End int
}

// Difficulty holds the raw difficulty stats of the chart.
type Difficulty struct {
	HPDrainRate       float64
	CircleSize        float64
	OverallDifficulty float64
	ApproachRate      float64
	SliderMultiplier  float64
	SliderTickRate    float64
}

// Beatmap is a fully parsed chart.
type Beatmap struct {
	Title         string
	Artist        string
	Creator       string
	Version       string
	AudioFilename string
	AudioLeadIn   int
	StackLeniency float64
	Checksum      string

	Difficulty   Difficulty
	Objects      []HitObject
	TimingPoints []TimingPoint
	Breaks       []Break
}

// String returns "Artist - Title [Version]".
func (b *Beatmap) String() string {
	return fmt.Sprintf("%s - %s [%s]", b.Artist, b.Title, b.Version)
}

// Validate checks the invariants the judgement engine relies on.
func (b *Beatmap) Validate() error {
	if len(b.Objects) == 0 {
		return fmt.Errorf("%w: no hit objects", ErrInvalidBeatmap)
	}
	if !sort.SliceIsSorted(b.Objects, func(i, j int) bool { return b.Objects[i].Time < b.Objects[j].Time }) {
		return fmt.Errorf("%w: hit objects are not sorted by time", ErrInvalidBeatmap)
	}
	if !sort.SliceIsSorted(b.TimingPoints, func(i, j int) bool { return b.TimingPoints[i].Time < b.TimingPoints[j].Time }) {
		return fmt.Errorf("%w: timing points are not sorted by time", ErrInvalidBeatmap)
	}
	hasBase := false
	for _, tp := range b.TimingPoints {
		if !tp.Inherited && tp.BeatLength > 0 {
			hasBase = true
			break
		}
	}
	if !hasBase {
		return fmt.Errorf("%w: no uninherited timing point", ErrInvalidBeatmap)
	}

	d := b.Difficulty
	stats := map[string]float64{
		"HPDrainRate":       d.HPDrainRate,
		"CircleSize":        d.CircleSize,
		"OverallDifficulty": d.OverallDifficulty,
		"ApproachRate":      d.ApproachRate,
		"SliderMultiplier":  d.SliderMultiplier,
		"SliderTickRate":    d.SliderTickRate,
	}
	for name, v := range stats {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s is %v", ErrInvalidBeatmap, name, v)
		}
	}
	if d.SliderMultiplier == 0 || d.SliderTickRate == 0 {
		return fmt.Errorf("%w: slider multiplier and tick rate must be positive", ErrInvalidBeatmap)
	}
	for _, br := range b.Breaks {
		if br.End < br.Start {
			return fmt.Errorf("%w: break %d-%d ends before it starts", ErrInvalidBeatmap, br.Start, br.End)
		}
	}
	return nil
}

// TimingAt returns the base beat length of the uninherited point in effect
// at time t and the effective beat length after any inherited multiplier.
func (b *Beatmap) TimingAt(t int) (base, effective float64) {
	base = 0
	multiplier := 1.0
	for _, tp := range b.TimingPoints {
		if tp.Time > t && base > 0 {
			break
		}
		if tp.Inherited {
			if base > 0 {
				multiplier = tp.BeatLengthFactor()
			}
			continue
		}
		base = tp.BeatLength
		multiplier = 1
	}
	if base <= 0 {
		base = 500
	}
	return base, base * multiplier
}

// SliderSpan returns the duration of one pass along the slider at index i in
// milliseconds. Non-sliders return 0.
func (b *Beatmap) SliderSpan(i int) float64 {
	h := b.Objects[i]
	if !h.IsSlider() || b.Difficulty.SliderMultiplier <= 0 {
		return 0
	}
	_, beatLength := b.TimingAt(h.Time)
	return beatLength * (h.PixelLength / b.Difficulty.SliderMultiplier) / 100
}

// EndTime returns the time at which the object at index i finishes.
func (b *Beatmap) EndTime(i int) int {
	h := b.Objects[i]
	switch {
	case h.IsSlider():
		repeats := core.Max(1, h.Repeats)
		return h.Time + int(b.SliderSpan(i)*float64(repeats))
	case h.IsSpinner():
		return core.Max(h.Time, h.EndTime)
	default:
		return h.Time
	}
}

// InBreak reports whether t lies inside a declared break.
func (b *Beatmap) InBreak(t int) bool {
	for _, br := range b.Breaks {
		if t >= br.Start && t < br.End {
			return true
		}
	}
	return false
}

// FirstTime returns the time of the first object.
func (b *Beatmap) FirstTime() int {
	if len(b.Objects) == 0 {
		return 0
	}
	return b.Objects[0].Time
}

// LastTime returns the end time of the last object.
func (b *Beatmap) LastTime() int {
	if len(b.Objects) == 0 {
		return 0
	}
	end := 0
	for i := range b.Objects {
		end = core.Max(end, b.EndTime(i))
	}
	return end
}

// DrainLength returns the playable length in milliseconds, excluding breaks.
func (b *Beatmap) DrainLength() int {
	length := b.LastTime() - b.FirstTime()
	for _, br := range b.Breaks {
		length -= br.End - br.Start
	}
	return core.Max(length, 0)
}

// SliderCurve builds the curve of the slider at index i.
func (b *Beatmap) SliderCurve(i int) *Curve {
	h := b.Objects[i]
	return NewCurve(h.Pos(), h.CurveType, h.CurvePoints, h.PixelLength)
}

// EndPos returns where the object at index i finishes: the tail of a slider
// with an odd number of passes, otherwise the head.
func (b *Beatmap) EndPos(i int) core.Vec2 {
	h := b.Objects[i]
	if !h.IsSlider() || core.Max(1, h.Repeats)%2 == 0 {
		return h.Pos()
	}
	return b.SliderCurve(i).PointAt(1)
}
