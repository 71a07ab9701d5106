package beatmap

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/vovakirdan/tui-osu/internal/core"
)

// Builder assembles a beatmap in code. It backs the built-in demo chart and
// keeps hand-written charts short.
type Builder struct {
	b *Beatmap
}

// NewBuilder starts a chart with the given difficulty and a single
// uninherited timing point at time 0.
func NewBuilder(title string, d Difficulty, beatLength float64) *Builder {
	if d.SliderMultiplier == 0 {
		d.SliderMultiplier = 1.4
	}
	if d.SliderTickRate == 0 {
		d.SliderTickRate = 1
	}
	return &Builder{b: &Beatmap{
		Title:         title,
		Artist:        "tui-osu",
		Creator:       "tui-osu",
		Version:       "Normal",
		StackLeniency: 0.7,
		Difficulty:    d,
		TimingPoints: []TimingPoint{
			{Time: 0, BeatLength: beatLength, Meter: 4, SampleSet: "normal", SampleVolume: 100},
		},
	}}
}

// Circle adds a hit circle.
func (bb *Builder) Circle(t int, x, y float64) *Builder {
	bb.b.Objects = append(bb.b.Objects, HitObject{X: x, Y: y, Time: t, Type: TypeCircle})
	return bb
}

// Slider adds a slider with the given path.
func (bb *Builder) Slider(t int, x, y float64, typ CurveType, points []core.Vec2, repeats int, pixelLength float64) *Builder {
	bb.b.Objects = append(bb.b.Objects, HitObject{
		X: x, Y: y, Time: t, Type: TypeSlider,
		CurveType: typ, CurvePoints: points, Repeats: repeats, PixelLength: pixelLength,
	})
	return bb
}

// Spinner adds a spinner lasting from t to end.
func (bb *Builder) Spinner(t, end int) *Builder {
	c := core.PlayfieldCenter()
	bb.b.Objects = append(bb.b.Objects, HitObject{X: c.X, Y: c.Y, Time: t, Type: TypeSpinner, EndTime: end})
	return bb
}

// Velocity adds an inherited timing point with the given slider velocity
// multiplier.
func (bb *Builder) Velocity(t int, multiplier float64) *Builder {
	bb.b.TimingPoints = append(bb.b.TimingPoints, TimingPoint{
		Time: t, BeatLength: -100 / multiplier, Meter: 4, SampleSet: "normal", SampleVolume: 100, Inherited: true,
	})
	return bb
}

// Break declares a break period.
func (bb *Builder) Break(start, end int) *Builder {
	bb.b.Breaks = append(bb.b.Breaks, Break{Start: start, End: end})
	return bb
}

// LeadIn sets the audio lead-in.
func (bb *Builder) LeadIn(ms int) *Builder {
	bb.b.AudioLeadIn = ms
	return bb
}

// Build sorts, marks new combos, checksums and validates the chart.
func (bb *Builder) Build() (*Beatmap, error) {
	b := bb.b
	sort.SliceStable(b.Objects, func(i, j int) bool { return b.Objects[i].Time < b.Objects[j].Time })
	sort.SliceStable(b.TimingPoints, func(i, j int) bool { return b.TimingPoints[i].Time < b.TimingPoints[j].Time })
	for i := range b.Objects {
		if i == 0 || b.Objects[i].IsSpinner() || b.Objects[i-1].IsSpinner() {
			b.Objects[i].Type |= TypeNewCombo
		}
	}

	h := md5.New()
	fmt.Fprintf(h, "%s|%v|%v|%v", b.Title, b.Difficulty, b.TimingPoints, b.Objects)
	b.Checksum = hex.EncodeToString(h.Sum(nil))

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// MustBuild is Build for charts known to be valid.
func (bb *Builder) MustBuild() *Beatmap {
	b, err := bb.Build()
	if err != nil {
		panic(err)
	}
	return b
}

// Demo returns the built-in chart used when no .osu file is given: circles,
// a repeating slider, a stream and a spinner across a break.
func Demo() *Beatmap {
	d := Difficulty{
		HPDrainRate:       5,
		CircleSize:        4,
		OverallDifficulty: 6,
		ApproachRate:      7,
		SliderMultiplier:  1.4,
		SliderTickRate:    1,
	}
	bb := NewBuilder("Demo", d, 500).LeadIn(1000)

	t := 2000
	for i := 0; i < 8; i++ {
		x := 96 + float64(i%4)*96
		y := 112 + float64(i/4)*160
		bb.Circle(t, x, y)
		t += 500
	}
	bb.Slider(t, 96, 192, CurveBezier, []core.Vec2{core.V(256, 96), core.V(416, 192)}, 2, 280)
	t += 3000
	for i := 0; i < 8; i++ {
		bb.Circle(t, 160+float64(i)*24, 288)
		t += 125
	}
	t += 500
	bb.Slider(t, 416, 288, CurvePerfect, []core.Vec2{core.V(336, 240), core.V(256, 288)}, 1, 160)
	t += 2000

	bb.Break(t, t+3000)
	t += 3500

	bb.Spinner(t, t+3000)
	t += 3500
	bb.Circle(t, 256, 192)
	return bb.MustBuild()
}
