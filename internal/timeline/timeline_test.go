package timeline

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/difficulty"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/objects"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

var od5 = beatmap.Difficulty{
	HPDrainRate:       5,
	CircleSize:        4,
	OverallDifficulty: 5,
	ApproachRate:      5,
	SliderMultiplier:  1.4,
	SliderTickRate:    1,
}

func newTimeline(t *testing.T, b *beatmap.Beatmap, m mods.Mods) *Timeline {
	t.Helper()
	env := &objects.Env{
		Params: difficulty.Calculate(difficulty.Adjust(difficulty.FromBeatmap(b.Difficulty), m, difficulty.Overrides{})),
		Mods:   m,
	}
	tl, err := New(b, env, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tl
}

func at(t int, x, y float64) objects.State {
	return objects.State{TrackPosition: t, Cursor: core.V(x, y)}
}

func TestNewRejectsEmptyBeatmap(t *testing.T) {
	env := &objects.Env{Params: difficulty.Calculate(difficulty.FromBeatmap(od5))}
	if _, err := New(&beatmap.Beatmap{}, env, nil); !errors.Is(err, ErrNoObjects) {
		t.Errorf("New(empty) error = %v, want ErrNoObjects", err)
	}
	if _, err := New(nil, env, nil); !errors.Is(err, ErrNoObjects) {
		t.Errorf("New(nil) error = %v, want ErrNoObjects", err)
	}
}

func TestOverlappingCircles(t *testing.T) {
	b := beatmap.NewBuilder("c", od5, 500).
		Circle(1000, 100, 100).
		Circle(1040, 300, 300).
		MustBuild()

	tests := []struct {
		name    string
		presses []objects.State
		want    []scoring.Result
	}{
		{
			name:    "in order",
			presses: []objects.State{at(1010, 100, 100), at(1045, 300, 300)},
			want:    []scoring.Result{scoring.Hit300, scoring.Hit300},
		},
		{
			name:    "second first",
			presses: []objects.State{at(1035, 300, 300), at(1060, 100, 100)},
			want:    []scoring.Result{scoring.Hit300, scoring.Hit100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := newTimeline(t, b, mods.None)
			if res := tl.Advance(at(1001, 0, 0)); len(res) != 0 {
				t.Fatalf("Advance(1001) = %v, want nothing", res)
			}
			if tl.ObjectIndex() != 1 || len(tl.Passed()) != 1 {
				t.Fatalf("after 1001: %v, want first circle passed", tl)
			}

			var got []scoring.Result
			for _, p := range tt.presses {
				tl.Advance(p)
				for _, r := range tl.Press(p) {
					got = append(got, r.Result)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("results = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("result %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if !tl.Complete() {
				t.Errorf("timeline not complete: %v", tl)
			}
		})
	}
}

func TestPressConsumedOnce(t *testing.T) {
	b := beatmap.NewBuilder("c", od5, 500).
		Circle(1000, 256, 192).
		Circle(1040, 256, 192).
		MustBuild()
	tl := newTimeline(t, b, mods.None)

	// Stacked circles: the first press takes the older circle only.
	st := at(1000, 256, 192)
	tl.Advance(st)
	res := tl.Press(st)
	if len(res) != 1 || res[0].Object != 0 {
		t.Fatalf("first press = %v, want object 0 only", res)
	}
}

func TestEveryObjectResolvedOnce(t *testing.T) {
	b := beatmap.Demo()
	tl := newTimeline(t, b, mods.Auto)

	seen := make(map[int]int)
	lastIndex := 0
	end := b.LastTime() + 1000
	for tm := 0; tm <= end; tm += 16 {
		for _, r := range tl.Advance(objects.State{TrackPosition: tm, Delta: 16}) {
			if r.Result.IsObject() && !r.Tick {
				seen[r.Object]++
			}
		}
		if tl.ObjectIndex() < lastIndex {
			t.Fatalf("object index went back from %d to %d at %d", lastIndex, tl.ObjectIndex(), tm)
		}
		lastIndex = tl.ObjectIndex()
	}

	if !tl.Complete() {
		t.Fatalf("timeline not complete after %d ms: %v", end, tl)
	}
	for i := 0; i < tl.Len(); i++ {
		if seen[i] != 1 {
			t.Errorf("object %d resolved %d times, want 1", i, seen[i])
		}
	}
}

func TestBreakSuppressesJudgement(t *testing.T) {
	b := beatmap.NewBuilder("b", od5, 500).
		Circle(1000, 256, 192).
		Break(1100, 3000).
		Circle(3500, 256, 192).
		MustBuild()
	tl := newTimeline(t, b, mods.None)

	if res := tl.Advance(at(2000, 0, 0)); res != nil {
		t.Errorf("Advance inside break = %v, want nil", res)
	}
	if res := tl.Press(at(2000, 256, 192)); res != nil {
		t.Errorf("Press inside break = %v, want nil", res)
	}
	if tl.ObjectIndex() != 0 {
		t.Errorf("ObjectIndex = %d inside break, want 0", tl.ObjectIndex())
	}

	res := tl.Advance(at(3001, 0, 0))
	if len(res) != 1 || res[0].Result != scoring.Miss {
		t.Fatalf("Advance after break = %v, want one miss", res)
	}
}

func TestFinish(t *testing.T) {
	b := beatmap.NewBuilder("f", od5, 500).
		Circle(1000, 100, 100).
		Circle(1040, 300, 300).
		Circle(2000, 256, 192).
		MustBuild()
	tl := newTimeline(t, b, mods.None)
	tl.Advance(at(1001, 0, 0))

	res := tl.Finish(1100)
	if len(res) != 3 {
		t.Fatalf("Finish = %d results, want 3", len(res))
	}
	for _, r := range res {
		if r.Result != scoring.Miss {
			t.Errorf("Finish result %v, want miss", r)
		}
	}
	if !tl.Complete() {
		t.Error("timeline not complete after Finish")
	}
	if res := tl.Finish(1200); res != nil {
		t.Errorf("second Finish = %v, want nil", res)
	}
	if res := tl.Advance(at(2000, 256, 192)); res != nil {
		t.Errorf("Advance after Finish = %v, want nil", res)
	}
}

func TestTimingPointSync(t *testing.T) {
	b := beatmap.NewBuilder("t", od5, 500).
		Velocity(2000, 2).
		Circle(1000, 256, 192).
		Circle(5000, 256, 192).
		MustBuild()
	tl := newTimeline(t, b, mods.None)

	if got := tl.BeatLength(); got != 500 {
		t.Errorf("initial BeatLength = %v, want 500", got)
	}
	tl.Advance(at(2500, 0, 0))
	if got := tl.BeatLength(); got != 250 {
		t.Errorf("BeatLength after velocity change = %v, want 250", got)
	}
	if got := tl.BaseBeatLength(); got != 500 {
		t.Errorf("BaseBeatLength = %v, want 500", got)
	}
	if tp, ok := tl.TimingPoint(); !ok || !tp.Inherited {
		t.Errorf("TimingPoint = %+v, %v; want the inherited point", tp, ok)
	}

	tl.Resync(0)
	if got := tl.BeatLength(); got != 500 {
		t.Errorf("BeatLength after Resync(0) = %v, want 500", got)
	}
}

func TestReset(t *testing.T) {
	b := beatmap.NewBuilder("r", od5, 500).
		Circle(1000, 256, 192).
		Circle(2000, 256, 192).
		MustBuild()
	tl := newTimeline(t, b, mods.None)

	first := tl.Advance(at(3000, 0, 0))
	if len(first) != 2 {
		t.Fatalf("Advance(3000) = %v, want 2 misses", first)
	}
	tl.Reset()
	if tl.ObjectIndex() != 0 || tl.Complete() {
		t.Fatalf("after Reset: %v", tl)
	}
	again := tl.Advance(at(3000, 0, 0))
	if len(again) != len(first) {
		t.Errorf("Advance after Reset = %v, want %v", again, first)
	}
}
