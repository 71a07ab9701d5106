package difficulty

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/mods"
)

func TestMapRange(t *testing.T) {
	tests := []struct {
		v, expected float64
	}{
		{0, 1800},
		{2.5, 1500},
		{5, 1200},
		{7.5, 825},
		{10, 450},
	}
	for _, tc := range tests {
		if got := MapRange(tc.v, 1800, 1200, 450); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("MapRange(%v) = %v, expected %v", tc.v, got, tc.expected)
		}
	}
}

func TestWindowsMonotonic(t *testing.T) {
	prev := Calculate(Stats{})
	for v := 0.5; v <= 10; v += 0.5 {
		p := Calculate(Stats{AR: v, OD: v})
		if p.ApproachTime > prev.ApproachTime {
			t.Errorf("ApproachTime grew from %d to %d at AR %v", prev.ApproachTime, p.ApproachTime, v)
		}
		if p.Window300 > prev.Window300 || p.Window100 > prev.Window100 || p.Window50 > prev.Window50 || p.MissWindow > prev.MissWindow {
			t.Errorf("a window grew at OD %v: %+v -> %+v", v, prev, p)
		}
		prev = p
	}
}

func TestCalculateOD5(t *testing.T) {
	p := Calculate(Stats{CS: 4, AR: 5, OD: 5, HP: 5})

	if p.Window300 != 50 || p.Window100 != 100 || p.Window50 != 150 || p.MissWindow != 450 {
		t.Errorf("windows = %d/%d/%d/%d, expected 50/100/150/450", p.Window300, p.Window100, p.Window50, p.MissWindow)
	}
	if p.ApproachTime != 1200 {
		t.Errorf("ApproachTime = %d, expected 1200", p.ApproachTime)
	}
	if p.FadeInTime != 375 {
		t.Errorf("FadeInTime = %d, expected 375", p.FadeInTime)
	}
	if p.HiddenDecayTime != 333 || p.HiddenTimeDiff != 363 {
		t.Errorf("hidden times = %d/%d, expected 333/363", p.HiddenDecayTime, p.HiddenTimeDiff)
	}
	if math.Abs(p.CircleDiameter-(108.848-4*8.9646)) > 1e-9 {
		t.Errorf("CircleDiameter = %v", p.CircleDiameter)
	}
}

func TestFadeInShortApproach(t *testing.T) {
	p := Calculate(Stats{AR: 10})
	if p.FadeInTime != 180 {
		t.Errorf("FadeInTime = %d, expected 180", p.FadeInTime)
	}
}

func TestAdjust(t *testing.T) {
	base := Stats{CS: 4, AR: 8, OD: 7, HP: 6}
	five := 5.0

	tests := []struct {
		name     string
		mods     mods.Mods
		o        Overrides
		expected Stats
	}{
		{"none", mods.None, Overrides{}, base},
		{"hard rock clamps", mods.HardRock, Overrides{}, Stats{CS: 5.2, AR: 10, OD: 9.8, HP: 8.4}},
		{"easy halves", mods.Easy, Overrides{}, Stats{CS: 2, AR: 4, OD: 3.5, HP: 3}},
		{"override wins", mods.HardRock, Overrides{OD: &five}, Stats{CS: 5.2, AR: 10, OD: 5, HP: 8.4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Adjust(base, tc.mods, tc.o)
			if math.Abs(got.CS-tc.expected.CS) > 1e-9 || math.Abs(got.AR-tc.expected.AR) > 1e-9 ||
				math.Abs(got.OD-tc.expected.OD) > 1e-9 || math.Abs(got.HP-tc.expected.HP) > 1e-9 {
				t.Errorf("Adjust() = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestScoreDifficulty(t *testing.T) {
	b := beatmap.NewBuilder("d", beatmap.Difficulty{HPDrainRate: 5, CircleSize: 4, OverallDifficulty: 6}, 500).
		Circle(0, 100, 100).
		Circle(10_000, 100, 100).
		MustBuild()

	// (5 + 4 + 6 + 2/10*8) / 38 * 5 = 2.18
	if got := ScoreDifficulty(b); got != 2 {
		t.Errorf("ScoreDifficulty() = %d, expected 2", got)
	}
}

func TestDropRate(t *testing.T) {
	b := beatmap.Demo()
	stats := FromBeatmap(b.Difficulty)
	p := Calculate(stats)

	drop := DropRate(b, stats.HP, p.ApproachTime)
	if drop.Rate <= 0 || drop.Rate > 0.05 {
		t.Errorf("Rate = %v, expected in (0, 0.05]", drop.Rate)
	}
	if drop.MultiplierNormal < 1 || drop.MultiplierComboEnd < 1 {
		t.Errorf("multipliers = %v/%v, expected >= 1", drop.MultiplierNormal, drop.MultiplierComboEnd)
	}

	again := DropRate(b, stats.HP, p.ApproachTime)
	if again != drop {
		t.Errorf("DropRate() is not deterministic: %+v vs %+v", drop, again)
	}
}

func TestDropRateEmpty(t *testing.T) {
	if got := DropRate(&beatmap.Beatmap{}, 5, 1200); got.Rate != 0 {
		t.Errorf("Rate = %v for an empty map, expected 0", got.Rate)
	}
}
