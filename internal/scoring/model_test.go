package scoring

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-osu/internal/mods"
)

func hit(r Result) HitResult {
	return HitResult{Result: r}
}

func TestScoreAndCombo(t *testing.T) {
	m := NewModel(Config{Difficulty: 5, HPDrainRate: 5})

	m.Apply(hit(Hit300))
	m.Apply(hit(Hit300))
	st := m.Apply(hit(Hit300))

	// 300 + 300 + (300 + 300*1*5/25)
	if st.Score != 960 {
		t.Errorf("Score = %d, expected 960", st.Score)
	}
	if st.Combo != 3 || st.MaxCombo != 3 {
		t.Errorf("Combo = %d, MaxCombo = %d, expected 3/3", st.Combo, st.MaxCombo)
	}

	st = m.Apply(hit(Miss))
	if st.Combo != 0 || st.MaxCombo != 3 {
		t.Errorf("after miss: Combo = %d, MaxCombo = %d, expected 0/3", st.Combo, st.MaxCombo)
	}
	if st.Perfect {
		t.Error("Perfect should be false after a combo break")
	}
	if st.Total() != 4 || st.Counts[Hit300] != 3 || st.Counts[Miss] != 1 {
		t.Errorf("Counts = %v", st.Counts)
	}
}

func TestModMultiplierScalesComboBonus(t *testing.T) {
	plain := NewModel(Config{Difficulty: 5})
	easy := NewModel(Config{Difficulty: 5, Mods: mods.Easy})
	for i := 0; i < 10; i++ {
		plain.Apply(hit(Hit300))
		easy.Apply(hit(Hit300))
	}
	if easy.State().Score >= plain.State().Score {
		t.Errorf("Easy score %d should be below plain score %d", easy.State().Score, plain.State().Score)
	}
}

func TestSubResults(t *testing.T) {
	m := NewModel(Config{Difficulty: 5})

	tests := []struct {
		r         HitResult
		score     int64
		combo     int
		countedAs Result
	}{
		{HitResult{Result: Slider30, Tick: true}, 30, 1, Slider30},
		{HitResult{Result: Slider10, Tick: true}, 40, 2, Slider10},
		{HitResult{Result: SpinnerSpin}, 140, 2, SpinnerSpin},
		{HitResult{Result: SpinnerBonus}, 1140, 2, SpinnerBonus},
		{HitResult{Result: Miss, Tick: true}, 1140, 0, Miss},
	}

	for _, tc := range tests {
		st := m.Apply(tc.r)
		if st.Score != tc.score || st.Combo != tc.combo {
			t.Errorf("after %v: score %d combo %d, expected %d/%d", tc.r, st.Score, st.Combo, tc.score, tc.combo)
		}
	}
	// A missed tick is not a graded object.
	if got := m.State().Counts[Miss]; got != 0 {
		t.Errorf("Counts[Miss] = %d after a tick miss, expected 0", got)
	}
}

func TestMissHealth(t *testing.T) {
	m := NewModel(Config{HPDrainRate: 5})
	st := m.Apply(HitResult{Object: 0, Time: 1500, Result: Miss})

	// Miss at HP 5 costs 25 of 200 raw.
	if math.Abs(st.Health-87.5) > 1e-9 {
		t.Errorf("Health = %v, expected 87.5", st.Health)
	}
	if st.Combo != 0 {
		t.Errorf("Combo = %d, expected 0", st.Combo)
	}
}

func TestSpinnerHoldHeals(t *testing.T) {
	m := NewModel(Config{HPDrainRate: 5})
	m.Apply(HitResult{Result: Miss})
	before := m.State()

	st := m.Apply(HitResult{Result: SpinnerHold, Held: 500})
	// 500 ms of spinning gives 5 raw, 2.5 percent.
	if math.Abs(st.Health-before.Health-2.5) > 1e-9 {
		t.Errorf("Health = %v after spinning, expected %v", st.Health, before.Health+2.5)
	}
	if st.Score != before.Score || st.Combo != before.Combo || st.Counts != before.Counts {
		t.Errorf("spinning changed score state: %+v -> %+v", before, st)
	}
}

func TestComboEndBonuses(t *testing.T) {
	tests := []struct {
		name       string
		results    []Result
		geki, katu int
	}{
		{"all 300", []Result{Hit300, Hit300, Hit300}, 1, 0},
		{"100 then 300", []Result{Hit100, Hit300}, 0, 1},
		{"ends on 100", []Result{Hit300, Hit100}, 0, 1},
		{"has 50", []Result{Hit50, Hit300}, 0, 0},
		{"has miss", []Result{Miss, Hit300}, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewModel(Config{})
			for i, r := range tc.results {
				m.Apply(HitResult{Result: r, ComboEnd: i == len(tc.results)-1})
			}
			st := m.State()
			if st.Geki != tc.geki || st.Katu != tc.katu {
				t.Errorf("geki/katu = %d/%d, expected %d/%d", st.Geki, st.Katu, tc.geki, tc.katu)
			}
		})
	}
}

func TestDrainAndDeath(t *testing.T) {
	m := NewModel(Config{DropRate: 0.1})

	st := m.Drain(1000)
	if math.Abs(st.Health-50) > 1e-9 {
		t.Errorf("Health = %v, expected 50", st.Health)
	}
	if !m.Alive() {
		t.Fatal("player died at half health")
	}
	m.Drain(1000)
	if m.Alive() {
		t.Error("player should be dead at zero health")
	}

	// Dead models ignore further drain.
	if st := m.Drain(1000); st.Health != 0 {
		t.Errorf("Health = %v after death, expected 0", st.Health)
	}
}

func TestNoFailAndAutoNeverDie(t *testing.T) {
	for _, mod := range []mods.Mods{mods.NoFail, mods.Auto} {
		m := NewModel(Config{DropRate: 1, Mods: mod})
		m.Drain(10_000)
		if !m.Alive() {
			t.Errorf("%v: player died", mod)
		}
		if m.State().Health != 0 {
			t.Errorf("%v: Health = %v, expected 0", mod, m.State().Health)
		}
	}
}

func TestSuddenDeath(t *testing.T) {
	m := NewModel(Config{Mods: mods.SuddenDeath})
	m.Apply(hit(Hit300))
	m.Apply(HitResult{Result: Miss, Tick: true})
	if m.Alive() {
		t.Error("a combo break under SuddenDeath should be fatal")
	}
}

func TestEasyExtraLives(t *testing.T) {
	m := NewModel(Config{DropRate: 1, Mods: mods.Easy})
	if m.State().Lives != 2 {
		t.Fatalf("Lives = %d, expected 2", m.State().Lives)
	}

	st := m.Drain(300)
	if !m.Alive() {
		t.Fatal("player died with lives remaining")
	}
	if st.Lives != 1 || !st.Recovering {
		t.Fatalf("Lives = %d, Recovering = %v, expected 1/true", st.Lives, st.Recovering)
	}

	// Regeneration instead of drain: 0.02% per ms.
	st = m.Drain(100)
	if math.Abs(st.Health-2) > 1e-9 {
		t.Errorf("Health = %v during recovery, expected 2", st.Health)
	}

	st = m.Drain(5000)
	if st.Recovering || st.Health < 99 {
		t.Errorf("Recovering = %v, Health = %v, expected recovery to finish", st.Recovering, st.Health)
	}

	before := st.Health
	st = m.Drain(10)
	if st.Health >= before {
		t.Errorf("normal drain did not resume: %v -> %v", before, st.Health)
	}
}

func TestUpdateDisplay(t *testing.T) {
	m := NewModel(Config{})
	m.Apply(hit(Hit300))

	m.UpdateDisplay(10)
	st := m.State()
	if st.DisplayScore <= 0 || st.DisplayScore >= st.Score {
		t.Errorf("DisplayScore = %d, expected between 0 and %d", st.DisplayScore, st.Score)
	}
	for i := 0; i < 100; i++ {
		m.UpdateDisplay(16)
	}
	if st := m.State(); st.DisplayScore != st.Score {
		t.Errorf("DisplayScore = %d, expected to reach %d", st.DisplayScore, st.Score)
	}
}

func TestReset(t *testing.T) {
	m := NewModel(Config{DropRate: 0.05, Mods: mods.Easy})
	m.Apply(hit(Hit300))
	m.Drain(5000)
	m.Reset()

	st := m.State()
	if st.Score != 0 || st.Combo != 0 || st.Health != 100 || st.Lives != 2 || !st.Perfect {
		t.Errorf("Reset() left state %+v", st)
	}
}
