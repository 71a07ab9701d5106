package scoring

import (
	"github.com/vovakirdan/tui-osu/internal/mods"
)

const (
	// easyLives is the number of extra lives granted by Easy.
	easyLives = 2

	// recoveryRate is the raw health regenerated per millisecond after a
	// life is consumed (0.02% of the bar).
	recoveryRate = 0.0002 * HealthMax

	// recoveredPercent ends the recovery phase.
	recoveredPercent = 99.0
)

// Combo-end flags.
const (
	comboHad100  = 1
	comboHadMiss = 2 // a 50 or a miss
)

// Config holds the per-map constants of a Model.
type Config struct {
	Mods mods.Mods

	// Difficulty is the score difficulty multiplier of the beatmap.
	Difficulty int

	// HPDrainRate is the adjusted HP stat; it scales miss and 50/100 gains.
	HPDrainRate float64

	// DropRate is the raw health drained per millisecond of play.
	DropRate           float64
	MultiplierNormal   float64
	MultiplierComboEnd float64
}

// State is a snapshot of the running score.
type State struct {
	Score        int64
	DisplayScore int64
	Combo        int
	MaxCombo     int
	Counts       [resultCount]int
	Geki         int
	Katu         int
	Health       float64 // percent
	Lives        int
	Recovering   bool
	Perfect      bool // no combo break so far
	Mods         mods.Mods
}

// Total returns the number of graded objects.
func (s State) Total() int {
	return s.Counts[Hit300] + s.Counts[Hit100] + s.Counts[Hit50] + s.Counts[Miss]
}

// Accuracy returns the weighted hit percentage.
func (s State) Accuracy() float64 {
	return Accuracy(s.Counts[Hit300], s.Counts[Hit100], s.Counts[Hit50], s.Counts[Miss])
}

// Grade returns the letter rank of the counts so far.
func (s State) Grade() Grade {
	silver := s.Mods.Any(mods.Hidden | mods.Flashlight)
	return GradeFor(s.Counts[Hit300], s.Counts[Hit100], s.Counts[Hit50], s.Counts[Miss], silver)
}

// Model accumulates hit results. It is not safe for concurrent use.
type Model struct {
	cfg    Config
	health *Health
	st     State

	comboEnd int
	dead     bool
}

// NewModel returns a model with full health.
func NewModel(cfg Config) *Model {
	if cfg.MultiplierNormal == 0 {
		cfg.MultiplierNormal = 1
	}
	if cfg.MultiplierComboEnd == 0 {
		cfg.MultiplierComboEnd = 1
	}
	m := &Model{cfg: cfg}
	m.health = NewHealth(cfg.HPDrainRate, cfg.MultiplierNormal, cfg.MultiplierComboEnd)
	m.Reset()
	return m
}

// Reset starts a new attempt.
func (m *Model) Reset() {
	m.health.Reset()
	m.st = State{Mods: m.cfg.Mods, Perfect: true}
	if m.cfg.Mods.Has(mods.Easy) {
		m.st.Lives = easyLives
	}
	m.comboEnd = 0
	m.dead = false
	m.sync()
}

// Config returns the model's constants.
func (m *Model) Config() Config {
	return m.cfg
}

// State returns the current snapshot.
func (m *Model) State() State {
	return m.st
}

// Alive reports whether the player can continue. NoFail and Auto never die.
func (m *Model) Alive() bool {
	return !m.dead
}

// Apply records one hit result.
func (m *Model) Apply(r HitResult) State {
	if r.Tick || !r.Result.IsObject() {
		m.applySub(r)
	} else {
		m.applyObject(r)
	}
	m.settle()
	m.sync()
	return m.st
}

func (m *Model) applySub(r HitResult) {
	switch r.Result {
	case Slider30, Slider10:
		m.st.Score += int64(r.Result.Value())
		m.st.Counts[r.Result]++
		m.incrementCombo()
		m.health.Hit(r.Result)
	case SpinnerSpin, SpinnerBonus:
		m.st.Score += int64(r.Result.Value())
		m.st.Counts[r.Result]++
		m.health.Hit(r.Result)
	case SpinnerHold:
		m.health.Spin(r.Held)
	case Miss:
		m.resetCombo()
	}
}

func (m *Model) applyObject(r HitResult) {
	v := int64(r.Result.Value())
	if v > 0 {
		bonus := float64(v) * float64(max(m.st.Combo-1, 0)) * float64(m.cfg.Difficulty) * m.cfg.Mods.ScoreMultiplier() / 25
		m.st.Score += v + int64(bonus)
		m.incrementCombo()
	}
	m.st.Counts[r.Result]++

	switch r.Result {
	case Hit100:
		m.comboEnd |= comboHad100
	case Hit50:
		m.comboEnd |= comboHadMiss
	case Miss:
		m.comboEnd |= comboHadMiss
		m.resetCombo()
	}
	m.health.Hit(r.Result)

	if !r.ComboEnd {
		return
	}
	switch {
	case m.comboEnd == 0:
		m.st.Geki++
		m.health.ComboEnd(Geki)
	case m.comboEnd&comboHadMiss == 0 && r.Result == Hit100:
		m.st.Katu++
		m.health.ComboEnd(Katu100)
	case m.comboEnd&comboHadMiss == 0 && r.Result == Hit300:
		m.st.Katu++
		m.health.ComboEnd(Katu300)
	}
	m.comboEnd = 0
}

func (m *Model) incrementCombo() {
	m.st.Combo++
	if m.st.Combo > m.st.MaxCombo {
		m.st.MaxCombo = m.st.Combo
	}
}

func (m *Model) resetCombo() {
	m.st.Combo = 0
	m.st.Perfect = false
	if m.cfg.Mods.Has(mods.SuddenDeath) {
		m.health.Set(0)
	}
}

// Drain applies delta milliseconds of passive health change: normal drain,
// or regeneration while recovering from a lost life.
func (m *Model) Drain(delta int) State {
	if m.dead || delta <= 0 {
		return m.st
	}
	if m.st.Recovering {
		m.health.Change(recoveryRate * float64(delta))
		if m.health.Percent() >= recoveredPercent {
			m.st.Recovering = false
		}
	} else {
		m.health.Change(-m.cfg.DropRate * float64(delta))
	}
	m.settle()
	m.sync()
	return m.st
}

// UpdateDisplay slides the display score towards the real score.
func (m *Model) UpdateDisplay(delta int) {
	if m.st.DisplayScore >= m.st.Score {
		return
	}
	m.st.DisplayScore += (m.st.Score-m.st.DisplayScore)*int64(delta)/50 + 1
	if m.st.DisplayScore > m.st.Score {
		m.st.DisplayScore = m.st.Score
	}
}

// settle handles an empty health bar: a spare life starts recovery,
// otherwise the player is dead unless a mod forbids failing.
func (m *Model) settle() {
	if m.dead || m.health.Raw() > 0 || m.st.Recovering {
		return
	}
	if m.st.Lives > 0 {
		m.st.Lives--
		m.st.Recovering = true
		return
	}
	if m.cfg.Mods.Any(mods.NoFail | mods.Auto) {
		return
	}
	m.dead = true
}

func (m *Model) sync() {
	m.st.Health = m.health.Percent()
}
