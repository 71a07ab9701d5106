package scoring

import "github.com/vovakirdan/tui-osu/internal/core"

// HealthMax is the top of the raw health scale. Percentages are raw/2.
const HealthMax = 200.0

// Raw health gained per result at HP 5.
const (
	hp50           = 0.4
	hp100          = 2.2
	hp300          = 6.0
	hp100Katu      = 10.0
	hp300Katu      = 10.0
	hp300Geki      = 14.0
	hpSlider10     = 3.0
	hpSlider30     = 4.0
	hpSpinnerSpin  = 1.7
	hpSpinnerBonus = 2.0
	// hpSpinnerHold is gained per millisecond of spinning.
	hpSpinnerHold = 0.01
)

// Bonus is the combo-end bonus awarded when a combo closes cleanly.
type Bonus int

const (
	BonusNone Bonus = iota
	Katu100
	Katu300
	Geki
)

// Health tracks the health bar on the raw scale. Uncapped keeps the sum of
// every change, which the drop-rate search uses to measure spare recovery.
type Health struct {
	raw      float64
	uncapped float64

	hpDrainRate        float64
	multiplierNormal   float64
	multiplierComboEnd float64
}

// NewHealth returns a full health bar for the given HP stat.
func NewHealth(hpDrainRate, multiplierNormal, multiplierComboEnd float64) *Health {
	h := &Health{}
	h.SetModifiers(hpDrainRate, multiplierNormal, multiplierComboEnd)
	h.Reset()
	return h
}

// SetModifiers sets the HP stat and the gain multipliers.
func (h *Health) SetModifiers(hpDrainRate, multiplierNormal, multiplierComboEnd float64) {
	h.hpDrainRate = hpDrainRate
	h.multiplierNormal = multiplierNormal
	h.multiplierComboEnd = multiplierComboEnd
}

// Reset fills the bar.
func (h *Health) Reset() {
	h.raw = HealthMax
	h.uncapped = HealthMax
}

func (h *Health) Raw() float64      { return h.raw }
func (h *Health) Uncapped() float64 { return h.uncapped }

// Percent returns health in [0, 100].
func (h *Health) Percent() float64 { return h.raw / HealthMax * 100 }

// Set replaces the raw value.
func (h *Health) Set(v float64) {
	h.raw = core.ClampF(v, 0, HealthMax)
	h.uncapped = v
}

// Change adds v to the raw value, clamped to the scale.
func (h *Health) Change(v float64) {
	h.raw = core.ClampF(h.raw+v, 0, HealthMax)
	h.uncapped += v
}

// Hit applies the health change for one result.
func (h *Health) Hit(r Result) {
	switch r {
	case Miss:
		h.Change(mapRange(h.hpDrainRate, -6, -25, -40))
	case Hit50:
		h.Change(h.multiplierNormal * mapRange(h.hpDrainRate, hp50*8, hp50, hp50))
	case Hit100:
		h.Change(h.multiplierNormal * mapRange(h.hpDrainRate, hp100*8, hp100, hp100))
	case Hit300:
		h.Change(h.multiplierNormal * hp300)
	case Slider10:
		h.Change(h.multiplierNormal * hpSlider10)
	case Slider30:
		h.Change(h.multiplierNormal * hpSlider30)
	case SpinnerSpin:
		h.Change(h.multiplierNormal * hpSpinnerSpin)
	case SpinnerBonus:
		h.Change(h.multiplierNormal * hpSpinnerBonus)
	}
}

// Spin applies the small gain for ms of spinning. It is not scaled by the
// drop-rate multipliers.
func (h *Health) Spin(ms int) {
	h.Change(float64(ms) * hpSpinnerHold)
}

// ComboEnd applies the health change for a combo-end bonus.
func (h *Health) ComboEnd(b Bonus) {
	switch b {
	case Katu100:
		h.Change(h.multiplierComboEnd * hp100Katu)
	case Katu300:
		h.Change(h.multiplierComboEnd * hp300Katu)
	case Geki:
		h.Change(h.multiplierComboEnd * hp300Geki)
	}
}

// mapRange is difficulty.MapRange (difficulty imports this package).
func mapRange(v, atZero, atFive, atTen float64) float64 {
	switch {
	case v > 5:
		return atFive + (atTen-atFive)*(v-5)/5
	case v < 5:
		return atFive - (atFive-atZero)*(5-v)/5
	default:
		return atFive
	}
}
