package difficulty

import (
	"math"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// maxDropIterations bounds the search. Real maps settle in well under a
// hundred rounds.
const maxDropIterations = 2000

// HPDrop is the outcome of the drop-rate search.
type HPDrop struct {
	// Rate is raw health (0..200 scale) drained per millisecond.
	Rate               float64
	MultiplierNormal   float64
	MultiplierComboEnd float64
}

// DropRate finds the largest drain rate at which a full-accuracy play of b
// never falls below the targets for hp. Each failed simulation lowers the
// rate or raises the gain multipliers and tries again.
func DropRate(b *beatmap.Beatmap, hp float64, approachTime int) HPDrop {
	out := HPDrop{Rate: 0.05, MultiplierNormal: 1, MultiplierComboEnd: 1}
	if len(b.Objects) == 0 {
		out.Rate = 0
		return out
	}

	lowestHpEver := MapRange(hp, 195, 160, 60)
	lowestHpComboEnd := MapRange(hp, 198, 170, 80)
	lowestHpEnd := MapRange(hp, 198, 180, 80)
	recoveryAvailable := MapRange(hp, 8, 4, 0)

	health := scoring.NewHealth(hp, 1, 1)
	for iter := 0; iter < maxDropIterations; iter++ {
		health.SetModifiers(hp, out.MultiplierNormal, out.MultiplierComboEnd)
		health.Reset()
		if simulateDrop(b, health, &out, lowestHpEver, lowestHpComboEnd, approachTime) {
			continue
		}

		if health.Raw() < lowestHpEnd {
			out.Rate *= 0.94
			out.MultiplierNormal *= 1.01
			out.MultiplierComboEnd *= 1.01
			continue
		}

		recovery := (health.Uncapped() - scoring.HealthMax) / float64(len(b.Objects))
		if recovery < recoveryAvailable {
			out.Rate *= 0.96
			out.MultiplierNormal *= 1.01
			out.MultiplierComboEnd *= 1.02
			continue
		}
		return out
	}
	return out
}

// simulateDrop plays b once at full accuracy. It reports whether the run
// failed mid-map, in which case out has already been adjusted.
func simulateDrop(b *beatmap.Beatmap, health *scoring.Health, out *HPDrop, lowestHpEver, lowestHpComboEnd float64, approachTime int) bool {
	lastTime := b.Objects[0].Time - approachTime
	comboTooLow := 0

	for i, h := range b.Objects {
		breakTime := 0
		for _, br := range b.Breaks {
			if br.Start >= lastTime && br.End <= h.Time {
				breakTime = br.End - br.Start
				break
			}
		}
		health.Change(-out.Rate * float64(h.Time-lastTime-breakTime))

		endTime := b.EndTime(i)
		lastTime = endTime

		if health.Raw() <= lowestHpEver {
			out.Rate *= 0.96
			return true
		}

		health.Change(-out.Rate * float64(endTime-h.Time))

		switch {
		case h.IsSlider():
			base, beatLength := b.TimingAt(h.Time)
			d := b.Difficulty
			tickLengthDiv := 100 * d.SliderMultiplier / d.SliderTickRate / (beatLength / base)
			tickCount := int(math.Ceil(h.PixelLength/tickLengthDiv)) - 1
			repeats := max(1, h.Repeats)
			for j := 0; j < repeats; j++ {
				health.Hit(scoring.Slider30)
			}
			for j := 0; j < tickCount*repeats; j++ {
				health.Hit(scoring.Slider10)
			}
		case h.IsSpinner():
			spinsPerMinute := 100 + b.Difficulty.OverallDifficulty*15
			needed := int(spinsPerMinute * float64(h.EndTime-h.Time) / 60000)
			for j := 0; j < needed; j++ {
				health.Hit(scoring.SpinnerSpin)
			}
		}
		health.Hit(scoring.Hit300)

		if i == len(b.Objects)-1 || b.Objects[i+1].NewCombo() {
			health.ComboEnd(scoring.Geki)
			if health.Raw() < lowestHpComboEnd {
				comboTooLow++
				if comboTooLow > 2 {
					out.MultiplierNormal *= 1.03
					out.MultiplierComboEnd *= 1.07
					return true
				}
			}
		}
	}
	return false
}
