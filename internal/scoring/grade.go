package scoring

// Grade is the letter rank of a play.
type Grade string

const (
	GradeNone Grade = ""
	GradeXH   Grade = "XH" // SS with Hidden or Flashlight
	GradeSS   Grade = "SS"
	GradeSH   Grade = "SH" // S with Hidden or Flashlight
	GradeS    Grade = "S"
	GradeA    Grade = "A"
	GradeB    Grade = "B"
	GradeC    Grade = "C"
	GradeD    Grade = "D"
)

// Accuracy returns the weighted hit percentage in [0, 100].
func Accuracy(hit300, hit100, hit50, miss int) float64 {
	total := hit300 + hit100 + hit50 + miss
	if total == 0 {
		return 0
	}
	return float64(hit300*300+hit100*100+hit50*50) / float64(total*300) * 100
}

// GradeFor ranks a set of hit counts. silver selects the XH/SH variants.
func GradeFor(hit300, hit100, hit50, miss int, silver bool) Grade {
	total := hit300 + hit100 + hit50 + miss
	if total == 0 {
		return GradeNone
	}

	percent := Accuracy(hit300, hit100, hit50, miss)
	ratio300 := float64(hit300) * 100 / float64(total)
	ratio50 := float64(hit50) * 100 / float64(total)
	noMiss := miss == 0

	switch {
	case percent >= 100:
		if silver {
			return GradeXH
		}
		return GradeSS
	case ratio300 >= 90 && ratio50 < 1 && noMiss:
		if silver {
			return GradeSH
		}
		return GradeS
	case (ratio300 >= 80 && noMiss) || ratio300 >= 90:
		return GradeA
	case (ratio300 >= 70 && noMiss) || ratio300 >= 80:
		return GradeB
	case ratio300 >= 60:
		return GradeC
	default:
		return GradeD
	}
}
