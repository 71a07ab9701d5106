package clock

import (
	"fmt"
	"strconv"
	"strings"
)

// Speed is the playback rate of a replay.
type Speed float64

const (
	SpeedHalf   Speed = 0.5
	SpeedNormal Speed = 1
	SpeedDouble Speed = 2
)

// speeds is the cycle order of Next.
var speeds = []Speed{SpeedNormal, SpeedDouble, SpeedHalf}

// Next returns the speed after s in the cycle 1x, 2x, 0.5x.
func (s Speed) Next() Speed {
	for i, sp := range speeds {
		if sp == s {
			return speeds[(i+1)%len(speeds)]
		}
	}
	return SpeedNormal
}

func (s Speed) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64) + "x"
}

// ParseSpeed reads "0.5", "1x", "2" and the like. Only the cycle speeds are
// accepted.
func ParseSpeed(v string) (Speed, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "x"), 64)
	if err != nil {
		return 0, fmt.Errorf("clock: invalid speed %q", v)
	}
	for _, sp := range speeds {
		if Speed(f) == sp {
			return sp, nil
		}
	}
	return 0, fmt.Errorf("clock: unsupported speed %q (want 0.5x, 1x or 2x)", v)
}
