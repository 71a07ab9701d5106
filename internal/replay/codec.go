package replay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-osu/internal/core"
)

// ErrMalformedFrame is wrapped by decode errors for single entries.
var ErrMalformedFrame = errors.New("replay: malformed frame")

// EncodeFrames writes frames as comma separated "timeDiff|x|y|keys".
func EncodeFrames(frames []Frame) string {
	var sb strings.Builder
	for i, f := range frames {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(f.TimeDiff))
		sb.WriteByte('|')
		sb.WriteString(formatFloat(f.X))
		sb.WriteByte('|')
		sb.WriteString(formatFloat(f.Y))
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(int(f.Keys)))
	}
	return sb.String()
}

// DecodeFrames parses an encoded frame body. The first two entries are
// the reserved frames and keep time 0; every later frame's time is the
// running sum of the diffs. Malformed entries are skipped and reported in
// the joined error.
func DecodeFrames(s string) ([]Frame, error) {
	if s == "" {
		return nil, nil
	}
	var (
		frames []Frame
		errs   []error
		last   int
	)
	for i, entry := range strings.Split(s, ",") {
		if entry == "" {
			continue
		}
		f, err := decodeFrame(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		if len(frames) >= 2 {
			f.Time = last + f.TimeDiff
			last = f.Time
		}
		frames = append(frames, f)
	}
	return frames, errors.Join(errs...)
}

func decodeFrame(entry string) (Frame, error) {
	tok := strings.Split(entry, "|")
	if len(tok) < 4 {
		return Frame{}, fmt.Errorf("%w: %q", ErrMalformedFrame, entry)
	}
	diff, err1 := strconv.Atoi(tok[0])
	x, err2 := strconv.ParseFloat(tok[1], 64)
	y, err3 := strconv.ParseFloat(tok[2], 64)
	keys, err4 := strconv.ParseUint(tok[3], 10, 8)
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return Frame{}, fmt.Errorf("%w: %q: %w", ErrMalformedFrame, entry, err)
	}
	return Frame{TimeDiff: diff, X: x, Y: y, Keys: core.Keys(keys)}, nil
}

// EncodeLife writes life frames as comma separated "time|ratio".
func EncodeLife(life []LifeFrame) string {
	parts := make([]string, len(life))
	for i, l := range life {
		parts[i] = strconv.Itoa(l.Time) + "|" + formatFloat(l.Ratio)
	}
	return strings.Join(parts, ",")
}

// DecodeLife parses an encoded life bar, skipping malformed entries.
func DecodeLife(s string) ([]LifeFrame, error) {
	if s == "" {
		return nil, nil
	}
	var (
		out  []LifeFrame
		errs []error
	)
	for _, entry := range strings.Split(s, ",") {
		tok := strings.Split(entry, "|")
		if len(tok) < 2 {
			errs = append(errs, fmt.Errorf("%w: life %q", ErrMalformedFrame, entry))
			continue
		}
		t, err1 := strconv.Atoi(tok[0])
		r, err2 := strconv.ParseFloat(tok[1], 64)
		if err := errors.Join(err1, err2); err != nil {
			errs = append(errs, fmt.Errorf("%w: life %q: %w", ErrMalformedFrame, entry, err))
			continue
		}
		out = append(out, LifeFrame{Time: t, Ratio: r})
	}
	return out, errors.Join(errs...)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
