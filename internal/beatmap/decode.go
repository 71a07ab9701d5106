package beatmap

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-osu/internal/core"
)

// earlyVersionOffset is added to all times of files older than format v5.
const earlyVersionOffset = 24

type section int

const (
	secNone section = iota
	secGeneral
	secMetadata
	secDifficulty
	secEvents
	secTimingPoints
	secHitObjects
)

// DecodeFile parses the .osu file at path.
func DecodeFile(path string, logger *log.Logger) (*Beatmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("beatmap: cannot read %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data), logger)
}

// Decode parses a beatmap in the .osu text format and validates it.
// Individual malformed timing point or hit object lines are skipped and
// logged; a file that yields no usable objects is an error.
func Decode(r io.Reader, logger *log.Logger) (*Beatmap, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("beatmap: cannot read input: %w", err)
	}
	sum := md5.Sum(data)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var header string
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line != "" {
			header = line
			break
		}
	}
	if !strings.HasPrefix(strings.ToLower(header), "osu file format v") {
		return nil, fmt.Errorf("%w: bad header %q", ErrInvalidBeatmap, header)
	}
	version, err := strconv.Atoi(strings.TrimSpace(header[len("osu file format v"):]))
	if err != nil {
		return nil, fmt.Errorf("%w: bad version in header %q", ErrInvalidBeatmap, header)
	}
	offset := 0
	if version < 5 {
		offset = earlyVersionOffset
	}

	b := &Beatmap{
		Checksum:      hex.EncodeToString(sum[:]),
		StackLeniency: 0.7,
		Difficulty: Difficulty{
			HPDrainRate:       5,
			CircleSize:        5,
			OverallDifficulty: 5,
			ApproachRate:      -1,
			SliderMultiplier:  1.4,
			SliderTickRate:    1,
		},
	}

	sec := secNone
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sec = sectionFor(line)
			continue
		}

		switch sec {
		case secGeneral:
			k, v := splitKeyVal(line)
			switch k {
			case "AudioFilename":
				b.AudioFilename = v
			case "AudioLeadIn":
				b.AudioLeadIn = parseInt(v, 0)
			case "StackLeniency":
				b.StackLeniency = parseFloat(v, 0.7)
			}
		case secMetadata:
			k, v := splitKeyVal(line)
			switch k {
			case "Title":
				b.Title = v
			case "Artist":
				b.Artist = v
			case "Creator":
				b.Creator = v
			case "Version":
				b.Version = v
			}
		case secDifficulty:
			k, v := splitKeyVal(line)
			d := &b.Difficulty
			switch k {
			case "HPDrainRate":
				d.HPDrainRate = parseFloat(v, d.HPDrainRate)
			case "CircleSize":
				d.CircleSize = parseFloat(v, d.CircleSize)
			case "OverallDifficulty":
				d.OverallDifficulty = parseFloat(v, d.OverallDifficulty)
			case "ApproachRate":
				d.ApproachRate = parseFloat(v, d.ApproachRate)
			case "SliderMultiplier":
				d.SliderMultiplier = parseFloat(v, d.SliderMultiplier)
			case "SliderTickRate":
				d.SliderTickRate = parseFloat(v, d.SliderTickRate)
			}
		case secEvents:
			parts := strings.Split(line, ",")
			if len(parts) >= 3 && (parts[0] == "2" || parts[0] == "Break") {
				start := parseInt(parts[1], 0) + offset
				end := parseInt(parts[2], start) + offset
				if end < start {
					end = start
				}
				b.Breaks = append(b.Breaks, Break{Start: start, End: end})
			}
		case secTimingPoints:
			tp, err := parseTimingPoint(line, offset)
			if err != nil {
				logger.Warn("skipping timing point", "line", lineNo, "error", err)
				continue
			}
			b.TimingPoints = append(b.TimingPoints, tp)
		case secHitObjects:
			h, err := parseHitObject(line, offset)
			if err != nil {
				logger.Warn("skipping hit object", "line", lineNo, "error", err)
				continue
			}
			b.Objects = append(b.Objects, h)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("beatmap: cannot scan input: %w", err)
	}

	// Old files have no ApproachRate and use OverallDifficulty for it.
	if b.Difficulty.ApproachRate < 0 {
		b.Difficulty.ApproachRate = b.Difficulty.OverallDifficulty
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func sectionFor(header string) section {
	switch strings.ToLower(header) {
	case "[general]":
		return secGeneral
	case "[metadata]":
		return secMetadata
	case "[difficulty]":
		return secDifficulty
	case "[events]":
		return secEvents
	case "[timingpoints]":
		return secTimingPoints
	case "[hitobjects]":
		return secHitObjects
	default:
		return secNone
	}
}

func parseTimingPoint(line string, offset int) (TimingPoint, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 2 {
		return TimingPoint{}, fmt.Errorf("expected at least 2 fields, got %d", len(parts))
	}
	t, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return TimingPoint{}, fmt.Errorf("bad time %q", parts[0])
	}
	beatLength, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return TimingPoint{}, fmt.Errorf("bad beat length %q", parts[1])
	}
	tp := TimingPoint{
		Time:         int(t) + offset,
		BeatLength:   beatLength,
		Meter:        4,
		SampleSet:    "normal",
		SampleVolume: 100,
		Inherited:    beatLength < 0,
	}
	if len(parts) > 2 {
		if m := parseInt(parts[2], 4); m > 0 {
			tp.Meter = m
		}
	}
	if len(parts) > 3 {
		tp.SampleSet = sampleSetName(parseInt(parts[3], 1))
	}
	if len(parts) > 5 {
		tp.SampleVolume = parseInt(parts[5], 100)
	}
	if len(parts) > 6 {
		tp.Inherited = strings.TrimSpace(parts[6]) == "0"
	}
	if len(parts) > 7 {
		tp.Kiai = parseInt(parts[7], 0)&1 != 0
	}
	return tp, nil
}

func parseHitObject(line string, offset int) (HitObject, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return HitObject{}, fmt.Errorf("expected at least 4 fields, got %d", len(parts))
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	t, errT := strconv.Atoi(strings.TrimSpace(parts[2]))
	typ, errType := strconv.Atoi(strings.TrimSpace(parts[3]))
	if errX != nil || errY != nil || errT != nil || errType != nil {
		return HitObject{}, fmt.Errorf("bad position, time or type in %q", line)
	}

	h := HitObject{
		X:    x,
		Y:    y,
		Time: t + offset,
		Type: ObjectType(typ),
	}
	if len(parts) > 4 {
		h.HitSound = parseInt(parts[4], 0)
	}

	switch {
	case h.IsSpinner():
		if len(parts) < 6 {
			return HitObject{}, fmt.Errorf("spinner without end time")
		}
		h.EndTime = parseInt(parts[5], t) + offset
	case h.IsSlider():
		if len(parts) < 8 {
			return HitObject{}, fmt.Errorf("slider with %d fields", len(parts))
		}
		path := strings.Split(parts[5], "|")
		if len(path[0]) != 1 {
			return HitObject{}, fmt.Errorf("bad curve type %q", path[0])
		}
		h.CurveType = CurveType(path[0][0])
		for _, p := range path[1:] {
			xy := strings.Split(p, ":")
			if len(xy) != 2 {
				return HitObject{}, fmt.Errorf("bad curve point %q", p)
			}
			h.CurvePoints = append(h.CurvePoints, core.V(parseFloat(xy[0], 0), parseFloat(xy[1], 0)))
		}
		h.Repeats = parseInt(parts[6], 1)
		h.PixelLength = parseFloat(parts[7], 0)
	}
	return h, nil
}

func sampleSetName(id int) string {
	switch id {
	case 2:
		return "soft"
	case 3:
		return "drum"
	default:
		return "normal"
	}
}

func splitKeyVal(line string) (string, string) {
	k, v, ok := strings.Cut(line, ":")
	if !ok {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v
	}
	return def
}
