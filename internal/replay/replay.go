package replay

import (
	"time"

	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// Version is written into every replay this package creates.
const Version = 1

// Summary is the final score of the recorded play.
type Summary struct {
	Score    int64
	MaxCombo int
	Hit300   int
	Hit100   int
	Hit50    int
	Geki     int
	Katu     int
	Miss     int
	Perfect  bool
}

// SummaryOf extracts the replay summary from a score state.
func SummaryOf(s scoring.State) Summary {
	return Summary{
		Score:    s.Score,
		MaxCombo: s.MaxCombo,
		Hit300:   s.Counts[scoring.Hit300],
		Hit100:   s.Counts[scoring.Hit100],
		Hit50:    s.Counts[scoring.Hit50],
		Geki:     s.Geki,
		Katu:     s.Katu,
		Miss:     s.Counts[scoring.Miss],
		Perfect:  s.Perfect,
	}
}

// Replay is a finished recording. Frames start with the two reserved
// frames written by Recorder.Finish.
type Replay struct {
	Version         int
	BeatmapChecksum string
	Player          string
	Mods            mods.Mods
	Summary         Summary
	SkipTime        int
	Timestamp       time.Time
	LifeFrames      []LifeFrame
	Frames          []Frame
}

// Body returns the frames after the reserved ones.
func (r *Replay) Body() []Frame {
	if len(r.Frames) < 2 {
		return nil
	}
	return r.Frames[2:]
}

// Duration returns the time of the last frame.
func (r *Replay) Duration() int {
	body := r.Body()
	if len(body) == 0 {
		return 0
	}
	return body[len(body)-1].Time
}
