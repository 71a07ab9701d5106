package session

import (
	"time"

	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/replay"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// Record is a finished or failed play as stored by a ScoreStore.
type Record struct {
	ID              int64
	BeatmapChecksum string
	Beatmap         string
	Player          string
	Mods            mods.Mods
	Score           int64
	MaxCombo        int
	Hit300          int
	Hit100          int
	Hit50           int
	Miss            int
	Geki            int
	Katu            int
	Accuracy        float64
	Grade           scoring.Grade
	Perfect         bool

	// Failed plays are kept as statistics but never ranked.
	Failed     bool
	FailTime   int
	ReplayPath string
	CreatedAt  time.Time
}

// NewRecord builds a record from a score state.
func NewRecord(checksum, title, player string, st scoring.State) Record {
	return Record{
		BeatmapChecksum: checksum,
		Beatmap:         title,
		Player:          player,
		Mods:            st.Mods,
		Score:           st.Score,
		MaxCombo:        st.MaxCombo,
		Hit300:          st.Counts[scoring.Hit300],
		Hit100:          st.Counts[scoring.Hit100],
		Hit50:           st.Counts[scoring.Hit50],
		Miss:            st.Counts[scoring.Miss],
		Geki:            st.Geki,
		Katu:            st.Katu,
		Accuracy:        st.Accuracy(),
		Grade:           st.Grade(),
		Perfect:         st.Perfect,
		CreatedAt:       time.Now().UTC(),
	}
}

// ScoreStore persists plays. PreviousScores returns ranked (not failed)
// records for a beatmap, best first; an empty list is not an error.
type ScoreStore interface {
	SubmitScore(r Record) (int64, error)
	PreviousScores(checksum string) ([]Record, error)
}

// ReplayStore persists replays and returns where the replay went.
type ReplayStore interface {
	SaveReplay(r *replay.Replay) (string, error)
}
