package replay

import (
	"time"

	"github.com/vovakirdan/tui-osu/internal/core"
)

// Recorder collects frames during a live session.
type Recorder struct {
	frames   []Frame
	life     []LifeFrame
	lastTime int
	lastKeys core.Keys
	skipTime int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.frames = r.frames[:0]
	r.life = r.life[:0]
	r.lastTime = 0
	r.lastKeys = core.KeyNone
	r.skipTime = 0
}

// Record appends f when its keys differ from the previous frame or when
// tick is set. It reports whether the frame was stored. Frames going back
// in time are dropped.
func (r *Recorder) Record(f core.Frame, tick bool) bool {
	if len(r.frames) > 0 && f.Time < r.lastTime {
		return false
	}
	if !tick && f.Keys == r.lastKeys {
		return false
	}
	r.frames = append(r.frames, FromInput(f, r.lastTime))
	r.lastTime = f.Time
	r.lastKeys = f.Keys
	return true
}

// RecordLife samples the health bar.
func (r *Recorder) RecordLife(t int, ratio float64) {
	r.life = append(r.life, LifeFrame{Time: t, Ratio: core.ClampF(ratio, 0, 1)})
}

// Skip notes that the intro was skipped to t.
func (r *Recorder) Skip(t int) {
	r.skipTime = t
}

func (r *Recorder) Len() int { return len(r.frames) }

// Finish builds the replay. The metadata fields of meta are kept; frames,
// life bar, skip time and version are filled in. A zero timestamp is set
// to now.
func (r *Recorder) Finish(meta Replay) *Replay {
	out := meta
	out.Version = Version
	out.SkipTime = r.skipTime
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now().UTC()
	}
	out.Frames = make([]Frame, 0, len(r.frames)+2)
	out.Frames = append(out.Frames, startFrame(), skipFrame(r.skipTime))
	out.Frames = append(out.Frames, r.frames...)
	out.LifeFrames = append([]LifeFrame(nil), r.life...)
	return &out
}
