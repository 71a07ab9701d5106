package replay

import (
	"fmt"

	"github.com/vovakirdan/tui-osu/internal/clock"
)

// Player steps through the frames of a replay in time order.
type Player struct {
	replay *Replay
	frames []Frame
	index  int
}

// NewPlayer creates a player positioned before the first frame.
func NewPlayer(r *Replay) *Player {
	return &Player{replay: r, frames: r.Body()}
}

func (p *Player) Replay() *Replay { return p.replay }
func (p *Player) Index() int      { return p.index }
func (p *Player) Len() int        { return len(p.frames) }
func (p *Player) Done() bool      { return p.index >= len(p.frames) }
func (p *Player) Rewind()         { p.index = 0 }

// SkipTime returns the intro skip target stored in the reserved frame, or
// 0 when the intro was not skipped.
func (p *Player) SkipTime() int {
	if len(p.replay.Frames) < 2 || p.replay.Frames[1].TimeDiff >= -1 {
		return 0
	}
	return -p.replay.Frames[1].TimeDiff
}

// Next returns the frames due at or before t and moves past them.
func (p *Player) Next(t int) []Frame {
	start := p.index
	for p.index < len(p.frames) && p.frames[p.index].Time <= t {
		p.index++
	}
	return p.frames[start:p.index]
}

// Peek returns the next frame without consuming it.
func (p *Player) Peek() (Frame, bool) {
	if p.Done() {
		return Frame{}, false
	}
	return p.frames[p.index], true
}

// Seek rewinds to the start and returns how many frames lie at or before
// target. The caller replays those frames to rebuild game state.
func (p *Player) Seek(target int) (int, error) {
	if target < 0 {
		return p.index, fmt.Errorf("%w: %d", clock.ErrInvalidCheckpoint, target)
	}
	p.index = 0
	n := 0
	for n < len(p.frames) && p.frames[n].Time <= target {
		n++
	}
	return n, nil
}
