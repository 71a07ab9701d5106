// Package session runs one play of a beatmap: it owns the timeline, the
// router, the score model, the recorder and the clock adapter, and moves
// them forward together one tick at a time.
package session

import "fmt"

// PlayState selects how a session starts and what it does at the end.
type PlayState int

const (
	Normal PlayState = iota
	FirstLoad
	Retry
	Replay
	Lose
)

var playStateNames = [...]string{"NORMAL", "FIRST_LOAD", "RETRY", "REPLAY", "LOSE"}

func (s PlayState) String() string {
	if s < 0 || int(s) >= len(playStateNames) {
		return fmt.Sprintf("PlayState(%d)", int(s))
	}
	return playStateNames[s]
}
