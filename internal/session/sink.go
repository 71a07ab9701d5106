package session

import (
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/objects"
	"github.com/vovakirdan/tui-osu/internal/scoring"
)

// ObjectView is what the presentation needs to draw one object.
type ObjectView struct {
	Index   int
	Kind    objects.Kind
	Combo   int       // number within its combo, from 1
	Colour  int       // index of its combo from the start of the map
	Head    core.Vec2 // start position
	Pos     core.Vec2 // current position (slider ball)
	End     core.Vec2
	Time    int
	EndTime int

	// Approach goes from 1 when the object appears to 0 at its time.
	Approach float64
	Alpha    float64
	// Progress is the fraction of a slider or spinner completed.
	Progress float64
	// Rotation is the fall rotation after a failed play, in radians.
	Rotation float64
}

// HitSound is a request to play the sample of a successful hit.
type HitSound struct {
	Object int
	Time   int
	Sound  int
	Tick   bool
}

// Presentation receives one-way draw and sound calls. It never feeds
// anything back into the game.
type Presentation interface {
	DrawObject(ObjectView)
	PlayHitSound(HitSound)
	ShowResult(scoring.HitResult)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) DrawObject(ObjectView)        {}
func (NopSink) PlayHitSound(HitSound)        {}
func (NopSink) ShowResult(scoring.HitResult) {}
