package objects

import (
	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/core"
)

// Dummy stands in for an object that could not be built. It never scores
// and resolves silently once its time has passed.
type Dummy struct {
	base
}

func newDummy(b *beatmap.Beatmap, index int, env *Env) *Dummy {
	d := &Dummy{base: base{env: env, index: index}}
	if index >= 0 && index < len(b.Objects) {
		d.hit = b.Objects[index]
		d.pos = d.hit.Pos()
	}
	return d
}

func (d *Dummy) Kind() Kind             { return KindDummy }
func (d *Dummy) EndTime() int           { return d.hit.Time }
func (d *Dummy) PointAt(int) core.Vec2  { return d.pos }
func (d *Dummy) Press(State, Emit) bool { return false }
func (d *Dummy) ForceMiss(int, Emit)    { d.resolved = true }
func (d *Dummy) Reset()                 { d.resolved = false }

func (d *Dummy) Update(st State, _ Emit) bool {
	if st.TrackPosition > d.hit.Time {
		d.resolved = true
	}
	return d.resolved
}
