package tui

import (
	"math"
	"strconv"

	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/objects"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/session"
)

const (
	// popupTime is how long a judgement stays on screen.
	popupTime = 600
	// flashTime is how long the border lights up after a hit sound.
	flashTime = 80
	// ringPoints is the number of cells used to draw an approach ring.
	ringPoints = 16
	// spinRadius is the spinner radius in playfield pixels.
	spinRadius = 120
)

type popup struct {
	pos    core.Vec2
	result scoring.Result
	time   int
}

// Playfield is the presentation sink of a session. It collects the objects
// drawn during one frame plus recent judgements and paints them onto a
// screen buffer.
type Playfield struct {
	radius    float64
	now       int
	views     []session.ObjectView
	popups    []popup
	lastSound int
	sounds    int
}

// NewPlayfield creates a playfield for circles of the given radius in
// playfield pixels.
func NewPlayfield(radius float64) *Playfield {
	return &Playfield{radius: radius, lastSound: math.MinInt / 2}
}

// Begin starts a new frame at track position now. Judgements older than
// popupTime are dropped, and so are judgements from the future after a
// seek backwards.
func (p *Playfield) Begin(now int) {
	p.now = now
	p.views = p.views[:0]
	kept := p.popups[:0]
	for _, pp := range p.popups {
		if pp.time <= now && now-pp.time < popupTime {
			kept = append(kept, pp)
		}
	}
	p.popups = kept
}

// Reset forgets everything.
func (p *Playfield) Reset() {
	p.views = p.views[:0]
	p.popups = p.popups[:0]
	p.lastSound = math.MinInt / 2
	p.sounds = 0
}

func (p *Playfield) DrawObject(v session.ObjectView) {
	p.views = append(p.views, v)
}

func (p *Playfield) PlayHitSound(h session.HitSound) {
	p.lastSound = h.Time
	p.sounds++
}

// ShowResult queues a judgement popup. Successful slider ticks and spinner
// points are not shown.
func (p *Playfield) ShowResult(r scoring.HitResult) {
	if !r.Result.IsObject() || (r.Tick && r.Result != scoring.Miss) {
		return
	}
	p.popups = append(p.popups, popup{pos: r.Pos, result: r.Result, time: r.Time})
}

// Sounds returns the number of hit sounds played so far.
func (p *Playfield) Sounds() int { return p.sounds }

// Views returns the objects drawn in the current frame.
func (p *Playfield) Views() []session.ObjectView { return p.views }

// Flashing reports whether a hit sound played within flashTime.
func (p *Playfield) Flashing() bool {
	return p.now >= p.lastSound && p.now-p.lastSound < flashTime
}

// Paint draws the frame into area of s. The cursor is drawn last.
func (p *Playfield) Paint(s *core.Screen, area core.Rect, cursor core.Vec2, showCursor bool) {
	border := core.ColorGray
	if p.Flashing() {
		border = core.ColorWhite
	}
	s.DrawBox(core.NewRect(area.X-1, area.Y-1, area.W+2, area.H+2), border)

	// Earlier objects are drawn on top.
	for i := len(p.views) - 1; i >= 0; i-- {
		p.paintObject(s, area, p.views[i])
	}
	for _, pp := range p.popups {
		text, c := resultText(pp.result)
		if x, y, ok := core.Project(area, pp.pos); ok {
			s.DrawText(x-len(text)/2, y+1, text, c)
		}
	}
	if showCursor {
		if x, y, ok := core.Project(area, cursor); ok {
			s.SetColored(x, y, '+', core.ColorWhite)
		}
	}
}

func (p *Playfield) paintObject(s *core.Screen, area core.Rect, v session.ObjectView) {
	if v.Alpha <= 0 {
		return
	}
	c := core.ComboColors[v.Colour%len(core.ComboColors)]
	if v.Alpha < 0.35 {
		c = core.ColorGray
	}

	switch v.Kind {
	case objects.KindSpinner:
		p.paintSpinner(s, area, v)
		return
	case objects.KindSlider:
		p.line(s, area, v.Head, v.End, '·', core.ColorGray)
		if x, y, ok := core.Project(area, v.End); ok {
			s.SetColored(x, y, 'o', c)
		}
		if p.now >= v.Time {
			if x, y, ok := core.Project(area, v.Pos); ok {
				s.SetColored(x, y, '@', core.ColorWhite)
			}
			return
		}
	}

	if v.Approach > 0 {
		p.ring(s, area, v.Head, p.radius*(1+3*v.Approach), c)
	}
	if x, y, ok := core.Project(area, v.Head); ok {
		s.SetColored(x, y, comboRune(v.Combo), c)
	}
}

func (p *Playfield) paintSpinner(s *core.Screen, area core.Rect, v session.ObjectView) {
	centre := v.Head
	r := spinRadius * (1 - v.Progress*0.8)
	p.ring(s, area, centre, r, core.ColorBlue)
	angle := 2 * math.Pi * float64(p.now-v.Time) / 1000
	tip := centre.Add(core.V(math.Cos(angle), math.Sin(angle)).Scale(r))
	p.line(s, area, centre, tip, '*', core.ColorCyan)
	if x, y, ok := core.Project(area, centre); ok {
		text := strconv.Itoa(int(math.Round(v.Progress*100))) + "%"
		s.DrawText(x-len(text)/2, y+2, text, core.ColorWhite)
	}
}

func (p *Playfield) ring(s *core.Screen, area core.Rect, centre core.Vec2, r float64, c core.Color) {
	for i := range ringPoints {
		a := 2 * math.Pi * float64(i) / ringPoints
		pt := centre.Add(core.V(math.Cos(a), math.Sin(a)).Scale(r))
		if x, y, ok := core.Project(area, pt); ok {
			s.SetColored(x, y, '.', c)
		}
	}
}

// line draws a straight run of cells from a to b.
func (p *Playfield) line(s *core.Screen, area core.Rect, a, b core.Vec2, r rune, c core.Color) {
	steps := int(a.Dist(b)/8) + 1
	for i := 0; i <= steps; i++ {
		pt := core.Lerp(a, b, float64(i)/float64(steps))
		if x, y, ok := core.Project(area, pt); ok {
			s.SetColored(x, y, r, c)
		}
	}
}

func comboRune(n int) rune {
	return rune('0' + n%10)
}

func resultText(r scoring.Result) (string, core.Color) {
	switch r {
	case scoring.Hit300:
		return "300", core.ColorBlue
	case scoring.Hit100:
		return "100", core.ColorGreen
	case scoring.Hit50:
		return "50", core.ColorOrange
	case scoring.Miss:
		return "X", core.ColorRed
	}
	return r.String(), core.ColorGray
}

var _ session.Presentation = (*Playfield)(nil)
