package session

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-osu/internal/beatmap"
	"github.com/vovakirdan/tui-osu/internal/clock"
	"github.com/vovakirdan/tui-osu/internal/config"
	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/difficulty"
	"github.com/vovakirdan/tui-osu/internal/input"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/objects"
	"github.com/vovakirdan/tui-osu/internal/replay"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/timeline"
)

const (
	// trailTime keeps the default clock running after the last object.
	trailTime = 1000
	// lifeInterval is the spacing of life bar samples in a replay.
	lifeInterval = 500
)

var (
	// ErrNoReplay is returned when replay operations run without a replay.
	ErrNoReplay = errors.New("session: no replay loaded")
	// ErrBadState is returned by Start for a state it cannot start in.
	ErrBadState = errors.New("session: cannot start in this state")
)

// Options configures a session.
type Options struct {
	Beatmap *beatmap.Beatmap
	Config  config.Session
	// Replay, if set, is played back by Start(Replay). Its mods replace
	// the configured ones.
	Replay *replay.Replay
	// Clock defaults to a manual clock spanning the beatmap.
	Clock   clock.AudioClock
	Sink    Presentation
	Scores  ScoreStore
	Replays ReplayStore
	Logger  *log.Logger
}

// Outcome describes how a session ended.
type Outcome struct {
	State      scoring.State
	Failed     bool
	FailTime   int
	Submitted  bool
	RecordID   int64
	ReplayPath string
	Replay     *replay.Replay
}

// Session is one play of a beatmap. It is driven by a single goroutine.
type Session struct {
	beatmap *beatmap.Beatmap
	cfg     config.Session
	mods    mods.Mods
	env     *objects.Env
	logger  *log.Logger
	sink    Presentation
	scores  ScoreStore
	replays ReplayStore

	tl       *timeline.Timeline
	router   *input.Router
	model    *scoring.Model
	recorder *replay.Recorder
	player   *replay.Player
	adapter  *clock.Adapter

	combo    []int     // number of each object within its combo
	colour   []int     // combo index of each object
	rotation []float64 // fall rotation per object after a failed play

	state    PlayState
	started  bool
	lastTime int
	lastLife int
	finished bool
	aborted  bool
	muted    bool
	retries  int
	failTime int
	outcome  *Outcome
	history  []scoring.HitResult
}

// New prepares a session. The beatmap must contain at least one object.
func New(opts Options) (*Session, error) {
	if opts.Beatmap == nil {
		return nil, timeline.ErrNoObjects
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}

	m := opts.Config.Mods
	if opts.Replay != nil {
		m = opts.Replay.Mods
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	b := opts.Beatmap
	stats := difficulty.Adjust(difficulty.FromBeatmap(b.Difficulty), m, opts.Config.Overrides)
	params := difficulty.Calculate(stats)
	env := &objects.Env{Params: params, Mods: m}

	tl, err := timeline.New(b, env, logger)
	if err != nil {
		return nil, err
	}

	drop := difficulty.DropRate(b, stats.HP, params.ApproachTime)
	model := scoring.NewModel(scoring.Config{
		Mods:               m,
		Difficulty:         difficulty.ScoreDifficulty(b),
		HPDrainRate:        stats.HP,
		DropRate:           drop.Rate,
		MultiplierNormal:   drop.MultiplierNormal,
		MultiplierComboEnd: drop.MultiplierComboEnd,
	})
	logger.Debug("session prepared",
		"beatmap", b.String(), "mods", m.String(),
		"ar", stats.AR, "od", stats.OD, "cs", stats.CS, "hp", stats.HP,
		"drop", drop.Rate)

	c := opts.Clock
	if c == nil {
		c = clock.NewManual(b.LastTime() + trailTime)
	}
	adapter := clock.NewAdapter(c, clock.Options{
		LeadIn: b.AudioLeadIn + params.ApproachTime,
		Offset: opts.Config.Offset,
		MapEnd: b.LastTime(),
	})

	s := &Session{
		beatmap:  b,
		cfg:      opts.Config,
		mods:     m,
		env:      env,
		logger:   logger,
		sink:     sink,
		scores:   opts.Scores,
		replays:  opts.Replays,
		tl:       tl,
		router:   input.NewRouter(tl, m),
		model:    model,
		recorder: replay.NewRecorder(),
		adapter:  adapter,
		rotation: make([]float64, len(b.Objects)),
	}
	s.combo, s.colour = comboNumbers(b)
	if opts.Replay != nil {
		s.player = replay.NewPlayer(opts.Replay)
	}
	return s, nil
}

// comboNumbers returns the number of each object within its combo and the
// index of that combo. Combo skips advance the index further.
func comboNumbers(b *beatmap.Beatmap) (numbers, colours []int) {
	numbers = make([]int, len(b.Objects))
	colours = make([]int, len(b.Objects))
	n, c := 0, 0
	for i, h := range b.Objects {
		if i > 0 && h.NewCombo() {
			n = 0
			c += 1 + h.ComboSkip()
		}
		n++
		numbers[i] = n
		colours[i] = c
	}
	return numbers, colours
}

// Start resets the session for state and starts the clock.
func (s *Session) Start(state PlayState) error {
	switch state {
	case Normal, FirstLoad, Retry:
	case Replay:
		if s.player == nil {
			return ErrNoReplay
		}
	default:
		return fmt.Errorf("%w: %s", ErrBadState, state)
	}
	if state == Retry {
		s.retries++
	}

	s.rewind()
	s.recorder.Reset()
	s.state = state
	s.aborted = false
	s.outcome = nil
	if err := s.adapter.Start(); err != nil {
		return err
	}

	if state != Replay {
		s.adapter.SetSpeed(clock.SpeedNormal)
	}
	if state == Replay {
		s.player.Rewind()
		if skip := s.player.SkipTime(); skip > 0 {
			s.adapter.Skip(s.beatmap.FirstTime())
		}
	}
	s.logger.Info("session started", "state", state, "mods", s.mods.String(), "objects", s.tl.Len())
	return nil
}

// rewind resets every piece of judgement state.
func (s *Session) rewind() {
	s.tl.Reset()
	s.router.Reset()
	s.model.Reset()
	clear(s.rotation)
	s.started = false
	s.lastTime = 0
	s.finished = false
	s.failTime = 0
	s.lastLife = -lifeInterval
	s.outcome = nil
	s.history = s.history[:0]
}

// Step runs one deterministic judgement step for f: routing, scoring,
// drain, the death check and recording.
func (s *Session) Step(f core.Frame) []scoring.HitResult {
	if s.finished || s.aborted || s.state == Lose {
		return nil
	}
	delta := 0
	if s.started {
		delta = core.Max(f.Time-s.lastTime, 0)
	}
	s.started = true
	s.lastTime = f.Time

	routed := s.router.Route(f)
	for _, r := range routed.Results {
		s.model.Apply(r)
		s.present(r)
	}
	s.history = append(s.history, routed.Results...)

	if s.drains(f.Time) {
		s.model.Drain(delta)
	}
	s.model.UpdateDisplay(delta)

	if s.recording() {
		s.recorder.Record(routed.Frame, true)
		if f.Time >= 0 && f.Time-s.lastLife >= lifeInterval {
			s.recorder.RecordLife(f.Time, s.model.State().Health/100)
			s.lastLife = f.Time
		}
	}

	switch {
	case !s.model.Alive():
		s.lose(f.Time)
	case s.tl.Complete():
		s.finish()
	}
	return routed.Results
}

func (s *Session) present(r scoring.HitResult) {
	if s.muted {
		return
	}
	s.sink.ShowResult(r)
	if r.Result != scoring.Miss && (r.Result.IsObject() || r.Tick) {
		s.sink.PlayHitSound(HitSound{Object: r.Object, Time: r.Time, Sound: r.HitSound, Tick: r.Tick})
	}
}

// drains reports whether passive health drain applies at t.
func (s *Session) drains(t int) bool {
	return t >= s.beatmap.FirstTime() && t <= s.beatmap.LastTime() && !s.beatmap.InBreak(t)
}

func (s *Session) recording() bool {
	return s.state != Replay
}

// Tick advances a live session by deltaMs using the player's input.
func (s *Session) Tick(deltaMs int, live core.Frame) []scoring.HitResult {
	if s.finished || s.aborted || s.state == Lose {
		return nil
	}
	tick := s.adapter.Update(deltaMs)
	if tick.Paused {
		return nil
	}
	if tick.Discontinuity {
		s.logger.Warn("audio clock jumped, resyncing", "position", tick.Position, "expected", s.lastTime+deltaMs)
		s.tl.Resync(tick.Position)
	}

	live.Time = tick.Position
	out := s.Step(live)
	if tick.Ended && !s.finished && s.state != Lose {
		out = append(out, s.endOfTrack(tick.Position)...)
	}
	return out
}

// TickReplay advances a replay session by deltaMs, feeding every frame
// that has become due.
func (s *Session) TickReplay(deltaMs int) []scoring.HitResult {
	if s.player == nil || s.finished || s.aborted || s.state == Lose {
		return nil
	}
	tick := s.adapter.Update(deltaMs)
	if tick.Paused {
		return nil
	}
	if tick.Discontinuity {
		s.tl.Resync(tick.Position)
	}

	var out []scoring.HitResult
	for _, f := range s.player.Next(tick.Position) {
		out = append(out, s.Step(f.Input())...)
		if s.finished || s.state == Lose {
			return out
		}
	}
	if s.player.Done() && tick.Ended && !s.finished {
		out = append(out, s.endOfTrack(tick.Position)...)
	}
	return out
}

// endOfTrack misses whatever is left when the audio runs out.
func (s *Session) endOfTrack(t int) []scoring.HitResult {
	rest := s.tl.Finish(t)
	for _, r := range rest {
		s.model.Apply(r)
		s.present(r)
	}
	s.history = append(s.history, rest...)
	if !s.model.Alive() {
		s.lose(t)
	} else {
		s.finish()
	}
	return rest
}

// SeekReplay rewinds the replay and plays it again up to targetMs. The
// target must lie within [0, end of map]; otherwise nothing changes.
func (s *Session) SeekReplay(targetMs int) error {
	if s.player == nil {
		return ErrNoReplay
	}
	if targetMs < 0 || targetMs > s.beatmap.LastTime() {
		return fmt.Errorf("%w: %d not in [0, %d]", clock.ErrInvalidCheckpoint, targetMs, s.beatmap.LastTime())
	}
	if _, err := s.player.Seek(targetMs); err != nil {
		return err
	}

	lost := s.state == Lose
	s.rewind()
	s.state = Replay
	s.muted = true
	for _, f := range s.player.Next(targetMs) {
		s.Step(f.Input())
		if s.finished || s.state == Lose {
			break
		}
	}
	s.muted = false
	s.tl.Resync(targetMs)
	if err := s.adapter.Seek(targetMs); err != nil {
		return err
	}
	if lost && s.state == Replay {
		s.adapter.Resume()
	}
	return nil
}

// SetSpeed changes the playback rate of a replay. Live play always runs at
// normal speed.
func (s *Session) SetSpeed(sp clock.Speed) error {
	if s.player == nil || s.state != Replay {
		return ErrNoReplay
	}
	s.adapter.SetSpeed(sp)
	return nil
}

// Speed returns the current playback rate.
func (s *Session) Speed() clock.Speed {
	return s.adapter.Speed()
}

// Skip jumps over a long intro. It only works before the first object.
func (s *Session) Skip() bool {
	if s.state == Replay || s.tl.ObjectIndex() != 0 {
		return false
	}
	target, ok := s.adapter.Skip(s.beatmap.FirstTime())
	if ok {
		s.recorder.Skip(target)
		s.tl.Resync(target)
	}
	return ok
}

// Retry restarts the map.
func (s *Session) Retry() error {
	return s.Start(Retry)
}

// Abort abandons the play. Nothing is persisted.
func (s *Session) Abort() {
	s.aborted = true
	s.adapter.Pause()
	s.logger.Info("session aborted", "position", s.lastTime)
}

func (s *Session) Pause()  { s.adapter.Pause() }
func (s *Session) Resume() { s.adapter.Resume() }

// lose ends a play whose health ran out.
func (s *Session) lose(t int) {
	persist := s.persists()
	s.state = Lose
	s.failTime = t
	s.adapter.Pause()

	rng := rand.New(rand.NewPCG(uint64(t), uint64(len(s.rotation))))
	for i := range s.rotation {
		s.rotation[i] = (rng.Float64()*2 - 1) * math.Pi / 4
	}
	s.logger.Info("health exhausted", "time", t, "score", s.model.State().Score)

	out := &Outcome{State: s.model.State(), Failed: true, FailTime: t}
	if persist {
		rec := s.record()
		rec.Failed = true
		rec.FailTime = t
		out.RecordID, out.Submitted = s.submit(rec)
	}
	s.outcome = out
}

// finish ends a completed play.
func (s *Session) finish() {
	s.finished = true
	out := &Outcome{State: s.model.State()}
	if s.recording() {
		out.Replay = s.recorder.Finish(replay.Replay{
			BeatmapChecksum: s.beatmap.Checksum,
			Player:          s.cfg.Player,
			Mods:            s.mods,
			Summary:         replay.SummaryOf(out.State),
		})
	}
	if s.persists() {
		if s.replays != nil && s.cfg.SaveReplays && out.Replay != nil {
			path, err := s.replays.SaveReplay(out.Replay)
			if err != nil {
				s.logger.Error("cannot save replay", "error", err)
			}
			out.ReplayPath = path
		}
		rec := s.record()
		rec.ReplayPath = out.ReplayPath
		out.RecordID, out.Submitted = s.submit(rec)
	}
	s.outcome = out
	s.logger.Info("map complete", "score", out.State.Score, "grade", out.State.Grade(), "accuracy", out.State.Accuracy())
}

// persists reports whether results of this play are stored. Replays and
// generated input never are.
func (s *Session) persists() bool {
	return s.state != Replay && !s.mods.Synthetic()
}

func (s *Session) record() Record {
	return NewRecord(s.beatmap.Checksum, s.beatmap.String(), s.cfg.Player, s.model.State())
}

func (s *Session) submit(r Record) (int64, bool) {
	if s.scores == nil {
		return 0, false
	}
	id, err := s.scores.SubmitScore(r)
	if err != nil {
		s.logger.Error("cannot submit score", "error", err)
		return 0, false
	}
	return id, true
}

// PreviousScores returns the stored scores of this beatmap. A missing
// store yields none.
func (s *Session) PreviousScores() ([]Record, error) {
	if s.scores == nil {
		return nil, nil
	}
	return s.scores.PreviousScores(s.beatmap.Checksum)
}

// Render sends every visible object to the sink.
func (s *Session) Render() {
	t := s.adapter.Position()
	if s.state == Lose {
		t = s.failTime
	}
	p := s.env.Params
	for _, o := range s.tl.Objects() {
		appear := o.Time() - p.ApproachTime
		if t < appear || t > o.EndTime() || o.Kind() == objects.KindDummy {
			continue
		}
		if o.Resolved() && s.state != Lose {
			continue
		}
		s.sink.DrawObject(s.view(o, t))
	}
}

func (s *Session) view(o objects.Object, t int) ObjectView {
	p := s.env.Params
	i := o.Index()
	v := ObjectView{
		Index:    i,
		Kind:     o.Kind(),
		Combo:    s.combo[i],
		Colour:   s.colour[i],
		Head:     o.PointAt(o.Time()),
		Pos:      o.PointAt(t),
		End:      o.PointAt(o.EndTime()),
		Time:     o.Time(),
		EndTime:  o.EndTime(),
		Rotation: s.rotation[i],
	}
	if p.ApproachTime > 0 {
		v.Approach = core.ClampF(float64(o.Time()-t)/float64(p.ApproachTime), 0, 1)
	}

	v.Alpha = 1
	if p.FadeInTime > 0 {
		v.Alpha = core.ClampF(float64(t-(o.Time()-p.ApproachTime))/float64(p.FadeInTime), 0, 1)
	}
	if s.mods.Has(mods.Hidden) && p.HiddenDecayTime > 0 {
		start := o.Time() - p.HiddenTimeDiff
		if t >= start {
			v.Alpha = math.Min(v.Alpha, core.ClampF(1-float64(t-start)/float64(p.HiddenDecayTime), 0, 1))
		}
	}

	switch sp := o.(type) {
	case *objects.Spinner:
		if n := sp.RotationsNeeded(); n > 0 {
			v.Progress = core.ClampF(sp.Rotations()/n, 0, 1)
		}
	default:
		if d := o.EndTime() - o.Time(); d > 0 {
			v.Progress = core.ClampF(float64(t-o.Time())/float64(d), 0, 1)
		}
	}
	return v
}

// Accessors for presentation and tests.

func (s *Session) State() PlayState             { return s.state }
func (s *Session) Score() scoring.State         { return s.model.State() }
func (s *Session) Position() int                { return s.adapter.Position() }
func (s *Session) FailTime() int                { return s.failTime }
func (s *Session) Finished() bool               { return s.finished }
func (s *Session) Aborted() bool                { return s.aborted }
func (s *Session) Retries() int                 { return s.retries }
func (s *Session) Mods() mods.Mods              { return s.mods }
func (s *Session) Beatmap() *beatmap.Beatmap    { return s.beatmap }
func (s *Session) Params() difficulty.Params    { return s.env.Params }
func (s *Session) Timeline() *timeline.Timeline { return s.tl }
func (s *Session) Player() *replay.Player       { return s.player }
func (s *Session) Rotation(i int) float64       { return s.rotation[i] }
func (s *Session) InLeadIn() bool               { return s.adapter.InLeadIn() }

// Outcome returns how the session ended, or nil while it is running.
func (s *Session) Outcome() *Outcome {
	return s.outcome
}

// History returns a copy of every result judged since the last reset.
func (s *Session) History() []scoring.HitResult {
	return append([]scoring.HitResult(nil), s.history...)
}

// CanSkip reports whether Skip would jump now.
func (s *Session) CanSkip() bool {
	return s.state != Replay && s.tl.ObjectIndex() == 0 && s.adapter.CanSkip(s.beatmap.FirstTime())
}
