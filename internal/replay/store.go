package replay

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-osu/internal/mods"
)

// ErrNotFound is returned by Load for a missing replay file. It wraps
// fs.ErrNotExist.
var ErrNotFound = fmt.Errorf("replay: not found: %w", fs.ErrNotExist)

// Extension of replay files written by Save.
const Extension = ".osr.yaml"

// replayFile is the on-disk layout. Frames and the life bar use the same
// text encoding as osu! replay bodies.
type replayFile struct {
	Version   int       `yaml:"version"`
	Beatmap   string    `yaml:"beatmap"`
	Player    string    `yaml:"player"`
	Mods      []string  `yaml:"mods,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
	SkipTime  int       `yaml:"skip_time,omitempty"`

	Score struct {
		Total    int64 `yaml:"total"`
		MaxCombo int   `yaml:"max_combo"`
		Hit300   int   `yaml:"hit300"`
		Hit100   int   `yaml:"hit100"`
		Hit50    int   `yaml:"hit50"`
		Geki     int   `yaml:"geki"`
		Katu     int   `yaml:"katu"`
		Miss     int   `yaml:"miss"`
		Perfect  bool  `yaml:"perfect"`
	} `yaml:"score"`

	Life   string `yaml:"life,omitempty"`
	Frames string `yaml:"frames"`
}

// Marshal encodes r as a replay file document.
func Marshal(r *Replay) ([]byte, error) {
	var f replayFile
	f.Version = r.Version
	f.Beatmap = r.BeatmapChecksum
	f.Player = r.Player
	f.Mods = r.Mods.Names()
	f.Timestamp = r.Timestamp
	f.SkipTime = r.SkipTime
	f.Score.Total = r.Summary.Score
	f.Score.MaxCombo = r.Summary.MaxCombo
	f.Score.Hit300 = r.Summary.Hit300
	f.Score.Hit100 = r.Summary.Hit100
	f.Score.Hit50 = r.Summary.Hit50
	f.Score.Geki = r.Summary.Geki
	f.Score.Katu = r.Summary.Katu
	f.Score.Miss = r.Summary.Miss
	f.Score.Perfect = r.Summary.Perfect
	f.Life = EncodeLife(r.LifeFrames)
	f.Frames = EncodeFrames(r.Frames)

	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot encode: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a replay file document.
func Unmarshal(data []byte) (*Replay, error) {
	var f replayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("replay: cannot parse: %w", err)
	}
	m, err := mods.Parse(f.Mods)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	frames, err := DecodeFrames(f.Frames)
	if err != nil {
		return nil, err
	}
	life, err := DecodeLife(f.Life)
	if err != nil {
		return nil, err
	}
	return &Replay{
		Version:         f.Version,
		BeatmapChecksum: f.Beatmap,
		Player:          f.Player,
		Mods:            m,
		SkipTime:        f.SkipTime,
		Timestamp:       f.Timestamp,
		Summary: Summary{
			Score:    f.Score.Total,
			MaxCombo: f.Score.MaxCombo,
			Hit300:   f.Score.Hit300,
			Hit100:   f.Score.Hit100,
			Hit50:    f.Score.Hit50,
			Geki:     f.Score.Geki,
			Katu:     f.Score.Katu,
			Miss:     f.Score.Miss,
			Perfect:  f.Score.Perfect,
		},
		LifeFrames: life,
		Frames:     frames,
	}, nil
}

// Save writes r into dir and returns the file path. The directory is
// created if needed.
func Save(dir string, r *Replay) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("replay: cannot create directory %s: %w", dir, err)
	}
	data, err := Marshal(r)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(r))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("replay: cannot write %s: %w", path, err)
	}
	return path, nil
}

// Load reads a replay file.
func Load(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("replay: cannot read %s: %w", path, err)
	}
	return Unmarshal(data)
}

// FileName returns the file name Save uses for r.
func FileName(r *Replay) string {
	sum := r.BeatmapChecksum
	if len(sum) > 8 {
		sum = sum[:8]
	}
	if sum == "" {
		sum = "unknown"
	}
	return fmt.Sprintf("%s-%s%s", sum, r.Timestamp.UTC().Format("20060102-150405.000"), Extension)
}

// FileStore saves replays into a directory.
type FileStore struct {
	Dir string
}

func (s FileStore) SaveReplay(r *Replay) (string, error)    { return Save(s.Dir, r) }
func (s FileStore) LoadReplay(path string) (*Replay, error) { return Load(path) }
