// Package storage provides SQLite-based persistence for plays and replays.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/replay"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/session"
)

// ErrNoReplayDir is returned by SaveReplay when the store has nowhere to
// write replay files.
var ErrNoReplayDir = errors.New("storage: no replay directory configured")

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db        *sql.DB
	replayDir string
}

// ReplayEntry indexes one saved replay file.
type ReplayEntry struct {
	ID              int64
	BeatmapChecksum string
	Player          string
	Mods            mods.Mods
	Score           int64
	Path            string
	CreatedAt       time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// SetReplayDir sets where SaveReplay writes replay files.
func (s *Store) SetReplayDir(dir string) error {
	dir, err := expandHome(dir)
	if err != nil {
		return err
	}
	s.replayDir = dir
	return nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			beatmap_checksum TEXT NOT NULL,
			beatmap TEXT NOT NULL DEFAULT '',
			player TEXT NOT NULL,
			mods TEXT NOT NULL DEFAULT 'None',
			score INTEGER NOT NULL,
			max_combo INTEGER NOT NULL DEFAULT 0,
			hit300 INTEGER NOT NULL DEFAULT 0,
			hit100 INTEGER NOT NULL DEFAULT 0,
			hit50 INTEGER NOT NULL DEFAULT 0,
			miss INTEGER NOT NULL DEFAULT 0,
			geki INTEGER NOT NULL DEFAULT 0,
			katu INTEGER NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL DEFAULT 0,
			grade TEXT NOT NULL DEFAULT '',
			perfect INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			fail_time INTEGER NOT NULL DEFAULT 0,
			replay_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_beatmap ON scores(beatmap_checksum);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(beatmap_checksum, failed, score DESC);

		CREATE TABLE IF NOT EXISTS replays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			beatmap_checksum TEXT NOT NULL,
			player TEXT NOT NULL,
			mods TEXT NOT NULL DEFAULT 'None',
			score INTEGER NOT NULL DEFAULT 0,
			path TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_beatmap ON replays(beatmap_checksum);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SubmitScore records a play. Failed plays are kept but never ranked.
// Returns the ID of the inserted record.
func (s *Store) SubmitScore(r session.Record) (int64, error) {
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	result, err := s.db.Exec(
		`INSERT INTO scores
		 (beatmap_checksum, beatmap, player, mods, score, max_combo, hit300, hit100, hit50, miss,
		  geki, katu, accuracy, grade, perfect, failed, fail_time, replay_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.BeatmapChecksum, r.Beatmap, r.Player, r.Mods.String(), r.Score, r.MaxCombo,
		r.Hit300, r.Hit100, r.Hit50, r.Miss, r.Geki, r.Katu,
		r.Accuracy, string(r.Grade), r.Perfect, r.Failed, r.FailTime, r.ReplayPath,
		created.Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const scoreColumns = `id, beatmap_checksum, beatmap, player, mods, score, max_combo, hit300, hit100, hit50,
		        miss, geki, katu, accuracy, grade, perfect, failed, fail_time, replay_path, created_at`

// PreviousScores returns every ranked play of a beatmap, best first.
func (s *Store) PreviousScores(checksum string) ([]session.Record, error) {
	return s.queryScores(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE beatmap_checksum = ? AND failed = 0
		 ORDER BY score DESC, id ASC`,
		checksum,
	)
}

// TopScores retrieves the top N ranked plays of a beatmap.
func (s *Store) TopScores(checksum string, limit int) ([]session.Record, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE beatmap_checksum = ? AND failed = 0
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		checksum, limit,
	)
}

// AllScores retrieves every play of a beatmap, failed ones included, most
// recent first.
func (s *Store) AllScores(checksum string) ([]session.Record, error) {
	return s.queryScores(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE beatmap_checksum = ?
		 ORDER BY id DESC`,
		checksum,
	)
}

// RecentScores retrieves the latest plays across all beatmaps.
func (s *Store) RecentScores(limit int) ([]session.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryScores(
		`SELECT `+scoreColumns+`
		 FROM scores
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]session.Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var records []session.Record
	for rows.Next() {
		var r session.Record
		var modNames, grade string
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.BeatmapChecksum,
			&r.Beatmap,
			&r.Player,
			&modNames,
			&r.Score,
			&r.MaxCombo,
			&r.Hit300,
			&r.Hit100,
			&r.Hit50,
			&r.Miss,
			&r.Geki,
			&r.Katu,
			&r.Accuracy,
			&grade,
			&r.Perfect,
			&r.Failed,
			&r.FailTime,
			&r.ReplayPath,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		m, err := mods.ParseString(modNames)
		if err != nil {
			return nil, fmt.Errorf("storage: score %d: %w", r.ID, err)
		}
		r.Mods = m
		r.Grade = scoring.Grade(grade)
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// BestScore returns the highest ranked score of a beatmap.
// Returns 0 if no ranked plays exist.
func (s *Store) BestScore(checksum string) (int64, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE beatmap_checksum = ? AND failed = 0",
		checksum,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return score.Int64, nil
}

// ClearScores deletes every play of a beatmap.
func (s *Store) ClearScores(checksum string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE beatmap_checksum = ?", checksum)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveReplay writes r into the replay directory and indexes it.
func (s *Store) SaveReplay(r *replay.Replay) (string, error) {
	if s.replayDir == "" {
		return "", ErrNoReplayDir
	}
	path, err := replay.Save(s.replayDir, r)
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO replays (beatmap_checksum, player, mods, score, path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.BeatmapChecksum, r.Player, r.Mods.String(), r.Summary.Score, path,
		r.Timestamp.UTC().Format(timeLayout),
	)
	if err != nil {
		return path, fmt.Errorf("storage: cannot index replay: %w", err)
	}
	return path, nil
}

// Replays lists the saved replays of a beatmap, best score first.
func (s *Store) Replays(checksum string) ([]ReplayEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, beatmap_checksum, player, mods, score, path, created_at
		 FROM replays
		 WHERE beatmap_checksum = ?
		 ORDER BY score DESC, id ASC`,
		checksum,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var entries []ReplayEntry
	for rows.Next() {
		var e ReplayEntry
		var modNames string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.BeatmapChecksum, &e.Player, &modNames, &e.Score, &e.Path, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if e.Mods, err = mods.ParseString(modNames); err != nil {
			return nil, fmt.Errorf("storage: replay %d: %w", e.ID, err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// LoadReplay reads the replay indexed under id.
func (s *Store) LoadReplay(id int64) (*replay.Replay, error) {
	var path string
	err := s.db.QueryRow("SELECT path FROM replays WHERE id = ?", id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", replay.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replay: %w", err)
	}
	return replay.Load(path)
}

// BeatmapStats contains aggregated statistics for a beatmap.
type BeatmapStats struct {
	Checksum    string
	Beatmap     string
	Plays       int
	Fails       int
	BestScore   int64
	AvgAccuracy float64
	LastPlayed  time.Time
}

// GetBeatmapStats retrieves aggregated statistics for a specific beatmap.
func (s *Store) GetBeatmapStats(checksum string) (*BeatmapStats, error) {
	stats := &BeatmapStats{Checksum: checksum}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(failed), 0),
		        COALESCE(MAX(CASE WHEN failed = 0 THEN score END), 0),
		        COALESCE(AVG(CASE WHEN failed = 0 THEN accuracy END), 0),
		        COALESCE(MAX(beatmap), ''), MAX(created_at)
		 FROM scores WHERE beatmap_checksum = ?`,
		checksum,
	).Scan(&stats.Plays, &stats.Fails, &stats.BestScore, &stats.AvgAccuracy, &stats.Beatmap, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get beatmap stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllBeatmapStats retrieves statistics for every beatmap that has been
// played.
func (s *Store) GetAllBeatmapStats() (map[string]*BeatmapStats, error) {
	rows, err := s.db.Query(
		`SELECT beatmap_checksum, MAX(beatmap), COUNT(*), SUM(failed),
		        COALESCE(MAX(CASE WHEN failed = 0 THEN score END), 0),
		        COALESCE(AVG(CASE WHEN failed = 0 THEN accuracy END), 0),
		        MAX(created_at)
		 FROM scores
		 GROUP BY beatmap_checksum`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all beatmap stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BeatmapStats)
	for rows.Next() {
		var st BeatmapStats
		var lastPlayed any
		if err := rows.Scan(&st.Checksum, &st.Beatmap, &st.Plays, &st.Fails, &st.BestScore, &st.AvgAccuracy, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Checksum] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

const timeLayout = "2006-01-02 15:04:05"

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(timeLayout, v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ session.ScoreStore  = (*Store)(nil)
	_ session.ReplayStore = (*Store)(nil)
)
