package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-osu/internal/core"
	"github.com/vovakirdan/tui-osu/internal/mods"
	"github.com/vovakirdan/tui-osu/internal/replay"
	"github.com/vovakirdan/tui-osu/internal/scoring"
	"github.com/vovakirdan/tui-osu/internal/session"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(checksum string, score int64) session.Record {
	return session.Record{
		BeatmapChecksum: checksum,
		Beatmap:         "Artist - Title [Normal]",
		Player:          "alice",
		Mods:            mods.Hidden | mods.HardRock,
		Score:           score,
		MaxCombo:        120,
		Hit300:          100,
		Hit100:          10,
		Hit50:           2,
		Miss:            1,
		Accuracy:        93.51,
		Grade:           scoring.GradeA,
		CreatedAt:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSubmitAndRetrieve(t *testing.T) {
	store := openStore(t)

	for _, score := range []int64{100, 50, 200} {
		if _, err := store.SubmitScore(record("aaa", score)); err != nil {
			t.Fatalf("SubmitScore() failed: %v", err)
		}
	}
	// Different beatmap
	if _, err := store.SubmitScore(record("bbb", 500)); err != nil {
		t.Fatalf("SubmitScore() failed: %v", err)
	}

	scores, err := store.PreviousScores("aaa")
	if err != nil {
		t.Fatalf("PreviousScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	for i, want := range []int64{200, 100, 50} {
		if scores[i].Score != want {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, want)
		}
	}

	got := scores[0]
	if got.Mods != mods.Hidden|mods.HardRock || got.Grade != scoring.GradeA || got.Hit100 != 10 || got.Player != "alice" {
		t.Errorf("record did not survive the round trip: %+v", got)
	}
	if got.Accuracy != 93.51 {
		t.Errorf("Accuracy = %v, want 93.51", got.Accuracy)
	}
	if !got.CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}
}

func TestStoreFailedPlaysNotRanked(t *testing.T) {
	store := openStore(t)

	failed := record("aaa", 900)
	failed.Failed = true
	failed.FailTime = 4321
	if _, err := store.SubmitScore(failed); err != nil {
		t.Fatalf("SubmitScore() failed: %v", err)
	}
	if _, err := store.SubmitScore(record("aaa", 300)); err != nil {
		t.Fatalf("SubmitScore() failed: %v", err)
	}

	ranked, err := store.PreviousScores("aaa")
	if err != nil {
		t.Fatalf("PreviousScores() failed: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Score != 300 {
		t.Errorf("ranked = %+v, want only the 300 play", ranked)
	}

	best, err := store.BestScore("aaa")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 300 {
		t.Errorf("BestScore = %d, want 300", best)
	}

	all, err := store.AllScores("aaa")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("AllScores returned %d records, want 2", len(all))
	}
	if !all[1].Failed || all[1].FailTime != 4321 {
		t.Errorf("failed record = %+v", all[1])
	}

	stats, err := store.GetBeatmapStats("aaa")
	if err != nil {
		t.Fatalf("GetBeatmapStats() failed: %v", err)
	}
	if stats.Plays != 2 || stats.Fails != 1 || stats.BestScore != 300 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openStore(t)

	for i := range 20 {
		if _, err := store.SubmitScore(record("aaa", int64(i*10))); err != nil {
			t.Fatalf("SubmitScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("aaa", 5)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 5 {
		t.Errorf("Expected 5 scores, got %d", len(scores))
	}
	if scores[0].Score != 190 {
		t.Errorf("Expected top score 190, got %d", scores[0].Score)
	}

	recent, err := store.RecentScores(3)
	if err != nil {
		t.Fatalf("RecentScores() failed: %v", err)
	}
	if len(recent) != 3 || recent[0].Score != 190 {
		t.Errorf("recent = %+v", recent)
	}
}

func TestStoreEmptyBeatmap(t *testing.T) {
	store := openStore(t)

	best, err := store.BestScore("nothing")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for no scores, got %d", best)
	}

	scores, err := store.PreviousScores("nothing")
	if err != nil {
		t.Fatalf("PreviousScores() failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("Expected no scores, got %d", len(scores))
	}

	stats, err := store.GetBeatmapStats("nothing")
	if err != nil {
		t.Fatalf("GetBeatmapStats() failed: %v", err)
	}
	if stats.Plays != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openStore(t)

	store.SubmitScore(record("aaa", 100))
	store.SubmitScore(record("aaa", 200))
	store.SubmitScore(record("bbb", 300))

	if err := store.ClearScores("aaa"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.AllScores("aaa")
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}

	// Other beatmaps should be unaffected
	other, _ := store.AllScores("bbb")
	if len(other) != 1 {
		t.Errorf("Expected bbb scores to be unaffected, got %d", len(other))
	}

	all, err := store.GetAllBeatmapStats()
	if err != nil {
		t.Fatalf("GetAllBeatmapStats() failed: %v", err)
	}
	if len(all) != 1 || all["bbb"] == nil || all["bbb"].BestScore != 300 {
		t.Errorf("all stats = %+v", all)
	}
}

func TestStoreReplays(t *testing.T) {
	store := openStore(t)

	rec := replay.NewRecorder()
	rec.Record(core.Frame{Time: 100, X: 10, Y: 20, Keys: core.KeyK1}, true)
	rec.Record(core.Frame{Time: 150, X: 12, Y: 22}, true)
	r := rec.Finish(replay.Replay{
		BeatmapChecksum: "aaa",
		Player:          "alice",
		Mods:            mods.Hidden,
		Summary:         replay.Summary{Score: 12345},
		Timestamp:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	if _, err := store.SaveReplay(r); !errors.Is(err, ErrNoReplayDir) {
		t.Fatalf("SaveReplay without a directory: error = %v, want ErrNoReplayDir", err)
	}

	dir := filepath.Join(t.TempDir(), "replays")
	if err := store.SetReplayDir(dir); err != nil {
		t.Fatalf("SetReplayDir() failed: %v", err)
	}
	path, err := store.SaveReplay(r)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("replay written to %s, want under %s", path, dir)
	}

	entries, err := store.Replays("aaa")
	if err != nil {
		t.Fatalf("Replays() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != path || entries[0].Score != 12345 || entries[0].Mods != mods.Hidden {
		t.Fatalf("entries = %+v", entries)
	}

	loaded, err := store.LoadReplay(entries[0].ID)
	if err != nil {
		t.Fatalf("LoadReplay() failed: %v", err)
	}
	if len(loaded.Body()) != 2 || loaded.Body()[0].Keys != core.KeyK1 {
		t.Errorf("loaded frames = %+v", loaded.Frames)
	}

	if _, err := store.LoadReplay(999); !errors.Is(err, replay.ErrNotFound) {
		t.Errorf("LoadReplay(999) error = %v, want ErrNotFound", err)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
