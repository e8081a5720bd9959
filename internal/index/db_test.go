package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
	"github.com/Zuo-Peng/claude-session-log/internal/scan"
)

func openCache(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sub", "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c, path
}

func sessionFile(t *testing.T) scan.FileInfo {
	t.Helper()
	dir := t.TempDir()
	body := `{"type":"user","message":{"content":"hello"},"timestamp":"2024-01-15T10:30:00Z","gitBranch":"main"}
{"type":"assistant","message":{"content":"hi"},"timestamp":"2024-01-15T10:31:00Z"}
`
	if err := os.WriteFile(filepath.Join(dir, "sess.jsonl"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	files, err := scan.Sessions(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	return files[0]
}

func TestPutGetRoundtrip(t *testing.T) {
	c, _ := openCache(t)
	sum := &parse.SessionSummary{
		FilePath:         "/tmp/p/s.jsonl",
		SessionID:        "s",
		MessageCount:     4,
		LineCount:        6,
		FirstTimestamp:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		LastTimestamp:    time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		FirstUserMessage: "hello",
		GitBranch:        "main",
		HasSummary:       true,
		SummaryText:      "Fix bug",
		Mtime:            100,
		Size:             200,
	}
	if err := c.Put(sum); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get(sum.FilePath, 100, 200)
	if err != nil || !ok {
		t.Fatalf("Get = ok=%v err=%v, want hit", ok, err)
	}
	if got.SessionID != "s" || got.MessageCount != 4 || got.LineCount != 6 {
		t.Errorf("counts wrong: %+v", got)
	}
	if !got.FirstTimestamp.Equal(sum.FirstTimestamp) || !got.LastTimestamp.Equal(sum.LastTimestamp) {
		t.Errorf("timestamps wrong: %v..%v", got.FirstTimestamp, got.LastTimestamp)
	}
	if got.FirstUserMessage != "hello" || got.GitBranch != "main" {
		t.Errorf("strings wrong: %+v", got)
	}
	if !got.HasSummary || got.SummaryText != "Fix bug" {
		t.Errorf("summary wrong: %+v", got)
	}
}

func TestGetMisses(t *testing.T) {
	c, _ := openCache(t)
	if _, ok, err := c.Get("/no/such/file.jsonl", 1, 2); ok || err != nil {
		t.Errorf("absent row: ok=%v err=%v, want miss", ok, err)
	}

	sum := &parse.SessionSummary{FilePath: "/tmp/s.jsonl", SessionID: "s", Mtime: 100, Size: 200}
	if err := c.Put(sum); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(sum.FilePath, 101, 200); ok {
		t.Error("stale mtime served as a hit")
	}
	if _, ok, _ := c.Get(sum.FilePath, 100, 201); ok {
		t.Error("stale size served as a hit")
	}
	if _, ok, _ := c.Get(sum.FilePath, 100, 200); !ok {
		t.Error("fresh row not served")
	}
}

func TestSummarizeReadsThrough(t *testing.T) {
	c, _ := openCache(t)
	f := sessionFile(t)

	first, err := c.Summarize(f)
	if err != nil {
		t.Fatal(err)
	}
	if first.MessageCount != 2 || first.FirstUserMessage != "hello" {
		t.Fatalf("unexpected summary: %+v", first)
	}

	// remove the file; a second call must be served from the cache
	if err := os.Remove(f.Path); err != nil {
		t.Fatal(err)
	}
	second, err := c.Summarize(f)
	if err != nil {
		t.Fatalf("cached summarize failed after file removal: %v", err)
	}
	if second.MessageCount != first.MessageCount || second.GitBranch != first.GitBranch {
		t.Errorf("cached summary diverged: %+v vs %+v", second, first)
	}
}

func TestPruneDir(t *testing.T) {
	c, _ := openCache(t)
	put := func(path string) {
		t.Helper()
		if err := c.Put(&parse.SessionSummary{FilePath: path, SessionID: "x", Mtime: 1, Size: 1}); err != nil {
			t.Fatal(err)
		}
	}
	put("/proj/a.jsonl")
	put("/proj/b.jsonl")
	put("/other/c.jsonl")

	seen := map[string]struct{}{"/proj/a.jsonl": {}}
	pruned, err := c.PruneDir("/proj", seen)
	if err != nil {
		t.Fatal(err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	if _, ok, _ := c.Get("/proj/a.jsonl", 1, 1); !ok {
		t.Error("seen row was pruned")
	}
	if _, ok, _ := c.Get("/proj/b.jsonl", 1, 1); ok {
		t.Error("unseen row survived")
	}
	if _, ok, _ := c.Get("/other/c.jsonl", 1, 1); !ok {
		t.Error("row outside the directory was pruned")
	}
}

func TestSchemaVersionResetDropsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put(&parse.SessionSummary{FilePath: "/p/s.jsonl", SessionID: "s", Mtime: 1, Size: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.db.Exec("UPDATE meta SET value = '0' WHERE key = 'schema_version'"); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	c, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	n, err := c.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count = %d after version bump, want 0", n)
	}
}
