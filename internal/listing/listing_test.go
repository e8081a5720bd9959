package listing

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
	"github.com/Zuo-Peng/claude-session-log/internal/scan"
)

func writeSession(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSession(t, dir, "b.jsonl",
		`{"type":"user","message":{"content":"hi"},"timestamp":"2024-06-01T12:00:00Z","gitBranch":"feature-x"}`,
		`{"type":"assistant","message":{"content":"ok"},"timestamp":"2024-06-01T12:30:00Z"}`,
	)
	writeSession(t, dir, "a.jsonl",
		`{"type":"user","message":{"content":"aa"},"timestamp":"2024-06-01T10:00:00Z"}`,
		`{"type":"assistant","message":{"content":"ok"},"timestamp":"2024-06-01T10:00:30Z"}`,
	)
	writeSession(t, dir, "zz.jsonl",
		`{"type":"user","message":{"content":"zz msg"}}`,
	)
	return dir
}

func listLines(t *testing.T, dir string, opts Options) []string {
	t.Helper()
	var buf bytes.Buffer
	if err := Sessions(&buf, dir, opts); err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func rowKey(t *testing.T, row string) string {
	t.Helper()
	parts := strings.SplitN(row, KeySeparator, 2)
	if len(parts) != 2 {
		t.Fatalf("row has no hidden key: %q", row)
	}
	return parts[1]
}

func TestSessionsHeadersAndOrder(t *testing.T) {
	dir := fixtureDir(t)
	now := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	lines := listLines(t, dir, Options{Width: 100, Now: now, Errors: &bytes.Buffer{}})

	if len(lines) != HeaderLines+3 {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), HeaderLines+3, strings.Join(lines, "\n"))
	}
	if want := "Claude Code Sessions for: " + dir; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
	for i := 0; i < HeaderLines; i++ {
		if strings.Contains(lines[i], KeySeparator) {
			t.Errorf("header line %d contains the key separator", i)
		}
	}

	rows := lines[HeaderLines:]
	var ids []string
	for _, r := range rows {
		ids = append(ids, rowKey(t, r))
	}
	want := []string{"b", "a", "zz"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("row %d id = %q, want %q (order %v)", i, ids[i], want[i], ids)
		}
	}
}

func TestSessionsRowFormat(t *testing.T) {
	dir := fixtureDir(t)
	now := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	lines := listLines(t, dir, Options{Width: 100, Now: now, Errors: &bytes.Buffer{}})
	rows := lines[HeaderLines:]

	wantB := fmt.Sprintf("%-11s %8s %8d  %-50s  %s", "30m ago", "30m", 2, "hi", "feature-x") +
		KeySeparator + "b"
	if rows[0] != wantB {
		t.Errorf("row b:\n got %q\nwant %q", rows[0], wantB)
	}
	wantZZ := fmt.Sprintf("%-11s %8s %8d  %-50s  %s", "-", "-", 1, "zz msg", "-") +
		KeySeparator + "zz"
	if rows[2] != wantZZ {
		t.Errorf("row zz:\n got %q\nwant %q", rows[2], wantZZ)
	}
}

func TestSessionsPreviewTruncation(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "s.jsonl",
		`{"type":"user","message":{"content":"`+strings.Repeat("x", 30)+`"},"timestamp":"2024-06-01T12:00:00Z"}`,
	)
	lines := listLines(t, dir, Options{Width: 60, Errors: &bytes.Buffer{}})
	row := lines[HeaderLines]
	if !strings.Contains(row, strings.Repeat("x", 17)+"...") {
		t.Errorf("preview not truncated to 20 columns: %q", row)
	}
	if strings.Contains(row, strings.Repeat("x", 18)) {
		t.Errorf("preview too wide: %q", row)
	}
}

func TestSessionsWidthFromEnv(t *testing.T) {
	t.Setenv("COLUMNS", "72")
	dir := fixtureDir(t)
	lines := listLines(t, dir, Options{Errors: &bytes.Buffer{}})
	// 72 columns leave 22 for the preview column
	wantTitle := fmt.Sprintf("%-11s %8s %8s  %-22s  %s",
		"LAST_USED", "Duration", "Messages", "FIRST_MESSAGE", "BRANCH")
	if lines[3] != wantTitle {
		t.Errorf("title = %q, want %q", lines[3], wantTitle)
	}
}

func TestSessionsWarnsAndContinues(t *testing.T) {
	dir := fixtureDir(t)
	if err := os.Symlink(filepath.Join(dir, "missing-target"), filepath.Join(dir, "broken.jsonl")); err != nil {
		t.Fatal(err)
	}
	var errs bytes.Buffer
	lines := listLines(t, dir, Options{Width: 100, Errors: &errs})
	if got := len(lines) - HeaderLines; got != 3 {
		t.Errorf("got %d rows, want 3", got)
	}
	if !strings.Contains(errs.String(), "WARN: parse") {
		t.Errorf("no parse warning emitted: %q", errs.String())
	}
	if !strings.Contains(errs.String(), "skipped 1 unparsable") {
		t.Errorf("no aggregate warning emitted: %q", errs.String())
	}
}

func TestSessionsListsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty.jsonl"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	lines := listLines(t, dir, Options{Width: 100, Errors: &bytes.Buffer{}})
	if got := len(lines) - HeaderLines; got != 1 {
		t.Fatalf("got %d rows, want 1", got)
	}
	row := lines[HeaderLines]
	if got := rowKey(t, row); got != "empty" {
		t.Errorf("row key = %q, want %q", got, "empty")
	}
	if !strings.Contains(row, "no user message") {
		t.Errorf("placeholder preview missing: %q", row)
	}
}

func TestSessionsMissingDir(t *testing.T) {
	var buf bytes.Buffer
	if err := Sessions(&buf, filepath.Join(t.TempDir(), "nope"), Options{}); err == nil {
		t.Fatal("Sessions succeeded on a missing directory")
	}
}

func TestProjectsListing(t *testing.T) {
	root := t.TempDir()
	mk := func(name string) string {
		t.Helper()
		p := filepath.Join(root, name)
		if err := os.Mkdir(p, 0o755); err != nil {
			t.Fatal(err)
		}
		return p
	}
	beta := mk("-home-u-beta")
	writeSession(t, beta, "s1.jsonl",
		`{"type":"user","message":{"content":"hi"},"timestamp":"2024-06-01T12:00:00Z"}`,
	)
	alpha := mk("-home-u-alpha")
	writeSession(t, alpha, "s2.jsonl",
		`{"type":"user","message":{"content":"hi"},"timestamp":"2024-06-01T10:00:00Z"}`,
	)
	mk("-home-u-empty")

	var buf bytes.Buffer
	now := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	if err := Projects(&buf, root, Options{Now: now, Errors: &bytes.Buffer{}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != ProjectsHeaderLines+3 {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), ProjectsHeaderLines+3, buf.String())
	}
	if want := "Claude Code Projects in: " + root; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}

	rows := lines[ProjectsHeaderLines:]
	wantKeys := []string{"-home-u-beta", "-home-u-alpha", "-home-u-empty"}
	for i, want := range wantKeys {
		if got := rowKey(t, rows[i]); got != want {
			t.Errorf("row %d key = %q, want %q", i, got, want)
		}
	}
	wantBeta := fmt.Sprintf("%-11s %8d  %s", "1h ago", 1, "/home/u/beta") +
		KeySeparator + "-home-u-beta"
	if rows[0] != wantBeta {
		t.Errorf("row beta:\n got %q\nwant %q", rows[0], wantBeta)
	}
	wantEmpty := fmt.Sprintf("%-11s %8d  %s", "-", 0, "/home/u/empty") +
		KeySeparator + "-home-u-empty"
	if rows[2] != wantEmpty {
		t.Errorf("row empty:\n got %q\nwant %q", rows[2], wantEmpty)
	}
}

func TestProjectsShortCircuitsPerDirectory(t *testing.T) {
	root := t.TempDir()
	proj := filepath.Join(root, "-p")
	if err := os.Mkdir(proj, 0o755); err != nil {
		t.Fatal(err)
	}
	newer := writeSession(t, proj, "new.jsonl",
		`{"type":"user","message":{"content":"hi"},"timestamp":"2024-06-01T12:00:00Z"}`,
	)
	older := writeSession(t, proj, "old.jsonl",
		`{"type":"user","message":{"content":"hi"},"timestamp":"2024-06-01T09:00:00Z"}`,
	)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, base.Add(time.Hour), base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	calls := 0
	opts := Options{
		Now:    time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC),
		Errors: &bytes.Buffer{},
		Summarize: func(f scan.FileInfo) (*parse.SessionSummary, error) {
			calls++
			return parse.Summarize(f.Path, nil)
		},
	}
	var buf bytes.Buffer
	if err := Projects(&buf, root, opts); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("parsed %d files, want 1 (newest has a timestamp)", calls)
	}
	if !strings.Contains(buf.String(), fmt.Sprintf("%8d", 2)) {
		t.Errorf("session count missing from row:\n%s", buf.String())
	}
}

func TestProjectsMissingRoot(t *testing.T) {
	var buf bytes.Buffer
	if err := Projects(&buf, filepath.Join(t.TempDir(), "nope"), Options{}); err == nil {
		t.Fatal("Projects succeeded on a missing root")
	}
}
