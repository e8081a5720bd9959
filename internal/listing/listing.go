package listing

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
	"github.com/Zuo-Peng/claude-session-log/internal/pathenc"
	"github.com/Zuo-Peng/claude-session-log/internal/render"
	"github.com/Zuo-Peng/claude-session-log/internal/scan"
)

// KeySeparator splits the visible part of a row from the machine-readable
// key appended for selectors (fzf --delimiter). 0x1F never occurs in
// normal message text.
const KeySeparator = "\x1f"

// HeaderLines is how many lines Sessions emits before the data rows;
// selector integrations strip them with --header-lines.
const HeaderLines = 4

// ProjectsHeaderLines is the same contract for Projects.
const ProjectsHeaderLines = 2

const (
	timeColumn   = 11
	countColumn  = 8
	branchColumn = 16
	fixedColumns = 50 // time + duration + messages + branch + separators
	minPreview   = 20
)

// ProjectEntry aggregates one encoded project directory for the
// projects listing.
type ProjectEntry struct {
	EncodedName  string
	DecodedPath  string
	SessionCount int
	LastActivity time.Time
}

type Options struct {
	Width int       // 0 resolves from $COLUMNS, then the terminal, then 80
	Now   time.Time // zero means time.Now(), fixed in tests

	// Summarize overrides how a session file becomes a summary, so a
	// cache can sit in front of the parser. Nil parses directly.
	Summarize func(scan.FileInfo) (*parse.SessionSummary, error)

	// Errors receives per-file warnings; nil means os.Stderr. Rows go
	// to the listing writer only.
	Errors io.Writer
}

func (o Options) errw() io.Writer {
	if o.Errors != nil {
		return o.Errors
	}
	return os.Stderr
}

func (o Options) now() time.Time {
	if !o.Now.IsZero() {
		return o.Now
	}
	return time.Now()
}

func (o Options) summarize(f scan.FileInfo) (*parse.SessionSummary, error) {
	if o.Summarize != nil {
		return o.Summarize(f)
	}
	return parse.Summarize(f.Path, nil)
}

// Sessions writes the selector listing for one project directory:
// four header lines, then one row per session, most recent activity
// first. Sessions without any timestamp sort last, by filename. A file
// that cannot be parsed is warned about and left out; it never stops
// the rest of the listing.
func Sessions(w io.Writer, dir string, opts Options) error {
	files, err := scan.Sessions(dir)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	errw := opts.errw()
	summaries := make([]*parse.SessionSummary, 0, len(files))
	warned := 0
	for _, f := range files {
		sum, err := opts.summarize(f)
		if err != nil {
			warned++
			fmt.Fprintf(errw, "WARN: parse %s: %v\n", f.Path, err)
			continue
		}
		summaries = append(summaries, sum)
	}
	sortSummaries(summaries)

	width := resolveWidth(opts.Width)
	previewW := width - fixedColumns
	if previewW < minPreview {
		previewW = minPreview
	}

	fmt.Fprintf(w, "Claude Code Sessions for: %s\n", listingTitle(dir))
	fmt.Fprintln(w, "Enter: Return session ID, Ctrl-v: View log")
	fmt.Fprintln(w, "Ctrl-p: Return path, Ctrl-r: Resume conversation")
	fmt.Fprintf(w, "%-*s %*s %*s  %-*s  %s\n",
		timeColumn, "LAST_USED", countColumn, "Duration", countColumn, "Messages",
		previewW, "FIRST_MESSAGE", "BRANCH")

	now := opts.now()
	for _, s := range summaries {
		if _, err := fmt.Fprintln(w, sessionRow(s, now, previewW)); err != nil {
			return err
		}
	}
	if warned > 0 {
		fmt.Fprintf(errw, "WARN: skipped %d unparsable session file(s)\n", warned)
	}
	return nil
}

func sessionRow(s *parse.SessionSummary, now time.Time, previewW int) string {
	rel, dur := "-", "-"
	if s.HasTimestamp() {
		rel = render.FormatRelative(s.LastTimestamp, now)
		dur = render.FormatDuration(s.DurationSeconds())
	}
	preview := runewidth.FillRight(runewidth.Truncate(s.FirstUserMessage, previewW, "..."), previewW)
	branch := s.GitBranch
	if branch == "" {
		branch = "-"
	}
	branch = runewidth.Truncate(branch, branchColumn, "...")
	return fmt.Sprintf("%-*s %*s %*d  %s  %s%s%s",
		timeColumn, rel, countColumn, dur, countColumn, s.MessageCount,
		preview, branch, KeySeparator, s.SessionID)
}

// sortSummaries orders by last activity descending; sessions with no
// timestamp at all go last. Ties fall back to filename so the listing
// is stable across runs.
func sortSummaries(summaries []*parse.SessionSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		switch {
		case a.HasTimestamp() && b.HasTimestamp():
			if !a.LastTimestamp.Equal(b.LastTimestamp) {
				return a.LastTimestamp.After(b.LastTimestamp)
			}
			return filepath.Base(a.FilePath) < filepath.Base(b.FilePath)
		case a.HasTimestamp():
			return true
		case b.HasTimestamp():
			return false
		default:
			return filepath.Base(a.FilePath) < filepath.Base(b.FilePath)
		}
	})
}

// listingTitle shows the decoded project path when the directory name
// is an encoded one, otherwise the directory as given.
func listingTitle(dir string) string {
	if base := filepath.Base(dir); strings.HasPrefix(base, "-") {
		return pathenc.Decode(base)
	}
	return dir
}

// Projects writes one row per project directory under the root: two
// header lines, then last activity, session count and the decoded
// path, with the encoded name as the hidden key.
func Projects(w io.Writer, root string, opts Options) error {
	dirs, err := scan.ProjectDirs(root)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	errw := opts.errw()
	entries := make([]ProjectEntry, 0, len(dirs))
	warned := 0
	for _, name := range dirs {
		files, err := scan.Sessions(filepath.Join(root, name))
		if err != nil {
			warned++
			fmt.Fprintf(errw, "WARN: scan %s: %v\n", name, err)
			continue
		}
		e := ProjectEntry{
			EncodedName:  name,
			DecodedPath:  pathenc.Decode(name),
			SessionCount: len(files),
		}
		// newest file first: the first summary with a clock is the
		// project's last activity, the rest never get parsed
		for _, f := range files {
			sum, err := opts.summarize(f)
			if err != nil {
				continue
			}
			if sum.HasTimestamp() {
				e.LastActivity = sum.LastTimestamp
				break
			}
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return lessProjects(entries[i], entries[j])
	})

	fmt.Fprintf(w, "Claude Code Projects in: %s\n", root)
	fmt.Fprintf(w, "%-*s %*s  %s\n", timeColumn, "LAST_USED", countColumn, "Sessions", "PATH")
	now := opts.now()
	for _, e := range entries {
		rel := render.FormatRelative(e.LastActivity, now)
		if _, err := fmt.Fprintf(w, "%-*s %*d  %s%s%s\n",
			timeColumn, rel, countColumn, e.SessionCount,
			e.DecodedPath, KeySeparator, e.EncodedName); err != nil {
			return err
		}
	}
	if warned > 0 {
		fmt.Fprintf(errw, "WARN: skipped %d unreadable project dir(s)\n", warned)
	}
	return nil
}

func lessProjects(a, b ProjectEntry) bool {
	aHas, bHas := !a.LastActivity.IsZero(), !b.LastActivity.IsZero()
	switch {
	case aHas && bHas:
		if !a.LastActivity.Equal(b.LastActivity) {
			return a.LastActivity.After(b.LastActivity)
		}
		return a.EncodedName < b.EncodedName
	case aHas:
		return true
	case bHas:
		return false
	default:
		return a.EncodedName < b.EncodedName
	}
}

func resolveWidth(explicit int) int {
	if explicit > 0 {
		return explicit
	}
	if env := os.Getenv("COLUMNS"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			return n
		}
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
