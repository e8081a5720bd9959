// Package export writes session logs out as Markdown files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/claude-session-log/internal/render"
	"github.com/Zuo-Peng/claude-session-log/internal/scan"
)

type Options struct {
	// FilterEmpty drops user/assistant turns that carry no message
	// text and no tool activity.
	FilterEmpty bool
}

// Stats counts the outcome of a bulk export.
type Stats struct {
	Exported int
	Failed   int
}

func (s Stats) String() string {
	return fmt.Sprintf("exported=%d failed=%d", s.Exported, s.Failed)
}

// Session renders one log file to Markdown and writes it under outDir
// as <session-id>.md, creating outDir if needed. It returns the path
// of the written file.
func Session(file, outDir string, opts Options) (string, error) {
	md, err := render.Markdown(file, render.MarkdownOptions{FilterEmpty: opts.FilterEmpty})
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	out := filepath.Join(outDir, safeFileName(stem)+".md")
	if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return out, nil
}

// All exports every session log in a project directory. A file that
// fails to render or write is counted and reported on errw (os.Stderr
// when nil); it never stops the remaining files.
func All(dir, outDir string, opts Options, errw io.Writer) (Stats, error) {
	files, err := scan.Sessions(dir)
	if err != nil {
		return Stats{}, fmt.Errorf("list sessions: %w", err)
	}
	if errw == nil {
		errw = os.Stderr
	}
	var st Stats
	for _, f := range files {
		if _, err := Session(f.Path, outDir, opts); err != nil {
			st.Failed++
			fmt.Fprintf(errw, "WARN: export %s: %v\n", f.Path, err)
			continue
		}
		st.Exported++
	}
	return st, nil
}

// Session IDs are normally UUIDs, but agent traces and hand-renamed
// files can carry separators that do not belong in a file name.
var fileNameSanitizer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	" ", "_",
)

func safeFileName(name string) string {
	return fileNameSanitizer.Replace(name)
}
