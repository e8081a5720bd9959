package parse

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

const previewWidth = 80

// Summarize makes one streaming pass over a session log and folds every
// line into a SessionSummary. Undecodable lines are skipped, so a file
// caught mid-append still summarizes; empty files yield an empty
// summary rather than an error.
func Summarize(path string, topics map[string]string) (*SessionSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	sum := &SessionSummary{
		FilePath:  path,
		SessionID: strings.TrimSuffix(filepath.Base(path), ".jsonl"),
		Mtime:     fi.ModTime().Unix(),
		Size:      fi.Size(),
	}

	seen := make(map[string]bool) // topics already matched, by text
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		entries, err := ClassifyLine(sc.Bytes(), lineNo)
		if err != nil {
			continue
		}
		for i := range entries {
			sum.fold(&entries[i], topics, seen)
		}
	}
	sum.LineCount = lineNo
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if sum.FirstUserMessage == "" {
		sum.FirstUserMessage = "no user message"
	}
	return sum, nil
}

func (s *SessionSummary) fold(e *Entry, topics map[string]string, seen map[string]bool) {
	switch e.Kind {
	case KindUser, KindAssistant:
		s.MessageCount++
	case KindSummary:
		if !s.HasSummary {
			s.HasSummary = true
			s.SummaryText = e.Text
		}
	}
	if !e.Timestamp.IsZero() {
		if s.FirstTimestamp.IsZero() || e.Timestamp.Before(s.FirstTimestamp) {
			s.FirstTimestamp = e.Timestamp
		}
		if s.LastTimestamp.IsZero() || e.Timestamp.After(s.LastTimestamp) {
			s.LastTimestamp = e.Timestamp
		}
	}
	if s.FirstUserMessage == "" && e.Kind == KindUser && e.Text != "" {
		s.FirstUserMessage = previewText(e.Text)
	}
	if s.GitBranch == "" && e.GitBranch != "" {
		s.GitBranch = e.GitBranch
	}
	if len(topics) > 0 && e.UUID != "" {
		if t, ok := topics[e.UUID]; ok && !seen[t] {
			seen[t] = true
			s.MatchedTopics = append(s.MatchedTopics, t)
		}
	}
}

// previewText flattens a user message into a single display line.
func previewText(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	return runewidth.Truncate(text, previewWidth, "...")
}

// StreamRecords re-reads a session file one record at a time; each call
// receives the record-level entry followed by its tool sub-entries. An
// error from fn stops the walk and is passed through. A scanner failure
// surfaces after everything before it was delivered.
func StreamRecords(path string, fn func([]Entry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		entries, err := ClassifyLine(sc.Bytes(), lineNo)
		if err != nil {
			continue
		}
		if err := fn(entries); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Stream is StreamRecords flattened to single entries.
func Stream(path string, fn func(Entry) error) error {
	return StreamRecords(path, func(entries []Entry) error {
		for _, e := range entries {
			if err := fn(e); err != nil {
				return err
			}
		}
		return nil
	})
}
