package parse

import "time"

// SessionSummary is the per-file digest produced by a single streaming
// pass over a session log. Timestamps are zero when the file carries
// none.
type SessionSummary struct {
	FilePath         string
	SessionID        string // file stem
	MessageCount     int    // user + assistant records
	LineCount        int    // every line, valid or not
	FirstTimestamp   time.Time
	LastTimestamp    time.Time
	FirstUserMessage string
	GitBranch        string
	HasSummary       bool
	SummaryText      string // first summary record in the file
	MatchedTopics    []string
	Mtime            int64
	Size             int64
}

// DurationSeconds is the whole-second span between the first and last
// timestamp, 0 when either is missing.
func (s *SessionSummary) DurationSeconds() int64 {
	if s.FirstTimestamp.IsZero() || s.LastTimestamp.IsZero() {
		return 0
	}
	d := s.LastTimestamp.Sub(s.FirstTimestamp)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// HasTimestamp reports whether any record in the file carried a
// parseable timestamp.
func (s *SessionSummary) HasTimestamp() bool {
	return !s.FirstTimestamp.IsZero()
}
