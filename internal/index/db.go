// Package index caches session summaries in SQLite so repeated
// listings of large projects skip re-parsing unchanged log files.
// A summary is reused only while the file's mtime and size both
// match; anything else is a miss.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS summaries (
    file_path          TEXT PRIMARY KEY,
    session_id         TEXT NOT NULL,
    mtime              INTEGER NOT NULL DEFAULT 0,
    size               INTEGER NOT NULL DEFAULT 0,
    message_count      INTEGER NOT NULL DEFAULT 0,
    line_count         INTEGER NOT NULL DEFAULT 0,
    first_ts           TEXT NOT NULL DEFAULT '',
    last_ts            TEXT NOT NULL DEFAULT '',
    first_user_message TEXT NOT NULL DEFAULT '',
    git_branch         TEXT NOT NULL DEFAULT '',
    has_summary        INTEGER NOT NULL DEFAULT 0,
    summary_text       TEXT NOT NULL DEFAULT ''
);
`

type Cache struct {
	db *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	// schema version tracking for forced re-parse
	db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)")
	c := &Cache{db: db}
	c.migrateSchemaVersion()

	return c, nil
}

// schemaVersion should be bumped whenever summary parsing logic
// changes, so stale rows are dropped instead of served.
const schemaVersion = "1"

func (c *Cache) migrateSchemaVersion() {
	var ver string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		c.db.Exec("DELETE FROM summaries")
		c.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached summary for a file if one exists and its
// recorded mtime and size match the given ones. A stale or absent row
// reports ok=false, never an error.
func (c *Cache) Get(path string, mtime, size int64) (*parse.SessionSummary, bool, error) {
	var s sessionRow
	var cachedMtime, cachedSize int64
	var firstTS, lastTS string
	var hasSummary int
	err := c.db.QueryRow(
		`SELECT session_id, mtime, size, message_count, line_count,
		        first_ts, last_ts, first_user_message, git_branch,
		        has_summary, summary_text
		 FROM summaries WHERE file_path = ?`,
		path,
	).Scan(&s.sessionID, &cachedMtime, &cachedSize, &s.messageCount, &s.lineCount,
		&firstTS, &lastTS, &s.firstUserMessage, &s.gitBranch,
		&hasSummary, &s.summaryText)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if cachedMtime != mtime || cachedSize != size {
		return nil, false, nil
	}

	sum := &parse.SessionSummary{
		FilePath:         path,
		SessionID:        s.sessionID,
		MessageCount:     s.messageCount,
		LineCount:        s.lineCount,
		FirstUserMessage: s.firstUserMessage,
		GitBranch:        s.gitBranch,
		HasSummary:       hasSummary != 0,
		SummaryText:      s.summaryText,
		Mtime:            cachedMtime,
		Size:             cachedSize,
	}
	if sum.FirstTimestamp, err = parseStamp(firstTS); err != nil {
		return nil, false, nil // unreadable row, treat as a miss
	}
	if sum.LastTimestamp, err = parseStamp(lastTS); err != nil {
		return nil, false, nil
	}
	return sum, true, nil
}

type sessionRow struct {
	sessionID        string
	messageCount     int
	lineCount        int
	firstUserMessage string
	gitBranch        string
	summaryText      string
}

// Put stores or replaces the summary row for sum.FilePath.
func (c *Cache) Put(sum *parse.SessionSummary) error {
	hasSummary := 0
	if sum.HasSummary {
		hasSummary = 1
	}
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO summaries
		 (file_path, session_id, mtime, size, message_count, line_count,
		  first_ts, last_ts, first_user_message, git_branch, has_summary, summary_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.FilePath, sum.SessionID, sum.Mtime, sum.Size,
		sum.MessageCount, sum.LineCount,
		formatStamp(sum.FirstTimestamp), formatStamp(sum.LastTimestamp),
		sum.FirstUserMessage, sum.GitBranch, hasSummary, sum.SummaryText,
	)
	return err
}

func (c *Cache) Delete(path string) error {
	_, err := c.db.Exec("DELETE FROM summaries WHERE file_path = ?", path)
	return err
}

// AllPaths returns every file path with a cached row.
func (c *Cache) AllPaths() (map[string]struct{}, error) {
	rows, err := c.db.Query("SELECT file_path FROM summaries")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths[p] = struct{}{}
	}
	return paths, rows.Err()
}

func (c *Cache) Count() (int, error) {
	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM summaries").Scan(&n)
	return n, err
}

// Timestamps travel as RFC 3339 text; "" means no timestamp was seen.
func formatStamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseStamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
