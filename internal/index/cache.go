package index

import (
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/claude-session-log/internal/parse"
	"github.com/Zuo-Peng/claude-session-log/internal/scan"
)

// Summarize is the read-through path: serve the cached summary while
// the file's mtime and size match, otherwise parse fresh and store the
// result. Cache trouble never fails a listing; a broken or read-only
// cache degrades to plain parsing. Matched topics are not cached, so
// summaries served from here carry none.
func (c *Cache) Summarize(f scan.FileInfo) (*parse.SessionSummary, error) {
	if sum, ok, err := c.Get(f.Path, f.Mtime, f.Size); err == nil && ok {
		return sum, nil
	}
	sum, err := parse.Summarize(f.Path, nil)
	if err != nil {
		return nil, err
	}
	c.Put(sum) // best effort
	return sum, nil
}

// PruneDir drops cached rows for files under dir that are not in seen,
// so deleted sessions do not linger. It returns how many rows went.
func (c *Cache) PruneDir(dir string, seen map[string]struct{}) (int, error) {
	all, err := c.AllPaths()
	if err != nil {
		return 0, err
	}
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	pruned := 0
	for p := range all {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		if err := c.Delete(p); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}
