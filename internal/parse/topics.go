package parse

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// Summary stubs that Claude Code writes when compacting a conversation
// are tiny; real logs blow past this immediately.
const maxTopicFileSize = 10 * 1024

// BuildTopicIndex scans a project directory for summary stub files and
// returns leafUuid -> summary text. Unreadable files and non-summary
// lines are skipped.
func BuildTopicIndex(dir string) map[string]string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	topics := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		fi, err := e.Info()
		if err != nil || fi.Size() > maxTopicFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			res := gjson.GetManyBytes(line, "type", "summary", "leafUuid")
			if res[0].String() != "summary" {
				continue
			}
			summary, leaf := res[1].String(), res[2].String()
			if summary == "" || leaf == "" {
				continue
			}
			topics[leaf] = summary
		}
	}
	return topics
}
