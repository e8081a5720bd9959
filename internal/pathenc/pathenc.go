package pathenc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var encoder = strings.NewReplacer("/", "-", ".", "-", "_", "-")

// Encode flattens a project directory path into the name Claude Code
// uses for its per-project log directory: "/", "." and "_" all become "-".
func Encode(path string) string {
	return encoder.Replace(path)
}

// Decode recovers a directory path from an encoded project name by
// walking the filesystem. Because encoding is lossy, each path segment
// is matched against real directory entries; when several names encode
// to the same prefix the longest match wins, then lexicographic order
// (so a literal "-" beats "." beats "_"). If no full match exists the
// deepest existing prefix is kept and the remainder inverted naively;
// if nothing matches at all the whole name is inverted naively.
// Decode never fails: it always returns some path.
func Decode(encoded string) string {
	if encoded == "" {
		return ""
	}
	if !strings.HasPrefix(encoded, "-") {
		// relative name, nothing to resolve against
		return naive(encoded)
	}
	rest := encoded[1:]
	d := &decoder{bestDir: "/", bestRest: rest}
	if p, ok := d.resolve("/", rest); ok {
		return p
	}
	if d.bestDir == "/" && d.bestRest == rest {
		return naive(encoded)
	}
	return filepath.Join(d.bestDir, naive(d.bestRest))
}

type decoder struct {
	bestDir  string // deepest directory that matched so far
	bestRest string // encoded remainder at that directory
}

func (d *decoder) resolve(dir, rest string) (string, bool) {
	if rest == "" {
		return dir, true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var candidates []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		enc := Encode(name)
		if enc == rest {
			// a whole-remainder match always wins over descending further
			return filepath.Join(dir, name), true
		}
		if strings.HasPrefix(rest, enc+"-") {
			candidates = append(candidates, name)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ei, ej := Encode(candidates[i]), Encode(candidates[j])
		if len(ei) != len(ej) {
			return len(ei) > len(ej)
		}
		return candidates[i] < candidates[j]
	})
	for _, name := range candidates {
		next := filepath.Join(dir, name)
		sub := rest[len(Encode(name))+1:]
		if len(sub) < len(d.bestRest) {
			d.bestDir, d.bestRest = next, sub
		}
		if p, ok := d.resolve(next, sub); ok {
			return p, true
		}
	}
	return "", false
}

func naive(encoded string) string {
	return strings.ReplaceAll(encoded, "-", "/")
}
