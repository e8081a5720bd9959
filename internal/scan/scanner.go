package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path  string
	Mtime int64
	Size  int64
}

// Sessions lists the session logs directly inside a project directory,
// newest mtime first. Subdirectories are not descended into; Claude
// Code keeps one flat directory per project.
func Sessions(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		if strings.Contains(e.Name(), "sessions-index") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // file vanished between readdir and stat
		}
		files = append(files, FileInfo{
			Path:  filepath.Join(dir, e.Name()),
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Mtime != files[j].Mtime {
			return files[i].Mtime > files[j].Mtime
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// ProjectDirs lists the encoded project directory names under the
// Claude Code projects root.
func ProjectDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
