package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ProjectsRoot string `toml:"projects_root"`
	ExportDir    string `toml:"export_dir"`
	Cache        bool   `toml:"cache"`
	CachePath    string `toml:"cache_path"`
	Color        string `toml:"color"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ProjectsRoot: filepath.Join(home, ".claude", "projects"),
		ExportDir:    "claude_chat",
		Cache:        false,
		CachePath:    filepath.Join(home, ".config", "csl", "cache.db"),
		Color:        "auto",
	}

	cfgPath := filepath.Join(home, ".config", "csl", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ProjectsRoot = expandHome(cfg.ProjectsRoot, home)
	cfg.ExportDir = expandHome(cfg.ExportDir, home)
	cfg.CachePath = expandHome(cfg.CachePath, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
