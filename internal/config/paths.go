package config

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvHome overrides the directory relative runtime paths are resolved against.
const EnvHome = "STOCKDESK_HOME"

// HomeDir is STOCKDESK_HOME when set, otherwise the executable's directory,
// otherwise the working directory.
func HomeDir() string {
	if home := strings.TrimSpace(os.Getenv(EnvHome)); home != "" {
		return filepath.Clean(home)
	}
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// resolvePath makes raw (or fallback when raw is blank) absolute under home.
func resolvePath(home, raw, fallback string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = fallback
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(home, target)
}
