package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory containing the running binary with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// ResolveWebDir returns the absolute directory the demo client files are
// served from. A relative WebDir is looked up next to the executable first
// and falls back to the working directory, so both `go run` and a deployed
// binary find their assets.
func (c *Config) ResolveWebDir() string {
	dir := c.Paths.WebDir
	if dir == "" {
		dir = DefaultWebDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}

	if exeDir, err := ExecutableDir(); err == nil {
		candidate := filepath.Join(exeDir, dir)
		if DirExists(candidate) {
			return candidate
		}
	}

	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// DirExists reports whether path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
