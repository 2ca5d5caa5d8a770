package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePathWithinDirectory reports an error when filePath, after
// cleaning and symlink resolution, lies outside safeDir. The path itself
// need not exist; its nearest existing ancestor is resolved instead.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	target, err := canonical(filePath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	absDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory: %w", err)
	}
	dir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory symlinks: %w", err)
	}

	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return fmt.Errorf("path is outside %s: %w", safeDir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("path traversal detected: %s escapes %s", filePath, safeDir)
	}
	return nil
}

// ResolveWithin joins a relative path onto baseDir and checks that the
// result stays inside baseDir. Absolute paths are returned cleaned and
// unchecked.
func ResolveWithin(baseDir, path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	joined := filepath.Join(baseDir, path)
	if err := ValidatePathWithinDirectory(joined, baseDir); err != nil {
		return "", err
	}
	return joined, nil
}

// ValidateOutputPath accepts paths under the working directory or the
// system temp directory.
func ValidateOutputPath(path string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	for _, dir := range []string{cwd, os.TempDir()} {
		if ValidatePathWithinDirectory(path, dir) == nil {
			return nil
		}
	}
	return fmt.Errorf("output path %s must be within %s or %s", path, cwd, os.TempDir())
}

// canonical returns the absolute, symlink-free form of path. A missing tail
// is appended to its deepest existing ancestor, so a link in a parent
// directory cannot be used to escape.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rest, _ := filepath.Rel(dir, abs)
			return filepath.Join(resolved, rest), nil
		}
		if filepath.Dir(dir) == dir {
			return abs, nil
		}
	}
}
