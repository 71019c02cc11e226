package search

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrDiscovery is returned when the source directory cannot be created or read.
var ErrDiscovery = errors.New("discovery error")

// DefaultExtensions are the document extensions picked up by Discover.
var DefaultExtensions = []string{".pdf"}

// Discover lists the documents directly under root and under each of its
// immediate subdirectories, root files first. Deeper levels are not walked.
// A missing root is created and yields no documents.
func Discover(root string, extensions []string) ([]string, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", ErrDiscovery, root, err)
		}
		return []string{}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDiscovery, root, err)
	}

	files := matchFiles(root, entries, extensions)

	for _, entry := range entries {
		dir := filepath.Join(root, entry.Name())
		if isHidden(entry.Name()) || !resolveMode(dir, entry).IsDir() {
			continue
		}

		sub, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrDiscovery, dir, err)
		}
		files = append(files, matchFiles(dir, sub, extensions)...)
	}
	return files, nil
}

// resolveMode returns the type of entry, following symbolic links.
// A dangling link resolves to the link itself.
func resolveMode(path string, entry os.DirEntry) fs.FileMode {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type()
	}
	info, err := os.Stat(path)
	if err != nil {
		return entry.Type()
	}
	return info.Mode().Type()
}

// matchFiles returns the regular files in entries with a wanted extension.
func matchFiles(dir string, entries []os.DirEntry, extensions []string) []string {
	files := []string{}
	for _, entry := range entries {
		if isHidden(entry.Name()) {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !slices.Contains(extensions, ext) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if resolveMode(path, entry).IsRegular() {
			files = append(files, path)
		}
	}
	return files
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
