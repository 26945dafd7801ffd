// Package scanner discovers candidate manifest files under an input directory.
// It is purely a path-discovery stage: files are never opened or parsed here.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrNotFound is returned when the input path does not exist
	ErrNotFound = errors.New("input path does not exist")
	// ErrNotADirectory is returned when the input path is not a directory
	ErrNotADirectory = errors.New("input path is not a directory")
)

// Scan returns the paths of all .yaml/.yml files under root. With recursive
// set, subdirectories are walked as well; directory symlinks are not
// followed, so link cycles cannot occur. The result is sorted
// lexicographically, which is the pipeline's documented discovery order.
func Scan(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	var files []string
	if recursive {
		files, err = scanRecursive(root)
	} else {
		files, err = scanTopLevel(root)
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func scanTopLevel(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isManifestName(entry.Name()) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		// Symlinked entries count only when they resolve to a regular file
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		files = append(files, path)
	}
	return files, nil
}

func scanRecursive(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isManifestName(d.Name()) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}
	return files, nil
}

func isManifestName(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}
