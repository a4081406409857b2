package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ManifestLocatorAdapter walks a tree for manifest files. Hidden
// directories and cargo build output are pruned before being entered;
// unreadable entries are skipped without aborting the walk. Symbolic
// links to directories are followed.
type ManifestLocatorAdapter struct{}

func NewManifestLocatorAdapter() ManifestLocatorAdapter {
	return ManifestLocatorAdapter{}
}

func (a ManifestLocatorAdapter) Find(root string, filename string) ([]string, error) {
	var paths []string
	err := walkFollowingLinks(root, func(path string, d fs.DirEntry) bool {
		if d.IsDir() {
			return !shouldSkipDir(d.Name())
		}
		if d.Name() == filename {
			paths = append(paths, path)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func shouldSkipDir(name string) bool {
	return name == "target" || strings.HasPrefix(name, ".")
}

// walkFollowingLinks is filepath.WalkDir with two deviations: directory
// symlinks are descended into, and per-entry read errors are logged and
// swallowed. enter returning false prunes a directory. Each physical
// directory is visited once, so link cycles terminate and a directory
// reachable through several links is not reported twice.
func walkFollowingLinks(root string, enter func(path string, d fs.DirEntry) bool) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "walk", Path: root, Err: fs.ErrInvalid}
	}
	visited := make(map[string]bool)
	var walk func(dir string)
	walk = func(dir string) {
		resolved, err := filepath.EvalSymlinks(dir)
		if err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("skipping unresolvable directory")
			return
		}
		if visited[resolved] {
			log.Debug().Str("dir", dir).Msg("skipping already visited directory")
			return
		}
		visited[resolved] = true
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("skipping unreadable directory")
			return
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			d := entry
			if entry.Type()&fs.ModeSymlink != 0 {
				target, err := os.Stat(path)
				if err != nil {
					log.Debug().Err(err).Str("path", path).Msg("skipping broken link")
					continue
				}
				d = fs.FileInfoToDirEntry(target)
			}
			if !enter(path, d) {
				continue
			}
			if d.IsDir() {
				walk(path)
			}
		}
	}
	walk(root)
	return nil
}
