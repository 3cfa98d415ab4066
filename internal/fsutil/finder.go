// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"strings"
)

// FindFilesByExtension recursively searches root inside fsys for all files
// ending with the specified extension. Directories whose name ends with one
// of skipDirSuffixes are not entered. A missing root yields no files. The
// returned paths are slash separated and include root.
func FindFilesByExtension(fsys fs.FS, root string, extension string, skipDirSuffixes ...string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			for _, suffix := range skipDirSuffixes {
				if path != root && strings.HasSuffix(d.Name(), suffix) {
					return fs.SkipDir
				}
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
