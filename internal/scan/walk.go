package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrDirectoryUnreadable means the search root could not be listed.
	ErrDirectoryUnreadable = errors.New("directory unreadable")
	// ErrNoFiles is returned under WalkOptions.EmptyIsError when the root
	// holds no files. It wraps ErrDirectoryUnreadable.
	ErrNoFiles = fmt.Errorf("%w: no files found", ErrDirectoryUnreadable)
	// ErrNotRegular is passed to WalkOptions.OnError for FIFOs, sockets and
	// devices, which are left out of the result.
	ErrNotRegular = errors.New("not a regular file")
)

// WalkOptions tune Walk. The zero value is the canonical behaviour.
type WalkOptions struct {
	// EmptyIsError turns an empty result into ErrNoFiles.
	EmptyIsError bool
	// OnError is told about nested directories that could not be listed and
	// about special files (ErrNotRegular). Both are skipped; nil means skip
	// silently.
	OnError func(path string, err error)
}

type pending struct {
	path string
	mode fs.FileMode
}

// Walk returns the path of every regular file below root, depth-first in
// lexical order. Symlinks are reported as files and never followed.
func Walk(root string, opts WalkOptions) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnreadable, err)
	}

	// Work-list instead of recursion; children are pushed in reverse so
	// they pop in name order.
	var stack []pending
	push := func(dir string, entries []os.DirEntry) {
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			stack = append(stack, pending{path: filepath.Join(dir, e.Name()), mode: e.Type()})
		}
	}
	push(root, entries)

	var files []string
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case next.mode.IsRegular(), next.mode&fs.ModeSymlink != 0:
			files = append(files, next.path)
			continue
		case !next.mode.IsDir():
			// opening a FIFO without a writer blocks forever
			if opts.OnError != nil {
				opts.OnError(next.path, fmt.Errorf("%w: %s", ErrNotRegular, next.mode.Type()))
			}
			continue
		}
		children, err := os.ReadDir(next.path)
		if err != nil {
			if opts.OnError != nil {
				opts.OnError(next.path, err)
			}
			continue
		}
		push(next.path, children)
	}

	if len(files) == 0 && opts.EmptyIsError {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, root)
	}
	return files, nil
}
