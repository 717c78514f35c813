package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrFileUnreadable is returned by ScanFile when a file cannot be opened or
// read to the end. It only concerns that one file.
var ErrFileUnreadable = errors.New("file unreadable")

// Match is one line containing the search term.
type Match struct {
	Path string
	Line int // zero-based
	Text string
}

// FileStats describes what ScanFile read.
type FileStats struct {
	Bytes   uint64
	Lines   int
	Matches int
}

// lineReader yields lines without their terminator. After the sequence
// ends, err holds the first read error other than io.EOF.
type lineReader struct {
	br    *bufio.Reader
	bytes uint64
	err   error
}

func (lr *lineReader) all() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for n := 0; ; n++ {
			line, err := lr.br.ReadString('\n')
			lr.bytes += uint64(len(line))
			if err != nil && !errors.Is(err, io.EOF) {
				lr.err = err
				return
			}
			if line == "" && err != nil {
				return
			}
			if trimmed, ok := strings.CutSuffix(line, "\n"); ok {
				line = strings.TrimSuffix(trimmed, "\r")
			}
			if !yield(n, line) || err != nil {
				return
			}
		}
	}
}

// matches filters lines down to those containing term. Lines that are not
// valid UTF-8 are dropped but keep their number.
func matches(lines iter.Seq2[int, string], path, term string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for n, line := range lines {
			if !utf8.ValidString(line) {
				continue
			}
			if strings.Contains(line, term) {
				if !yield(Match{Path: path, Line: n, Text: line}) {
					return
				}
			}
		}
	}
}

// Lines lazily yields the matches for term in r, in line order. Read errors
// end the sequence early.
func Lines(r io.Reader, path, term string) iter.Seq[Match] {
	lr := &lineReader{br: bufio.NewReader(r)}
	return matches(lr.all(), path, term)
}

// ScanFile opens path and calls emit for every line containing term.
// Open and read failures are wrapped in ErrFileUnreadable; matches emitted
// before a read failure stand.
func ScanFile(path, term string, emit func(Match)) (FileStats, error) {
	// Stat follows symlinks, so a link to a FIFO is refused before Open can block.
	info, err := os.Stat(path)
	if err != nil {
		return FileStats{}, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return FileStats{}, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, ErrNotRegular)
	}

	f, err := os.Open(path)
	if err != nil {
		return FileStats{}, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	defer f.Close()

	var st FileStats
	lr := &lineReader{br: bufio.NewReader(f)}
	counted := func(yield func(int, string) bool) {
		for n, line := range lr.all() {
			st.Lines++
			if !yield(n, line) {
				return
			}
		}
	}
	for m := range matches(counted, path, term) {
		st.Matches++
		emit(m)
	}
	st.Bytes = lr.bytes

	if lr.err != nil {
		return st, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, lr.err)
	}
	return st, nil
}
