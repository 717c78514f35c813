package scan

import (
	"errors"
	"io"

	"github.com/a2y-d5l/findterm/internal/config"
	"github.com/a2y-d5l/findterm/internal/report"
)

// Summary counts what a Run went through.
type Summary struct {
	Files      int
	Unreadable int
	Matches    int
	Bytes      uint64
}

// Run performs the search and writes matches to out, diagnostics to errOut.
// Only a root that cannot be listed, or a failed write to out, is an error;
// files that cannot be read are reported and skipped.
func Run(out, errOut io.Writer, cfg *config.Config) (Summary, error) {
	p := report.New(out, errOut, cfg)
	var sum Summary

	if err := p.Announce(cfg.Request); err != nil {
		return sum, err
	}

	files, err := Walk(cfg.Root, WalkOptions{
		EmptyIsError: cfg.EmptyIsError,
		OnError: func(path string, err error) {
			sum.Unreadable++
			if errors.Is(err, ErrNotRegular) {
				p.Unreadable(path)
				return
			}
			p.UnreadableDir(path)
		},
	})
	if err != nil {
		return sum, err
	}

	var writeErr error
	for _, path := range files {
		st, err := ScanFile(path, cfg.Term, func(m Match) {
			if writeErr != nil {
				return
			}
			writeErr = p.Match(report.Record{Path: m.Path, Line: m.Line, Text: m.Text})
		})
		sum.Files++
		sum.Matches += st.Matches
		sum.Bytes += st.Bytes
		if writeErr != nil {
			return sum, writeErr
		}
		if err != nil {
			if !errors.Is(err, ErrFileUnreadable) {
				return sum, err
			}
			sum.Unreadable++
			p.Unreadable(path)
		}
	}

	if err := p.Close(); err != nil {
		return sum, err
	}
	p.Summary(report.Totals{
		Files:      sum.Files,
		Unreadable: sum.Unreadable,
		Matches:    sum.Matches,
		Bytes:      sum.Bytes,
	})
	return sum, nil
}
