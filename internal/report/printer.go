// Package report renders search progress, matches and diagnostics.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/a2y-d5l/findterm/internal/config"
)

// Record is a single match as it is written out.
type Record struct {
	Path string `json:"path" yaml:"path"`
	Line int    `json:"line" yaml:"line"`
	Text string `json:"text" yaml:"text"`
}

// Totals feed the --stats line.
type Totals struct {
	Files      int
	Unreadable int
	Matches    int
	Bytes      uint64
}

// Printer writes to stdout and stderr in the format requested by cfg.
type Printer struct {
	out, errOut io.Writer
	cfg         *config.Config

	path, lineNo *color.Color

	jsonEnc *json.Encoder
	yamlEnc *yaml.Encoder
}

// New returns a Printer. Color is applied only when stdout is a terminal
// and neither --no-color nor NO_COLOR are set.
func New(out, errOut io.Writer, cfg *config.Config) *Printer {
	p := &Printer{
		out:    out,
		errOut: errOut,
		cfg:    cfg,
		path:   color.New(color.FgYellow),
		lineNo: color.New(color.FgGreen),
	}
	if cfg.NoColor {
		for _, c := range []*color.Color{p.path, p.lineNo} {
			c.DisableColor()
		}
	}
	switch cfg.Format {
	case config.FormatJSONL:
		p.jsonEnc = json.NewEncoder(out)
		p.jsonEnc.SetEscapeHTML(false)
	case config.FormatYAML:
		p.yamlEnc = yaml.NewEncoder(out)
	}
	return p
}

// Announce echoes the resolved request before searching starts.
func (p *Printer) Announce(req config.Request) error {
	if p.cfg.Quiet || p.cfg.Format != config.FormatText {
		return nil
	}
	if _, err := fmt.Fprintf(p.out, "Searching in: %s\n", p.path.Sprint(req.Root)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.out, "Searching for: %s\n", req.Term)
	return err
}

// Match writes one record.
func (p *Printer) Match(r Record) error {
	switch {
	case p.jsonEnc != nil:
		return p.jsonEnc.Encode(r)
	case p.yamlEnc != nil:
		return p.yamlEnc.Encode(r)
	}

	end := "\n"
	if p.cfg.NullTerm {
		end = "\x00"
	}
	_, err := fmt.Fprintf(p.out, "File %s matches line #%s: %s%s",
		r.Path, p.lineNo.Sprint(strconv.Itoa(r.Line)), r.Text, end)
	return err
}

// Unreadable reports a file that could not be looked into.
func (p *Printer) Unreadable(path string) {
	fmt.Fprintf(p.errOut, "Can't look into file %s\n", path)
}

// UnreadableDir reports a nested directory that could not be listed.
func (p *Printer) UnreadableDir(path string) {
	fmt.Fprintf(p.errOut, "Can't look into directory %s\n", path)
}

// Summary writes the --stats line to stderr.
func (p *Printer) Summary(t Totals) {
	if !p.cfg.Stats {
		return
	}
	fmt.Fprintf(p.errOut, "Scanned %s %s (%s), %s unreadable, %s %s\n",
		humanize.Comma(int64(t.Files)), plural(t.Files, "file", "files"),
		humanize.Bytes(t.Bytes),
		humanize.Comma(int64(t.Unreadable)),
		humanize.Comma(int64(t.Matches)), plural(t.Matches, "match", "matches"))
}

// Close flushes encoders that buffer output.
func (p *Printer) Close() error {
	if p.yamlEnc != nil {
		return p.yamlEnc.Close()
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
