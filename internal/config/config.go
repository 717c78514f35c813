package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Version is injected at build-time with
// -ldflags="-X github.com/a2y-d5l/findterm/internal/config.Version=$(git describe --tags --always --dirty)"
var Version = "dev"

// ErrInvalidArguments is returned when the positional arguments cannot
// form a Request, or when output flags contradict each other.
var ErrInvalidArguments = errors.New("invalid arguments")

// Request is the resolved search: where to look and what to look for.
type Request struct {
	Root string
	Term string
}

// Resolve builds a Request from a full argument vector, where args[0] is
// the program invocation. Values are taken as-is.
func Resolve(args []string) (Request, error) {
	if len(args) < 3 {
		return Request{}, fmt.Errorf("%w: not enough params", ErrInvalidArguments)
	}
	if args[1] == "" {
		return Request{}, fmt.Errorf("%w: no path provided", ErrInvalidArguments)
	}
	if args[2] == "" {
		return Request{}, fmt.Errorf("%w: no search criteria provided", ErrInvalidArguments)
	}
	return Request{Root: args[1], Term: args[2]}, nil
}

// Format selects how matches are written to stdout.
type Format string

const (
	FormatText  Format = "text"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Options are the raw flag values, before validation.
type Options struct {
	Format       string
	NullTerm     bool
	Quiet        bool
	NoColor      bool
	Stats        bool
	EmptyIsError bool
}

// AddFlags registers the output and policy flags on fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Format, "format", string(FormatText), "output format: text, jsonl or yaml")
	fs.BoolVarP(&o.NullTerm, "null", "z", false, "NUL-terminate each text record (for xargs -0)")
	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "suppress the search announcement on stdout")
	fs.BoolVar(&o.NoColor, "no-color", false, "disable colored output")
	fs.BoolVar(&o.Stats, "stats", false, "print a summary line to stderr when done")
	fs.BoolVar(&o.EmptyIsError, "empty-is-error", false, "treat a root directory without files as unreadable")
}

// Config captures everything a run needs.
type Config struct {
	Request
	Format       Format
	NullTerm     bool
	Quiet        bool
	NoColor      bool
	Stats        bool
	EmptyIsError bool
}

// New resolves args and validates opts into a Config.
func New(args []string, opts Options) (*Config, error) {
	req, err := Resolve(args)
	if err != nil {
		return nil, err
	}

	format := Format(strings.ToLower(strings.TrimSpace(opts.Format)))
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatJSONL, FormatYAML:
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidArguments, opts.Format)
	}

	// -z only makes sense for plain text records
	if opts.NullTerm && format != FormatText {
		return nil, fmt.Errorf("%w: --null cannot be combined with --format %s", ErrInvalidArguments, format)
	}

	return &Config{
		Request:      req,
		Format:       format,
		NullTerm:     opts.NullTerm,
		Quiet:        opts.Quiet,
		NoColor:      opts.NoColor,
		Stats:        opts.Stats,
		EmptyIsError: opts.EmptyIsError,
	}, nil
}
