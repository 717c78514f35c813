package main

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/a2y-d5l/findterm/internal/config"
	"github.com/a2y-d5l/findterm/internal/scan"
)

func main() {
	err := newRootCommand().Execute()
	os.Exit(exitCode(os.Stderr, err))
}

// exitCode reports err on stderr and maps it to the process status.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	color.New(color.FgRed).Fprintln(stderr, err)

	switch {
	case errors.Is(err, config.ErrInvalidArguments),
		errors.Is(err, scan.ErrDirectoryUnreadable):
		// User-supplied arguments or root are unusable → exit 1
		return 1
	default:
		// Internal failure → exit 2
		return 2
	}
}
