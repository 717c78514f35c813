package scan

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, path, term string) ([]Match, FileStats, error) {
	t.Helper()
	var got []Match
	st, err := ScanFile(path, term, func(m Match) { got = append(got, m) })
	return got, st, err
}

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		term  string
		want  []Match
	}{
		{
			name:  "substring anywhere",
			input: "abc\nxabcx\ndef\n",
			term:  "abc",
			want:  []Match{{"f", 0, "abc"}, {"f", 1, "xabcx"}},
		},
		{
			name:  "no trailing newline",
			input: "one\ntwo needle",
			term:  "needle",
			want:  []Match{{"f", 1, "two needle"}},
		},
		{
			name:  "crlf stripped",
			input: "a needle\r\nb\r\n",
			term:  "needle",
			want:  []Match{{"f", 0, "a needle"}},
		},
		{
			name:  "case sensitive",
			input: "Needle\nneedle\n",
			term:  "needle",
			want:  []Match{{"f", 1, "needle"}},
		},
		{
			name:  "no regex semantics",
			input: "a.c\nabc\n",
			term:  "a.c",
			want:  []Match{{"f", 0, "a.c"}},
		},
		{
			name:  "empty lines are counted",
			input: "\n\nhit\n",
			term:  "hit",
			want:  []Match{{"f", 2, "hit"}},
		},
		{
			name:  "invalid utf-8 skipped but counted",
			input: "hit \xff\xfe\nhit\n",
			term:  "hit",
			want:  []Match{{"f", 1, "hit"}},
		},
		{
			name:  "empty input",
			input: "",
			term:  "x",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Lines(strings.NewReader(tt.input), "f", tt.term))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLines_LongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20) + "needle"
	got := slices.Collect(Lines(strings.NewReader("short\n"+long+"\n"), "f", "needle"))
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, long, got[0].Text)
}

func TestLines_StopsEarly(t *testing.T) {
	var n int
	for range Lines(strings.NewReader("a\na\na\n"), "f", "a") {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestScanFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"f.txt": "abc\nxabcx\ndef"})
	path := filepath.Join(root, "f.txt")

	got, st, err := collect(t, path, "abc")
	require.NoError(t, err)
	assert.Equal(t, []Match{
		{Path: path, Line: 0, Text: "abc"},
		{Path: path, Line: 1, Text: "xabcx"},
	}, got)
	assert.Equal(t, FileStats{Bytes: 13, Lines: 3, Matches: 2}, st)
}

func TestScanFile_Empty(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"empty": ""})

	got, st, err := collect(t, filepath.Join(root, "empty"), "abc")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, FileStats{}, st)
}

func TestScanFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")

	got, _, err := collect(t, path, "abc")
	require.ErrorIs(t, err, ErrFileUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
	assert.Empty(t, got)
}

func TestScanFile_Directory(t *testing.T) {
	got, _, err := collect(t, t.TempDir(), "abc")
	require.ErrorIs(t, err, ErrFileUnreadable)
	assert.ErrorIs(t, err, ErrNotRegular)
	assert.Empty(t, got)
}

func TestScanFile_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"secret": "abc"})
	path := filepath.Join(root, "secret")
	require.NoError(t, os.Chmod(path, 0o000))

	_, _, err := collect(t, path, "abc")
	require.ErrorIs(t, err, ErrFileUnreadable)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestLineReader_ReadErrorKeepsEarlierMatches(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("hit\nmiss\n"), iotest.ErrReader(boom))
	lr := &lineReader{br: bufio.NewReader(r)}

	got := slices.Collect(matches(lr.all(), "f", "hit"))
	assert.Equal(t, []Match{{"f", 0, "hit"}}, got)
	assert.ErrorIs(t, lr.err, boom)
	assert.Equal(t, uint64(9), lr.bytes)
}
