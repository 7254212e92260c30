package util

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ReadPathList reads a newline separated list of relative file paths.
//
// Arguments:
// - path: Path to the list file.
//
// Returns:
// - []string: One entry per non-blank line, in file order, trimmed of
// surrounding whitespace (including a trailing \r).
// - error: Error if the file cannot be opened or read.
func ReadPathList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return entries, nil
}

// BaseName returns the last element of a slash separated list entry.
// List files always use forward slashes, whatever the host OS.
func BaseName(entry string) string {
	if i := strings.LastIndex(entry, "/"); i >= 0 {
		return entry[i+1:]
	}
	return entry
}

// TrimExt strips the extension from a file name.
func TrimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
