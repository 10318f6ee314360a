package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// expandFiles resolves file arguments. Arguments containing glob
// metacharacters are expanded with doublestar ("**" crosses directories);
// plain paths are kept as given so a missing file is reported when read.
// Paths matching any exclude pattern are dropped. The result has no
// duplicates and keeps argument order.
func expandFiles(args, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) error {
		for _, pattern := range exclude {
			matched, err := doublestar.PathMatch(pattern, path)
			if err != nil {
				return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
			}
			if matched {
				return nil
			}
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			if err := add(arg); err != nil {
				return nil, err
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}
	return files, nil
}

func hasMeta(path string) bool {
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// readInput reads r fully. With transcode, a leading UTF-8 or UTF-16 byte
// order mark is removed and UTF-16 input is decoded to UTF-8; input without
// a BOM passes through unchanged.
func readInput(r io.Reader, transcode bool) ([]byte, error) {
	if transcode {
		r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	}
	return io.ReadAll(r)
}

// readFile reads path, or stdin when path is "-".
func readFile(path string, stdin io.Reader, transcode bool) ([]byte, error) {
	if path == "-" {
		return readInput(stdin, transcode)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readInput(f, transcode)
}

// writeFileIfChanged replaces path with data unless it already holds it,
// keeping the file mode. It reports whether the file was written.
func writeFileIfChanged(path string, data []byte) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	old, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if bytes.Equal(old, data) {
		return false, nil
	}
	return true, os.WriteFile(path, data, info.Mode().Perm())
}
