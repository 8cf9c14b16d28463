// Package archive lets page markup be read directly from zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// EntryFunc is called for every matching entry, name is slash separated path
// inside archive.
type EntryFunc func(name string, r io.Reader) error

// Walk visits files in archive whose names start with prefix and satisfy
// match, in natural name order. Any entry with absolute path or ".."
// component makes Walk fail before anything is visited.
func Walk(archive, prefix string, match func(name string) bool, fn EntryFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path", f.Name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		if match != nil && !match(f.Name) {
			continue
		}
		files[f.Name] = f
		names = append(names, f.Name)
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		if err := visit(files[name], fn); err != nil {
			return err
		}
	}
	return nil
}

func visit(f *zip.File, fn EntryFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("zip entry %q: %w", f.Name, err)
	}
	defer rc.Close()
	return fn(f.Name, rc)
}

// Split breaks path like "dir/book.zip/part/ch1.html" into archive path and
// prefix inside of it. Ok is false when path has no ".zip" component.
func Split(p string) (archive, prefix string, ok bool) {
	slashed := strings.ReplaceAll(p, `\`, "/")
	lower := strings.ToLower(slashed)
	for i := 0; ; {
		j := strings.Index(lower[i:], ".zip")
		if j < 0 {
			return "", "", false
		}
		end := i + j + len(".zip")
		if end == len(lower) || lower[end] == '/' {
			return p[:end], strings.TrimPrefix(slashed[end:], "/"), true
		}
		i = end
	}
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
