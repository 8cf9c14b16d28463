package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"

	"pager/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report, temporary file is used when destination
// could not be created.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{file: f, files: make(map[string]string), used: make(map[string]int)}, nil
}

// Report collects what is needed to troubleshoot a run: log files, active
// configuration and pagination dumps of processed documents. Nil report
// accepts everything and does nothing. Not safe for concurrent use.
type Report struct {
	file *os.File
	// archive name to path of a file on disk, read when report is closed
	files map[string]string
	dumps []dump
	used  map[string]int
}

type dump struct {
	name  string
	stamp time.Time
	data  []byte
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store attaches file on disk to the report. File is read when report is
// closed, later path for the same name replaces earlier one.
func (r *Report) Store(name, fname string) {
	if r == nil {
		return
	}
	if p, err := filepath.Abs(fname); err == nil {
		fname = p
	}
	r.files[name] = fname
}

// StoreData adds data to the report. Same document could be dumped several
// times, repeated names get sequence number before extension.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.used[name]++
	if n := r.used[name]; n > 1 {
		ext := path.Ext(name)
		name = fmt.Sprintf("%s.%d%s", strings.TrimSuffix(name, ext), n, ext)
	}
	r.dumps = append(r.dumps, dump{name: name, stamp: time.Now(), data: data})
}

// Close writes report archive. Files which disappeared are skipped.
func (r *Report) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	defer r.file.Close()

	arc := zip.NewWriter(r.file)
	var manifest bytes.Buffer
	for _, d := range r.dumps {
		fmt.Fprintf(&manifest, "dump\t%s\t%d bytes\n", d.name, len(d.data))
		if err := addEntry(arc, d.name, d.stamp, bytes.NewReader(d.data)); err != nil {
			return err
		}
	}
	names := slices.Collect(maps.Keys(r.files))
	sort.Sort(natural.StringSlice(names))
	for _, name := range names {
		fname := r.files[name]
		fi, err := os.Stat(fname)
		if err != nil || !fi.Mode().IsRegular() {
			fmt.Fprintf(&manifest, "missing\t%s\t%s\n", name, fname)
			continue
		}
		fmt.Fprintf(&manifest, "file\t%s\t%s\n", name, fname)
		if err := addFile(arc, name, fname, fi.ModTime()); err != nil {
			return err
		}
	}
	if err := addEntry(arc, "MANIFEST", time.Now(), &manifest); err != nil {
		return err
	}
	return arc.Close()
}

func addFile(arc *zip.Writer, name, fname string, stamp time.Time) error {
	f, err := os.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return addEntry(arc, name, stamp, f)
}

func addEntry(arc *zip.Writer, name string, stamp time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return fmt.Errorf("unable to add %s to report: %w", name, err)
	}
	_, err = io.Copy(w, src)
	return err
}
