// Package paginate implements "paginate" command: page markup files are
// loaded, paginated until every page settles and written back.
package paginate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pager/archive"
	"pager/editor"
	"pager/layout"
	"pager/loader"
	"pager/schedule"
	"pager/state"
)

var sourceExt = []string{".html", ".htm", ".xhtml"}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger("paginate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	env.Overwrite = cmd.Bool("overwrite")
	env.DryRun = cmd.Bool("dry-run")
	if err := applyFlags(cmd, &env.Cfg.Pagination); err != nil {
		return err
	}

	log.Info("Processing starting",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Stringer("search", env.Cfg.Pagination.Search),
		zap.Int("max passes", env.Cfg.Pagination.MaxPasses),
		zap.Bool("dry run", env.DryRun))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, env, log)
}

// process handles single file, all page markup files under directory or
// inside of zip archive.
func process(ctx context.Context, src, dst string, env *state.LocalEnv, log *zap.Logger) error {
	if arch, prefix, ok := archive.Split(src); ok {
		if fi, err := os.Stat(arch); err == nil && !fi.IsDir() {
			return processArchive(ctx, arch, prefix, dst, env, log)
		}
	}

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found: %w", err)
	}
	if !fi.IsDir() {
		if err := os.MkdirAll(dst, 0755); err != nil {
			return fmt.Errorf("unable to create destination: %w", err)
		}
		return processFile(ctx, src, filepath.Base(src), dst, env, log)
	}

	files, err := sources(src)
	if err != nil {
		return fmt.Errorf("unable to process directory: %w", err)
	}
	if len(files) == 0 {
		log.Debug("Nothing to process", zap.String("dir", src))
		return nil
	}
	var errs error
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := filepath.Join(dst, filepath.Dir(rel))
		if err := os.MkdirAll(out, 0755); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to create destination: %w", err))
			continue
		}
		if err := processFile(ctx, filepath.Join(src, rel), rel, out, env, log); err != nil {
			log.Error("Unable to process file", zap.String("file", rel), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func processArchive(ctx context.Context, arch, prefix, dst string, env *state.LocalEnv, log *zap.Logger) error {
	var errs error
	err := archive.Walk(arch, prefix, isSource, func(name string, r io.Reader) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := filepath.Join(dst, filepath.FromSlash(path.Dir(name)))
		if err := os.MkdirAll(out, 0755); err != nil {
			return fmt.Errorf("unable to create destination: %w", err)
		}
		if err := processDoc(ctx, r, name, out, env, log); err != nil {
			log.Error("Unable to process archive entry", zap.String("archive", arch), zap.String("entry", name), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
		return nil
	})
	if err != nil {
		return multierr.Append(errs, fmt.Errorf("unable to process archive: %w", err))
	}
	return errs
}

// sources returns page markup files under dir relative to it, in natural
// order.
func sources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !isSource(p) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	sort.Sort(natural.StringSlice(files))
	return files, err
}

func isSource(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range sourceExt {
		if ext == e {
			return true
		}
	}
	return false
}

func processFile(ctx context.Context, src, name, dst string, env *state.LocalEnv, log *zap.Logger) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open source: %w", err)
	}
	defer f.Close()
	return processDoc(ctx, f, name, dst, env, log)
}

// processDoc paginates single document and writes result to dst directory.
func processDoc(ctx context.Context, r io.Reader, name, dst string, env *state.LocalEnv, log *zap.Logger) error {
	log = log.With(zap.String("file", name))

	outPath := buildOutputPath(name, dst, env)
	if _, err := os.Stat(outPath); err == nil && !env.Overwrite && !env.DryRun {
		return fmt.Errorf("output file already exists: %s", outPath)
	}

	doc, err := loader.Read(r, log)
	if err != nil {
		return err
	}
	oracle := layout.NewMonospace(&env.Cfg.Layout, log)
	s, err := editor.New(doc, oracle, &env.Cfg.Pagination, log)
	if err != nil {
		return err
	}

	start := time.Now()
	passes, err := s.Paginate(ctx)
	switch {
	case errors.Is(err, schedule.ErrBudget):
		log.Warn("Document did not settle, writing it as is", zap.Error(err))
	case err != nil:
		return fmt.Errorf("unable to paginate: %w", err)
	}
	stats := s.Stats()
	log.Info("Paginated",
		zap.Int("pages", stats.Pages),
		zap.Int("passes", passes),
		zap.Int("transforms", stats.Transforms),
		zap.Duration("elapsed", time.Since(start)))

	if env.Debugging() {
		env.StoreDump("pagination", filepath.ToSlash(name)+".txt", dump(s))
	}
	if env.DryRun {
		return nil
	}
	if err := loader.WriteFile(outPath, s.Doc(), env.Cfg.Output.Indent); err != nil {
		return err
	}
	log.Debug("Written", zap.String("output", outPath))
	return nil
}
