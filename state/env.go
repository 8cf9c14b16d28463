// Package state holds program wide state shared by subcommands.
package state

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"

	"pager/config"
)

type envKey struct{}

// LocalEnv is created before any subcommand runs and carried in context.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// paginate: replace existing output files
	Overwrite bool
	// paginate: do not write results
	DryRun bool

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{start: time.Now()})
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Logger returns named logger, usable before logging is configured.
func (e *LocalEnv) Logger(name string) *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log.Named(name)
}

// Debugging reports whether debug report is being collected.
func (e *LocalEnv) Debugging() bool {
	return e.Rpt != nil
}

// StoreDump puts data into debug report under section/name, does nothing
// when no report was requested.
func (e *LocalEnv) StoreDump(section, name string, data []byte) {
	if e.Rpt == nil {
		return
	}
	e.Rpt.StoreData(path.Join(section, name), data)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
}
