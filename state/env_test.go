package state

import (
	"archive/zip"
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"pager/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_Fields(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg = &config.Config{Version: 1}
	env.Rpt = &config.Report{}
	env.Log = zaptest.NewLogger(t)
	env.Overwrite = true

	again := EnvFromContext(context.WithValue(ContextWithEnv(context.Background()), envKey{}, env))
	if again.Cfg.Version != 1 || !again.Overwrite || again.Rpt == nil || again.Log == nil {
		t.Error("Environment fields not preserved")
	}
}

func TestLocalEnv_Logger(t *testing.T) {
	env := &LocalEnv{}
	if env.Logger("test") == nil {
		t.Fatal("Logger() returned nil without configured log")
	}
	env.Log = zaptest.NewLogger(t)
	env.Logger("test").Debug("named logger works")
}

func TestLocalEnv_StoreDump(t *testing.T) {
	env := &LocalEnv{}
	if env.Debugging() {
		t.Error("Debugging() without report")
	}
	// no report, nothing to do
	env.StoreDump("pagination", "doc.txt", []byte("dump"))

	rpt, err := (&config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}).Prepare()
	if err != nil {
		t.Fatal(err)
	}
	env.Rpt = rpt
	if !env.Debugging() {
		t.Error("Debugging() with report")
	}
	env.StoreDump("pagination", "doc.txt", []byte("dump"))
	if err := rpt.Close(); err != nil {
		t.Fatal(err)
	}
	r, err := zip.OpenReader(rpt.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	found := false
	for _, f := range r.File {
		found = found || f.Name == "pagination/doc.txt"
	}
	if !found {
		t.Error("dump not stored in report")
	}
}
