package config

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Tracing.ServiceName != DefaultTracerName {
		t.Errorf("Tracing.ServiceName = %q, want %q", cfg.Tracing.ServiceName, DefaultTracerName)
	}
	if cfg.Metrics.Enabled || cfg.Tracing.Enabled {
		t.Error("metrics and tracing should be off by default")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !stderrors.Is(err, errors.New("E104")) {
		t.Errorf("expected E104 for missing config, got %v", err)
	}

	writeConfig(t, tmpDir, `{
  "log": {"level": "DEBUG", "format": "json"},
  "metrics": {"enabled": true, "namespace": "game"},
  "tracing": {"enabled": true, "tracerName": "ui"},
  "paths": {"scenarios": "testdata"}
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "game" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Tracing.TracerName != "ui" || cfg.Tracing.ServiceName != "ui" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
	if cfg.ScenariosPath() != filepath.Join(tmpDir, "testdata") {
		t.Errorf("ScenariosPath() = %q", cfg.ScenariosPath())
	}
}

func TestLoadSyntaxErrorHasLocation(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeConfig(t, tmpDir, "{\n  \"log\": {\n    \"level\": \"info\",\n  }\n}\n")

	_, err := LoadFile(path)
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Code != "E101" {
		t.Errorf("Code = %q, want E101", e.Code)
	}
	if e.Location == nil || e.Location.Line != 4 {
		t.Errorf("Location = %v, want line 4", e.Location)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", `{"log": {"level": "loud"}}`},
		{"bad format", `{"log": {"format": "xml"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.content)
			_, err := Load(tmpDir)
			if !stderrors.Is(err, errors.New("E102")) {
				t.Errorf("expected E102, got %v", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	if err := New().Save(); err == nil {
		t.Error("Save without a path should fail")
	}

	cfg := New()
	cfg.Metrics.Enabled = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q", cfg.Path())
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if !loaded.Metrics.Enabled {
		t.Error("metrics.enabled was not persisted")
	}
}

func TestSetLogLevel(t *testing.T) {
	cfg := New()
	if err := cfg.SetLogLevel("warn"); err != nil {
		t.Fatal(err)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v", cfg.SlogLevel())
	}
	if err := cfg.SetLogLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := New()
	cfg.Log.Format = "json"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error: %v", err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists mismatch")
	}
}

func TestPosition(t *testing.T) {
	line, col := position([]byte("ab\ncd\nef"), 4)
	if line != 2 || col != 2 {
		t.Errorf("position = %d:%d, want 2:2", line, col)
	}
}
