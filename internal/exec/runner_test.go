package exec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/dygy/tunescribe/internal/errors"
)

func TestRunCapturesOutput(t *testing.T) {
	r := NewRunner("sh", t.TempDir())

	result, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "out" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "out")
	}
	if strings.TrimSpace(result.Stderr) != "err" {
		t.Errorf("Stderr = %q, want %q", result.Stderr, "err")
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
}

func TestRunReportsExitCode(t *testing.T) {
	r := NewRunner("sh", t.TempDir())

	result, err := r.Run(context.Background(), "sh", "-c", "exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func TestRunScriptUsesScriptsDir(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hello.sh")
	if err := os.WriteFile(script, []byte("echo hello \"$1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// sh stands in for the Python interpreter
	r := NewRunner("sh", dir)
	result, err := r.RunScript(context.Background(), "hello.sh", "world")
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "hello world" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
}

func TestNewRunnerPrefersVenv(t *testing.T) {
	dir := t.TempDir()
	venv := filepath.Join(dir, ".venv", "bin")
	if err := os.MkdirAll(venv, 0755); err != nil {
		t.Fatal(err)
	}
	python := filepath.Join(venv, "python")
	if err := os.WriteFile(python, nil, 0755); err != nil {
		t.Fatal(err)
	}

	if got := NewRunner("", dir).PythonPath; got != python {
		t.Errorf("PythonPath = %q, want %q", got, python)
	}
	if got := NewRunner("", t.TempDir()).PythonPath; got != "python3" {
		t.Errorf("PythonPath = %q, want python3", got)
	}
}

func TestCheckBinaryMissing(t *testing.T) {
	r := NewRunner("sh", t.TempDir())
	err := r.CheckBinary("definitely-not-a-real-binary-xyz")
	if !errors.Is(err, apperrors.ErrToolNotInstalled) {
		t.Errorf("err = %v, want ErrToolNotInstalled", err)
	}
	if err := r.CheckBinary("sh"); err != nil {
		t.Errorf("CheckBinary(sh) = %v", err)
	}
}
