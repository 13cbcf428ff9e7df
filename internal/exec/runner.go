package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	apperrors "github.com/dygy/tunescribe/internal/errors"
)

// Result holds command execution output
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes external commands with context support
type Runner struct {
	PythonPath string
	ScriptsDir string
	FFmpegPath string
}

// NewRunner creates a new command runner
func NewRunner(pythonPath, scriptsDir string) *Runner {
	if pythonPath == "" {
		// Try to find Python in virtual environment first
		venvPython := filepath.Join(scriptsDir, ".venv", "bin", "python")
		if _, err := os.Stat(venvPython); err == nil {
			pythonPath = venvPython
		} else {
			pythonPath = "python3"
		}
	}
	return &Runner{
		PythonPath: pythonPath,
		ScriptsDir: scriptsDir,
		FFmpegPath: "ffmpeg",
	}
}

// WithFFmpeg overrides the ffmpeg binary used by RunFFmpeg
func (r *Runner) WithFFmpeg(path string) *Runner {
	if path != "" {
		r.FFmpegPath = path
	}
	return r
}

// RunScript executes a Python script with arguments
func (r *Runner) RunScript(ctx context.Context, script string, args ...string) (*Result, error) {
	scriptPath := filepath.Join(r.ScriptsDir, script)
	fullArgs := append([]string{scriptPath}, args...)
	return r.Run(ctx, r.PythonPath, fullArgs...)
}

// RunFFmpeg executes the configured ffmpeg binary
func (r *Runner) RunFFmpeg(ctx context.Context, args ...string) (*Result, error) {
	return r.Run(ctx, r.FFmpegPath, args...)
}

// Run executes an arbitrary command and captures output
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	result, err := run(exec.CommandContext(ctx, name, args...))
	if err != nil {
		return result, fmt.Errorf("command %s failed: %w", filepath.Base(name), err)
	}
	return result, nil
}

func run(cmd *exec.Cmd) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else if err != nil {
		result.ExitCode = -1
	}

	return result, err
}

// CheckPythonDependency verifies a Python package is installed
func (r *Runner) CheckPythonDependency(ctx context.Context, packageName string) error {
	result, err := r.Run(ctx, r.PythonPath, "-c", fmt.Sprintf("import %s", packageName))
	if err != nil {
		return fmt.Errorf("%w: python package %s: %s", apperrors.ErrToolNotInstalled, packageName, result.Stderr)
	}
	return nil
}

// CheckBinary verifies an executable can be found on PATH (or at the given path)
func (r *Runner) CheckBinary(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrToolNotInstalled, name)
	}
	return nil
}
