package midi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	apperrors "github.com/dygy/tunescribe/internal/errors"
	"github.com/dygy/tunescribe/internal/exec"
)

// Prediction is what the transcription model produced for one file.
type Prediction struct {
	RawOutput  json.RawMessage
	Artifact   Artifact
	NoteEvents []Note
}

// transcription is the JSON document written by transcribe.py
type transcription struct {
	ModelOutput json.RawMessage `json:"model_output"`
	Notes       []Note          `json:"notes"`
}

// Transcriber converts audio to MIDI using Basic Pitch
type Transcriber struct {
	runner  *exec.Runner
	Timeout time.Duration // zero means no limit beyond the caller's context
}

// NewTranscriber creates a new MIDI transcriber
func NewTranscriber(runner *exec.Runner) *Transcriber {
	return &Transcriber{runner: runner}
}

// Predict runs the Basic Pitch model on audioPath.
func (t *Transcriber) Predict(ctx context.Context, audioPath string) (*Prediction, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	out, err := os.CreateTemp("", "tunescribe-notes-*.json")
	if err != nil {
		return nil, fmt.Errorf("create notes file: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	result, err := t.runner.RunScript(ctx, "transcribe.py", audioPath, outPath)
	if err != nil {
		return nil, apperrors.NewProcessError("basic-pitch", "transcription", result.ExitCode, result.Stderr, err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read transcription results: %w", err)
	}

	var parsed transcription
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse transcription results: %w", err)
	}

	notes := Clean(parsed.Notes).Notes
	score, err := NewScore(notes, DefaultTempo)
	if err != nil {
		return nil, err
	}

	return &Prediction{
		RawOutput:  parsed.ModelOutput,
		Artifact:   score,
		NoteEvents: notes,
	}, nil
}
