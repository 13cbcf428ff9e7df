// Package conversion validates incoming audio files and turns them into MIDI
// files on disk.
package conversion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/dygy/tunescribe/internal/audio"
	apperrors "github.com/dygy/tunescribe/internal/errors"
	"github.com/dygy/tunescribe/internal/midi"
)

// Transcoder turns a WEBM recording into an MP3 file.
type Transcoder interface {
	ConvertWebmToMp3(ctx context.Context, src, dst string) error
}

// Predictor runs the transcription model on an audio file.
type Predictor interface {
	Predict(ctx context.Context, audioPath string) (*midi.Prediction, error)
}

// Result is the outcome of validation or conversion. Exactly one of Path
// and Reason is set.
type Result struct {
	Path   string // validated audio path, or written MIDI path
	Reason string // why the input was rejected
	Notes  int    // note events written; conversion only
}

// OK reports whether the input was accepted.
func (r Result) OK() bool {
	return r.Reason == ""
}

// Err returns an error wrapping ErrUnsupportedFormat for rejected input.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, r.Reason)
}

// Gateway validates audio files and dispatches them to the transcriber.
// It keeps no state between calls.
type Gateway struct {
	transcoder Transcoder
	predictor  Predictor
	outputDir  string
	log        logrus.FieldLogger
}

// New creates a gateway writing MIDI files into outputDir.
func New(transcoder Transcoder, predictor Predictor, outputDir string, log logrus.FieldLogger) *Gateway {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		transcoder: transcoder,
		predictor:  predictor,
		outputDir:  outputDir,
		log:        log,
	}
}

// OutputDir returns the directory MIDI files are written to.
func (g *Gateway) OutputDir() string {
	return g.outputDir
}

// OutputPath returns where the MIDI file for path is written.
func (g *Gateway) OutputPath(path string) string {
	return filepath.Join(g.outputDir, audio.BaseName(path)+".mid")
}

// ValidateAudioFile returns a path the transcriber can read. Supported
// formats pass through untouched; WEBM is transcoded to a sibling MP3.
// Transcoder failures are returned as-is.
func (g *Gateway) ValidateAudioFile(ctx context.Context, path string) (Result, error) {
	if audio.Format(audio.Extension(path)).IsSupported() {
		return Result{Path: path}, nil
	}

	if audio.IsConvertibleFormat(path) {
		mp3Path := audio.ReplaceExtension(path, string(audio.FormatMP3))
		g.log.WithFields(logrus.Fields{"src": path, "dst": mp3Path}).Debug("transcoding webm")
		if err := g.transcoder.ConvertWebmToMp3(ctx, path, mp3Path); err != nil {
			return Result{}, err
		}
		return Result{Path: mp3Path}, nil
	}

	reason := fmt.Sprintf("Unsupported audio format: %q", filepath.Ext(path))
	g.log.WithField("path", path).Warn(reason)
	return Result{Reason: reason}, nil
}

// ConvertToMidi transcribes path and writes <output dir>/<base name>.mid.
// Rejected input returns a Result with Reason set and never reaches the
// predictor. An existing file at the output path is overwritten.
func (g *Gateway) ConvertToMidi(ctx context.Context, path string) (Result, error) {
	validated, err := g.ValidateAudioFile(ctx, path)
	if err != nil || !validated.OK() {
		return validated, err
	}

	prediction, err := g.predictor.Predict(ctx, validated.Path)
	if err != nil {
		return Result{}, err
	}

	outputPath := g.OutputPath(path)
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return Result{}, fmt.Errorf("create midi output dir: %w", err)
	}
	if err := prediction.Artifact.WriteFile(outputPath); err != nil {
		return Result{}, err
	}

	g.log.WithFields(logrus.Fields{
		"input": path,
		"midi":  outputPath,
		"notes": len(prediction.NoteEvents),
	}).Info("converted to midi")

	return Result{Path: outputPath, Notes: len(prediction.NoteEvents)}, nil
}
