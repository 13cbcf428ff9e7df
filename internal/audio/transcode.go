package audio

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/dygy/tunescribe/internal/errors"
	"github.com/dygy/tunescribe/internal/exec"
)

// FFmpegTranscoder converts browser recordings into a format the
// transcriber accepts.
type FFmpegTranscoder struct {
	runner  *exec.Runner
	Timeout time.Duration // zero means no limit beyond the caller's context
}

// NewFFmpegTranscoder creates a transcoder backed by runner's ffmpeg binary
func NewFFmpegTranscoder(runner *exec.Runner) *FFmpegTranscoder {
	return &FFmpegTranscoder{runner: runner}
}

// ConvertWebmToMp3 writes an MP3 rendition of src to dst, overwriting dst.
func (t *FFmpegTranscoder) ConvertWebmToMp3(ctx context.Context, src, dst string) error {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	result, err := t.runner.RunFFmpeg(ctx,
		"-y",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-codec:a", "libmp3lame",
		"-q:a", "2",
		dst,
	)
	if err != nil {
		if result == nil {
			return fmt.Errorf("transcode %s: %w", src, err)
		}
		return apperrors.NewProcessError("ffmpeg", "transcode", result.ExitCode, result.Stderr, err)
	}
	return nil
}
