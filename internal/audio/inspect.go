package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"

	apperrors "github.com/dygy/tunescribe/internal/errors"
)

// Info describes an audio file on disk
type Info struct {
	Path   string
	Format Format
	Size   int64

	// WAV only; zero for other formats
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Inspect validates path and reads what header details are available.
func Inspect(path string) (*Info, error) {
	format, err := ValidateInput(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	info := &Info{Path: path, Format: format, Size: stat.Size()}
	if format != FormatWAV {
		return info, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV header", apperrors.ErrCorruptedFile)
	}

	duration, err := decoder.Duration()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptedFile, err)
	}

	info.SampleRate = int(decoder.SampleRate)
	info.Channels = int(decoder.NumChans)
	info.BitDepth = int(decoder.BitDepth)
	info.Duration = duration
	return info, nil
}
