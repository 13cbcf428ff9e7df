package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	apperrors "github.com/dygy/tunescribe/internal/errors"
)

const (
	MaxFileSize = 100 * 1024 * 1024 // 100MB
)

// Magic bytes for audio format detection
var (
	riffMagic = []byte("RIFF")
	waveMagic = []byte("WAVE")
	id3Magic  = []byte("ID3") // MP3 with ID3 tag
	ftypMagic = []byte("ftyp") // MP4/M4A container, at offset 4
	ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}
)

// ValidateInput checks if the input file is valid for processing
func ValidateInput(path string) (Format, error) {
	// Check file exists
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return FormatUnknown, fmt.Errorf("%w: %s", apperrors.ErrFileNotFound, path)
	}
	if err != nil {
		return FormatUnknown, fmt.Errorf("stat file: %w", err)
	}

	// Check file size
	if info.Size() > MaxFileSize {
		return FormatUnknown, fmt.Errorf("%w: maximum size is 100MB", apperrors.ErrFileTooLarge)
	}

	format, err := Sniff(path)
	if err != nil {
		return FormatUnknown, err
	}

	if format == FormatUnknown {
		return FormatUnknown, fmt.Errorf("%w: please provide a WAV, MP3, M4A or WEBM file", apperrors.ErrUnsupportedFormat)
	}

	return format, nil
}

// Sniff checks file magic bytes to determine audio format
func Sniff(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("%w: %v", apperrors.ErrCorruptedFile, err)
	}
	defer f.Close()

	// Read first 12 bytes for magic detection
	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("%w: could not read file header", apperrors.ErrCorruptedFile)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("%w: could not read file header", apperrors.ErrCorruptedFile)
	}

	if format := detectFormat(header[:n]); format != FormatUnknown {
		return format, nil
	}

	// Fallback: check extension
	switch ext := Format(Extension(path)); ext {
	case FormatWAV, FormatMP3, FormatM4A, FormatWEBM:
		return ext, nil
	}

	return FormatUnknown, nil
}

func detectFormat(header []byte) Format {
	switch {
	// RIFF....WAVE
	case bytes.HasPrefix(header, riffMagic) && len(header) >= 12 && bytes.Equal(header[8:12], waveMagic):
		return FormatWAV
	case bytes.HasPrefix(header, id3Magic):
		return FormatMP3
	// MPEG frame sync
	case header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		return FormatMP3
	case len(header) >= 8 && bytes.Equal(header[4:8], ftypMagic):
		return FormatM4A
	case bytes.HasPrefix(header, ebmlMagic):
		return FormatWEBM
	}
	return FormatUnknown
}
