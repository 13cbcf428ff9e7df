package audio

import (
	"path/filepath"
	"strings"
)

// Format represents an audio file format
type Format string

const (
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatM4A     Format = "m4a"
	FormatWEBM    Format = "webm"
	FormatUnknown Format = "unknown"
)

// SupportedFormats can be handed to the transcriber as-is.
var SupportedFormats = map[Format]bool{
	FormatMP3: true,
	FormatM4A: true,
	FormatWAV: true,
}

// IsSupported reports whether f is transcribed without conversion.
func (f Format) IsSupported() bool {
	return SupportedFormats[f]
}

// Extension returns the lower-cased extension of path without the leading dot.
func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// BaseName returns the file name of path with directory and extension removed.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// IsConvertibleFormat reports whether path is a WEBM file that must be
// transcoded before transcription. The comparison is case-sensitive.
func IsConvertibleFormat(path string) bool {
	return strings.TrimPrefix(filepath.Ext(path), ".") == string(FormatWEBM)
}

// ReplaceExtension swaps the final extension of path for ext. The new
// extension may be given with or without a leading dot.
func ReplaceExtension(path, ext string) string {
	ext = "." + strings.TrimPrefix(ext, ".")
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
