package errors

import (
	"errors"
	"testing"
)

func TestProcessError(t *testing.T) {
	cause := errors.New("exit status 1")

	err := NewProcessError("ffmpeg", "transcode", 1, "Invalid data found", cause)
	if got, want := err.Error(), "ffmpeg failed at transcode (exit 1): Invalid data found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("ProcessError does not unwrap to its cause")
	}

	quiet := NewProcessError("basic-pitch", "transcription", 2, "", nil)
	if got, want := quiet.Error(), "basic-pitch failed at transcription (exit 2)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
