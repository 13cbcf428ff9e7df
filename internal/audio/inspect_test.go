package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, sampleRate, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, frames),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = (i % 100) * 100
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return path
}

func TestInspectWAV(t *testing.T) {
	path := writeTestWAV(t, 8000, 8000)

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Format != FormatWAV {
		t.Errorf("Format = %s, want wav", info.Format)
	}
	if info.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", info.SampleRate)
	}
	if info.Channels != 1 {
		t.Errorf("Channels = %d, want 1", info.Channels)
	}
	if info.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", info.BitDepth)
	}
	if info.Duration < 990*time.Millisecond || info.Duration > 1050*time.Millisecond {
		t.Errorf("Duration = %v, want ~1s", info.Duration)
	}
}

func TestInspectNonWAV(t *testing.T) {
	info, err := Inspect(writeFile(t, "a.mp3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00")))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Format != FormatMP3 {
		t.Errorf("Format = %s, want mp3", info.Format)
	}
	if info.SampleRate != 0 || info.Duration != 0 {
		t.Errorf("expected no WAV details, got %+v", info)
	}
}
