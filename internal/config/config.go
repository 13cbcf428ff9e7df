package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Conversion
	MIDIOutputDir     string
	ScriptsDir        string
	PythonPath        string // empty selects scripts venv or python3
	FFmpegPath        string
	TranscribeTimeout time.Duration
	TranscodeTimeout  time.Duration

	// Server
	Port          int
	MaxUploadSize int64 // bytes

	// History
	DBPath string

	LogLevel string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		MIDIOutputDir:     envStr("TUNESCRIBE_MIDI_OUTPUT_DIR", "midi_output"),
		ScriptsDir:        envStr("TUNESCRIBE_SCRIPTS_DIR", "scripts/python"),
		PythonPath:        envStr("TUNESCRIBE_PYTHON", ""),
		FFmpegPath:        envStr("TUNESCRIBE_FFMPEG", "ffmpeg"),
		TranscribeTimeout: time.Duration(envInt("TUNESCRIBE_TRANSCRIBE_TIMEOUT", 180)) * time.Second,
		TranscodeTimeout:  time.Duration(envInt("TUNESCRIBE_TRANSCODE_TIMEOUT", 60)) * time.Second,

		Port:          envInt("TUNESCRIBE_PORT", 8080),
		MaxUploadSize: int64(envInt("TUNESCRIBE_MAX_UPLOAD_MB", 100)) * 1024 * 1024,

		DBPath: envStr("TUNESCRIBE_DB", "data/tunescribe.db"),

		LogLevel: envStr("TUNESCRIBE_LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
