package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"song.mp3":               "song.mp3",
		"../../etc/passwd":       "passwd",
		`C:\Users\me\take 1.wav`: "take_1.wav",
		"my song (live).webm":    "my_song__live_.webm",
		".hidden.wav":            "hidden.wav",
		"":                       "upload",
		"..":                     "upload",
	}
	for in, want := range tests {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveAndCleanup(t *testing.T) {
	ws, err := Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	path, err := ws.Save(strings.NewReader("ID3"), "../take.mp3")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != ws.Dir {
		t.Errorf("saved outside workspace: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "ID3" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}

	copied, err := ws.CopyFile(path, "copy.mp3")
	if err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	if _, err := os.Stat(copied); err != nil {
		t.Errorf("copy missing: %v", err)
	}

	if err := ws.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Errorf("workspace still exists after Cleanup")
	}
}
