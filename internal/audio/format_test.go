package audio

import "testing"

func TestIsConvertibleFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"./audio_sample/sample_webm.webm", true},
		{"recording.webm", true},
		{"./audio_sample/sample_mp3.mp3", false},
		{"sample.wav", false},
		{"sample.m4a", false},
		{"sample.flac", false},
		{"SAMPLE.WEBM", false},
		{"webm", false},
		{"dir.webm/file.mp3", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsConvertibleFormat(tt.path); got != tt.want {
				t.Errorf("IsConvertibleFormat(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestReplaceExtension(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"folder/file.webm", "mp3", "folder/file.mp3"},
		{"folder/file.webm", ".m4a", "folder/file.m4a"},
		{"a.b/c.d/file.webm", "mp3", "a.b/c.d/file.mp3"},
		{"./server/sample_webm.webm", "mp3", "./server/sample_webm.mp3"},
		{"noext", "wav", "noext.wav"},
	}

	for _, tt := range tests {
		if got := ReplaceExtension(tt.path, tt.ext); got != tt.want {
			t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}

func TestExtensionAndBaseName(t *testing.T) {
	if got := Extension("dir/Song.MP3"); got != "mp3" {
		t.Errorf("Extension = %q, want mp3", got)
	}
	if got := Extension("dir/song"); got != "" {
		t.Errorf("Extension = %q, want empty", got)
	}
	if got := BaseName("./server/app/sample_mp3.mp3"); got != "sample_mp3" {
		t.Errorf("BaseName = %q, want sample_mp3", got)
	}
	if got := BaseName("take.2.wav"); got != "take.2" {
		t.Errorf("BaseName = %q, want take.2", got)
	}
}

func TestSupportedFormats(t *testing.T) {
	for _, f := range []Format{FormatMP3, FormatM4A, FormatWAV} {
		if !f.IsSupported() {
			t.Errorf("%s should be supported", f)
		}
	}
	for _, f := range []Format{FormatWEBM, FormatUnknown, Format("flac")} {
		if f.IsSupported() {
			t.Errorf("%s should not be supported", f)
		}
	}
}
