package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/dygy/tunescribe/internal/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Record(ctx, "sample_mp3.mp3", "midi_output/sample_mp3.mid", 42)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Record returned empty ID")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Source != rec.Source || got.MIDIPath != rec.MIDIPath || got.Notes != 42 {
		t.Errorf("Get = %+v, want %+v", got, rec)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a.wav", "b.wav", "c.wav"} {
		if _, err := s.Record(ctx, name, name+".mid", 1); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	records, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2", len(records))
	}
	if records[0].Source != "c.wav" || records[1].Source != "b.wav" {
		t.Errorf("order = %s, %s; want c.wav, b.wav", records[0].Source, records[1].Source)
	}
}

func TestListEmpty(t *testing.T) {
	records, err := openTestStore(t).List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("List = %v, want empty slice", records)
	}
}
