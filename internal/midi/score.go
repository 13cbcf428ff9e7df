package midi

import (
	"fmt"
	"io"
	"sort"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// DefaultTempo matches the tempo Basic Pitch writes into its MIDI output.
	DefaultTempo = 120.0

	ticksPerQuarter = 960
)

// Artifact is a transcription result that can be persisted as a MIDI file.
type Artifact interface {
	WriteFile(path string) error
}

// Score is a single-track Standard MIDI File built from note events.
type Score struct {
	file  *smf.SMF
	notes int
}

type noteEvent struct {
	tick     uint32
	on       bool
	key, vel uint8
}

// NewScore renders notes at the given tempo. Pitches and velocities are
// clamped into the MIDI range.
func NewScore(notes []Note, bpm float64) (*Score, error) {
	if bpm <= 0 {
		bpm = DefaultTempo
	}
	resolution := smf.MetricTicks(ticksPerQuarter)

	events := make([]noteEvent, 0, 2*len(notes))
	for _, n := range notes {
		start := resolution.Ticks(bpm, seconds(n.Start))
		end := resolution.Ticks(bpm, seconds(n.End()))
		if end <= start {
			end = start + 1
		}
		key := uint8(clamp(n.Pitch, 0, 127))
		events = append(events,
			noteEvent{tick: start, on: true, key: key, vel: uint8(clamp(n.Velocity, 1, 127))},
			noteEvent{tick: end, key: key},
		)
	}

	// note-offs first so a repeated pitch is released before it restarts
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("tunescribe"))
	track.Add(0, smf.MetaTempo(bpm))

	var last uint32
	for _, ev := range events {
		delta := ev.tick - last
		last = ev.tick
		if ev.on {
			track.Add(delta, gomidi.NoteOn(0, ev.key, ev.vel))
		} else {
			track.Add(delta, gomidi.NoteOff(0, ev.key))
		}
	}
	track.Close(0)

	file := smf.New()
	file.TimeFormat = resolution
	if err := file.Add(track); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}

	return &Score{file: file, notes: len(notes)}, nil
}

// Notes returns the number of notes in the score
func (s *Score) Notes() int {
	return s.notes
}

// WriteFile writes the score to path, replacing any existing file.
func (s *Score) WriteFile(path string) error {
	if err := s.file.WriteFile(path); err != nil {
		return fmt.Errorf("write midi %s: %w", path, err)
	}
	return nil
}

// WriteTo writes the score in SMF format to w.
func (s *Score) WriteTo(w io.Writer) (int64, error) {
	return s.file.WriteTo(w)
}

// ReadNotes parses a MIDI file back into notes, pairing note-on and
// note-off events per channel and key.
func ReadNotes(path string) ([]Note, error) {
	type started struct {
		at  float64
		vel uint8
	}
	open := map[[2]uint8]started{}
	var notes []Note

	reader := smf.ReadTracks(path)
	reader.Do(func(ev smf.TrackEvent) {
		at := float64(ev.AbsMicroSeconds) / 1_000_000

		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			open[[2]uint8{ch, key}] = started{at: at, vel: vel}
			return
		}
		if ev.Message.GetNoteEnd(&ch, &key) {
			k := [2]uint8{ch, key}
			if s, ok := open[k]; ok {
				notes = append(notes, Note{
					Pitch:    int(key),
					Start:    s.at,
					Duration: at - s.at,
					Velocity: int(s.vel),
				})
				delete(open, k)
			}
		}
	})
	if err := reader.Error(); err != nil {
		return nil, fmt.Errorf("read midi %s: %w", path, err)
	}

	return Clean(notes).Notes, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
