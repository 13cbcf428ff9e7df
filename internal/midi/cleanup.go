package midi

import "sort"

// Note represents a single MIDI note
type Note struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Velocity int     `json:"velocity"`
}

// End returns the note-off time in seconds
func (n Note) End() float64 {
	return n.Start + n.Duration
}

// CleanupResult contains the cleaned notes and statistics
type CleanupResult struct {
	Notes    []Note `json:"notes"`
	Retained int    `json:"retained"`
	Removed  int    `json:"removed"`
}

// Clean drops notes that cannot be encoded (out of MIDI range, negative
// start, zero length) and orders the rest by start time then pitch.
func Clean(notes []Note) CleanupResult {
	kept := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.Pitch < 0 || n.Pitch > 127 || n.Start < 0 || n.Duration <= 0 {
			continue
		}
		kept = append(kept, n)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return kept[i].Pitch < kept[j].Pitch
	})

	return CleanupResult{
		Notes:    kept,
		Retained: len(kept),
		Removed:  len(notes) - len(kept),
	}
}
