// Package schedule derives the day's live broadcast windows from the
// playlist's recurring daily template and answers what is airing at a given
// instant, including the seek offset needed to join a stream mid-show.
package schedule

import (
	"time"

	"github.com/lushplayer/catalogue/internal/logger"
)

// RawEntry is one video description from the playback catalogue, before
// normalization.
type RawEntry struct {
	// Ref is carried through to the derived entry untouched; downstream
	// playback needs the original video description.
	Ref interface{}

	// StartTime is the wall-clock start literal from the playlist template.
	StartTime string

	// BroadcastLength is the HH:MM:SS live window length, when present.
	BroadcastLength string

	// DurationSeconds is the fallback video duration, when present.
	DurationSeconds *float64
}

// Entry is an absolute [Start, End) broadcast window for a specific day.
type Entry struct {
	Ref   interface{}
	Start time.Time
	End   time.Time
}

// Position locates an instant inside a schedule entry. Offset is the elapsed
// time since the window start, used to seek a live stream so the viewer
// joins at the live point rather than the beginning.
type Position struct {
	Entry  Entry
	Index  int
	Offset time.Duration
}

// FromPayloads builds raw entries from decoded playback catalogue payloads.
// Recognized keys: starttime, livebroadcastlength, duration.
func FromPayloads(items []map[string]interface{}) []RawEntry {
	entries := make([]RawEntry, 0, len(items))
	for _, item := range items {
		entry := RawEntry{Ref: item}
		if s, ok := item["starttime"].(string); ok {
			entry.StartTime = s
		}
		if s, ok := item["livebroadcastlength"].(string); ok {
			entry.BroadcastLength = s
		}
		if n, ok := item["duration"].(float64); ok {
			entry.DurationSeconds = &n
		}
		entries = append(entries, entry)
	}
	return entries
}

// Build maps raw entries to absolute windows anchored to the reference date.
// Entries that fail to parse are logged and dropped; a single bad entry must
// not break the whole schedule. Order is preserved from the playlist.
func Build(raw []RawEntry, reference time.Time) []Entry {
	log := logger.AppLogger()
	entries := make([]Entry, 0, len(raw))

	for i, r := range raw {
		duration, ok := resolveDuration(r)
		if !ok {
			continue
		}

		start, end, err := RelativeWindow(r.StartTime, duration, reference)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"index":     i,
				"starttime": r.StartTime,
			}).Warn("dropping schedule entry with unparseable start time")
			continue
		}

		entries = append(entries, Entry{Ref: r.Ref, Start: start, End: end})
	}

	return entries
}

// resolveDuration picks the window length for a raw entry: the explicit
// broadcast length wins, the numeric video duration is the fallback, and an
// entry with neither is dropped without an error.
func resolveDuration(r RawEntry) (time.Duration, bool) {
	if r.BroadcastLength != "" {
		duration, err := ParseBroadcastLength(r.BroadcastLength)
		if err != nil {
			logger.AppLogger().WithFields(map[string]interface{}{
				"livebroadcastlength": r.BroadcastLength,
			}).Warn("dropping schedule entry with malformed broadcast length")
			return 0, false
		}
		return duration, true
	}

	if r.DurationSeconds != nil {
		return time.Duration(*r.DurationSeconds * float64(time.Second)), true
	}

	return 0, false
}

// CurrentPosition returns the first entry whose half-open window [Start, End)
// contains now, with the elapsed offset into it. Overlaps are not
// deduplicated; first match in playlist order wins. A miss means off air.
func CurrentPosition(entries []Entry, now time.Time) (Position, bool) {
	for i, entry := range entries {
		if !now.Before(entry.Start) && now.Before(entry.End) {
			return Position{
				Entry:  entry,
				Index:  i,
				Offset: now.Sub(entry.Start),
			}, true
		}
	}
	return Position{}, false
}
