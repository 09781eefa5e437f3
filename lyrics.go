package main

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LyricEvent is one timed text fragment on its way to the output file.
type LyricEvent struct {
	Time float64 // seconds from the start of the song
	Text string
}

// findLyricTrack returns the first track carrying a meta track-name event
// that matches name exactly. The embedded lyric data lives on a single
// named track; a file without that track has nothing to extract.
func findLyricTrack(smfData *smf.SMF, name string) (smf.Track, error) {
	for _, track := range smfData.Tracks {
		if trackHasName(track, name) {
			return track, nil
		}
	}
	return nil, fmt.Errorf("no track named %q found", name)
}

// trackHasName reports whether any of the track's meta track-name events
// matches name. A track can carry several name events; a mismatch on one
// does not disqualify the rest.
func trackHasName(track smf.Track, name string) bool {
	for _, event := range track {
		var trackName string
		if event.Message.GetMetaTrackName(&trackName) && trackName == name {
			return true
		}
	}
	return false
}

// getTrackName returns the track's meta track-name, or "" if it has none.
func getTrackName(track smf.Track) string {
	for _, event := range track {
		var trackName string
		if event.Message.GetMetaTrackName(&trackName) {
			return trackName
		}
	}
	return ""
}

// extractLyricEvents walks the lyric track and emits a timed text event for
// every meta lyric, meta text, and decodable SysEx payload. Meta text is
// taken verbatim; SysEx payloads are treated as Latin-1 bytes and trimmed.
// Everything else is MIDI control traffic and is skipped.
func extractLyricEvents(track smf.Track, tempoMap *TempoMap) []LyricEvent {
	var events []LyricEvent
	var currentTick uint32

	for _, event := range track {
		currentTick += event.Delta
		msg := event.Message

		var text string
		var data []byte

		switch {
		case msg.GetMetaLyric(&text):
		case msg.GetMetaText(&text):
		case msg.GetSysEx(&data):
			text = strings.TrimSpace(decodeLatin1(data))
		default:
			continue
		}

		if text == "" {
			continue
		}

		events = append(events, LyricEvent{
			Time: tempoMap.SecondsAt(currentTick),
			Text: text,
		})
	}

	// A single track is already tick-ordered; the sort is a safety net so
	// grouping can rely on chronological input.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})

	return events
}

// decodeLatin1 interprets raw SysEx bytes as ISO 8859-1 text. Every byte
// maps to a code point, so the decode itself never rejects input.
func decodeLatin1(data []byte) string {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return ""
	}
	return string(decoded)
}
