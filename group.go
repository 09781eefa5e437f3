package main

import "strings"

// GroupSyllables merges sub-word lyric fragments into whole lines. Karaoke
// MIDI files emit lyrics a syllable at a time; a fragment that follows the
// previous one within threshold seconds belongs to the same line, unless
// the previous fragment closed a sentence. The combined line keeps the
// first fragment's timestamp and the texts are concatenated without a
// separator. Blank fragments neither start nor extend a group.
func GroupSyllables(events []LyricEvent, threshold float64) []LyricEvent {
	var grouped []LyricEvent

	var current strings.Builder
	var groupStart, lastTime float64
	var lastText string
	open := false

	flush := func() {
		if !open {
			return
		}
		grouped = append(grouped, LyricEvent{Time: groupStart, Text: current.String()})
		current.Reset()
		open = false
	}

	for _, ev := range events {
		if strings.TrimSpace(ev.Text) == "" {
			continue
		}

		// The gap is measured against the last fragment of the open group,
		// not the group start. Ties favor merging; only a clear sentence
		// end forces a break below the time threshold.
		if open && (ev.Time-lastTime >= threshold || endsSentence(lastText)) {
			flush()
		}

		if !open {
			groupStart = ev.Time
			open = true
		}
		current.WriteString(ev.Text)
		lastTime = ev.Time
		lastText = ev.Text
	}

	flush()
	return grouped
}

// endsSentence reports whether the fragment's trimmed text ends in a
// sentence terminator.
func endsSentence(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}
