package main

import (
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

// NoiseConfig holds the tunable constants of the noise heuristics. The
// defaults fit the karaoke files this tool was written for; the classifier
// is a documented heuristic, not a guarantee, so callers can adjust the
// thresholds for files that trip it.
type NoiseConfig struct {
	// ControlPrefixes are the short manufacturer control-sequence prefixes
	// that show up in SysEx text payloads.
	ControlPrefixes []string

	// SeparatorMarker is the repeated-dash prefix of non-lyrical divider
	// lines.
	SeparatorMarker string

	// MinTextLen is the minimum trimmed length for a grouped entry to count
	// as real text.
	MinTextLen int

	// MinFragmentLen is the fragment length that, together with a lowercase
	// letter, marks real text.
	MinFragmentLen int

	// MinLowercase is the lowercase-letter count that, together with a
	// space, marks real text.
	MinLowercase int
}

// DefaultNoiseConfig returns the stock heuristic constants.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		ControlPrefixes: []string{"CL", "GS", "XG", "SC"},
		SeparatorMarker: "---",
		MinTextLen:      3,
		MinFragmentLen:  4,
		MinLowercase:    3,
	}
}

// IsNoise reports whether a decoded text event is a control artifact rather
// than lyric content: a separator marker or a bare device control code.
func (nc NoiseConfig) IsNoise(text string) bool {
	return nc.isSeparatorMarker(text) || nc.isControlCode(text)
}

func (nc NoiseConfig) isSeparatorMarker(text string) bool {
	return strings.HasPrefix(text, nc.SeparatorMarker)
}

// isControlCode matches a known prefix with no alphanumeric character after
// it, meaning the whole token is a device control sequence.
func (nc NoiseConfig) isControlCode(text string) bool {
	for _, prefix := range nc.ControlPrefixes {
		if strings.HasPrefix(text, prefix) && !containsAlphanumeric(text[len(prefix):]) {
			return true
		}
	}
	return false
}

// looksLikeRealText decides whether a grouped entry reads like human lyric
// text as opposed to residual header or control noise.
func (nc NoiseConfig) looksLikeRealText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < nc.MinTextLen {
		return false
	}
	if nc.isSeparatorMarker(trimmed) {
		return false
	}
	for _, prefix := range nc.ControlPrefixes {
		if strings.Count(trimmed, prefix) >= 2 {
			return false
		}
	}

	for _, fragment := range strings.Fields(trimmed) {
		if len(fragment) >= nc.MinFragmentLen && containsLower(fragment) {
			return true
		}
	}

	return countLower(trimmed) >= nc.MinLowercase && strings.Contains(trimmed, " ")
}

// filterNoise drops control artifacts from the raw event stream before
// grouping.
func filterNoise(events []LyricEvent, nc NoiseConfig, log *logrus.Logger) []LyricEvent {
	kept := make([]LyricEvent, 0, len(events))
	for _, ev := range events {
		if nc.IsNoise(ev.Text) {
			continue
		}
		kept = append(kept, ev)
	}
	if dropped := len(events) - len(kept); dropped > 0 {
		log.Debugf("dropped %d control/separator events", dropped)
	}
	return kept
}

// trimLeadingNoise drops grouped entries preceding the first one that reads
// like real text. Karaoke files front-load device setup strings before the
// actual song text; nothing after the first real line is touched. If no
// entry classifies as real text the sequence is kept unchanged, since an
// empty output is worse than leftover header noise.
func trimLeadingNoise(lines []LyricEvent, nc NoiseConfig, log *logrus.Logger) []LyricEvent {
	for i, line := range lines {
		if nc.looksLikeRealText(line.Text) {
			if i > 0 {
				log.Debugf("skipping %d leading noise entries", i)
			}
			return lines[i:]
		}
	}
	if len(lines) > 0 {
		log.Warnf("no entry classified as real text, keeping all %d entries", len(lines))
	}
	return lines
}

func containsAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func containsLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func countLower(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsLower(r) {
			count++
		}
	}
	return count
}
