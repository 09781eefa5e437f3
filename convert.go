package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
)

// DefaultTrackName is the track the source files store their SysEx text on.
const DefaultTrackName = "SysEx-Daten"

// DefaultGroupThreshold is the largest gap in seconds between two fragments
// of the same lyric line.
const DefaultGroupThreshold = 0.5

// Options configures a conversion. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	TrackName      string
	GroupThreshold float64
	Noise          NoiseConfig
	KeepNoise      bool // skip the noise filter, for inspecting raw event streams
	Corrector      TextCorrector
	Log            *logrus.Logger
}

// DefaultOptions returns a conversion configuration with the stock track
// name, grouping threshold, and noise heuristics, and no text correction.
func DefaultOptions() Options {
	return Options{
		TrackName:      DefaultTrackName,
		GroupThreshold: DefaultGroupThreshold,
		Noise:          DefaultNoiseConfig(),
		Corrector:      NopCorrector{},
		Log:            logrus.New(),
	}
}

// Convert runs the whole pipeline on a parsed MIDI file: tempo map, event
// extraction, noise filtering, syllable grouping, and the optional text
// correction. It returns the final lyric lines in ascending time order.
// The conversion is a pure function of the file and the options; the logger
// only observes it.
func Convert(ctx context.Context, smfData *smf.SMF, opts Options) ([]LyricEvent, error) {
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}

	tempoMap, err := BuildTempoMap(smfData)
	if err != nil {
		return nil, fmt.Errorf("building tempo map: %w", err)
	}
	log.Debugf("tempo map: %d breakpoints, %d ticks per beat", len(tempoMap.Breakpoints), tempoMap.TicksPerBeat)

	track, err := findLyricTrack(smfData, opts.TrackName)
	if err != nil {
		return nil, err
	}

	events := extractLyricEvents(track, tempoMap)
	log.Debugf("extracted %d text events from track %q", len(events), opts.TrackName)

	if !opts.KeepNoise {
		events = filterNoise(events, opts.Noise, log)
	}

	lines := GroupSyllables(events, opts.GroupThreshold)
	log.Debugf("grouped into %d lines", len(lines))

	if !opts.KeepNoise {
		lines = trimLeadingNoise(lines, opts.Noise, log)
	}

	if opts.Corrector != nil {
		lines = opts.Corrector.Correct(ctx, lines)
	}

	return lines, nil
}
