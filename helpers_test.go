package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2/smf"
)

// testLogger returns a silenced logger for pipeline calls under test.
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// trackEvent is a fixture event placed at an absolute tick.
type trackEvent struct {
	tick uint32
	msg  smf.Message
}

// makeTrack converts absolute-tick fixture events into a delta-timed track,
// prefixed with a track name when one is given.
func makeTrack(name string, events ...trackEvent) smf.Track {
	track := smf.Track{}
	if name != "" {
		track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName(name))})
	}

	var lastTick uint32
	for _, ev := range events {
		track = append(track, smf.Event{Delta: ev.tick - lastTick, Message: ev.msg})
		lastTick = ev.tick
	}

	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})
	return track
}

// makeSMF builds an SMF1 file with the given resolution and round-trips it
// through the writer and reader, so tests exercise exactly what a file on
// disk would contain.
func makeSMF(t *testing.T, ticksPerBeat uint16, tracks ...smf.Track) *smf.SMF {
	t.Helper()

	data := smf.NewSMF1()
	data.TimeFormat = smf.MetricTicks(ticksPerBeat)
	for _, track := range tracks {
		data.Add(track)
	}

	var buf bytes.Buffer
	if _, err := data.WriteTo(&buf); err != nil {
		t.Fatalf("writing test MIDI file: %v", err)
	}

	parsed, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("re-reading test MIDI file: %v", err)
	}
	return parsed
}

// closeTo reports whether two second values agree to within a nanosecond,
// which is far below LRC's hundredth resolution.
func closeTo(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
