package main

import (
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// defaultMicrosPerBeat is the MIDI default tempo of 120 BPM, assumed
	// until the first set-tempo event.
	defaultMicrosPerBeat = 500000

	microsPerMinute = 60000000.0
)

// TempoBreakpoint marks a tempo change at an absolute tick position.
type TempoBreakpoint struct {
	Tick          uint32
	MicrosPerBeat int
}

// TempoMap is the ordered breakpoint list for a whole file, paired with its
// tick resolution. Built once per file and read-only afterwards.
type TempoMap struct {
	Breakpoints  []TempoBreakpoint
	TicksPerBeat int
}

// BuildTempoMap scans every track for set-tempo events and produces the
// cleaned, ordered breakpoint list. Tempo events may live on any track, so
// all tracks are pooled, each with its own delta-time accumulation. A file
// without tempo events (or without tracks at all) yields the default
// 120 BPM singleton.
func BuildTempoMap(smfData *smf.SMF) (*TempoMap, error) {
	ticksPerQuarter, ok := smfData.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format, expected MetricTicks")
	}

	pool := []TempoBreakpoint{{Tick: 0, MicrosPerBeat: defaultMicrosPerBeat}}

	for _, track := range smfData.Tracks {
		var currentTick uint32

		for _, event := range track {
			currentTick += event.Delta

			var bpm float64
			if event.Message.GetMetaTempo(&bpm) && bpm > 0 {
				pool = append(pool, TempoBreakpoint{
					Tick:          currentTick,
					MicrosPerBeat: int(math.Round(microsPerMinute / bpm)),
				})
			}
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Tick < pool[j].Tick
	})

	// Collapse breakpoints sharing a tick, later declaration wins.
	cleaned := make([]TempoBreakpoint, 0, len(pool))
	for _, bp := range pool {
		if n := len(cleaned); n > 0 && cleaned[n-1].Tick == bp.Tick {
			cleaned[n-1] = bp
			continue
		}
		cleaned = append(cleaned, bp)
	}

	return &TempoMap{
		Breakpoints:  cleaned,
		TicksPerBeat: int(ticksPerQuarter),
	}, nil
}

// SecondsAt converts an absolute tick position to elapsed seconds by
// integrating tempo segment by segment up to the target tick. A tick
// landing exactly on a breakpoint is charged at the earlier segment's
// tempo; the new tempo takes effect strictly after its own tick. Ticks
// beyond the last breakpoint extend the final tempo.
func (tm *TempoMap) SecondsAt(tick uint32) float64 {
	seconds := 0.0
	lastTick := uint32(0)
	lastTempo := defaultMicrosPerBeat
	if len(tm.Breakpoints) > 0 {
		lastTempo = tm.Breakpoints[0].MicrosPerBeat
	}

	for i := 1; i < len(tm.Breakpoints); i++ {
		bp := tm.Breakpoints[i]
		if tick <= bp.Tick {
			seconds += float64(tick-lastTick) / float64(tm.TicksPerBeat) * float64(lastTempo) / 1e6
			return seconds
		}
		seconds += float64(bp.Tick-lastTick) / float64(tm.TicksPerBeat) * float64(lastTempo) / 1e6
		lastTick = bp.Tick
		lastTempo = bp.MicrosPerBeat
	}

	seconds += float64(tick-lastTick) / float64(tm.TicksPerBeat) * float64(lastTempo) / 1e6
	return seconds
}
