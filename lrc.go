package main

import (
	"fmt"
	"io"
	"math"
)

// FormatLRCTime renders a second offset as an LRC timestamp "[mm:ss.cc]".
// Hundredths are rounded, with the carry pushed up through seconds and
// minutes so that 59.996 renders as [01:00.00].
func FormatLRCTime(seconds float64) string {
	m := int(seconds) / 60
	s := int(seconds) % 60
	cc := int(math.Round((seconds - math.Floor(seconds)) * 100))

	if cc == 100 {
		cc = 0
		s++
		if s == 60 {
			s = 0
			m++
		}
	}

	return fmt.Sprintf("[%02d:%02d.%02d]", m, s, cc)
}

// ParseLRCTime parses an LRC timestamp back into its integer fields. Only
// canonical FormatLRCTime output is accepted: two-digit zero-padded fields,
// seconds below 60, hundredths below 100.
func ParseLRCTime(stamp string) (mm, ss, cc int, err error) {
	n, err := fmt.Sscanf(stamp, "[%d:%d.%d]", &mm, &ss, &cc)
	if err != nil || n != 3 {
		return 0, 0, 0, fmt.Errorf("malformed LRC timestamp %q", stamp)
	}
	if mm < 0 || ss < 0 || ss >= 60 || cc < 0 || cc >= 100 ||
		fmt.Sprintf("[%02d:%02d.%02d]", mm, ss, cc) != stamp {
		return 0, 0, 0, fmt.Errorf("malformed LRC timestamp %q", stamp)
	}
	return mm, ss, cc, nil
}

// WriteLRC writes one "[mm:ss.cc]text" line per entry.
func WriteLRC(w io.Writer, lines []LyricEvent) error {
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s%s\n", FormatLRCTime(line.Time), line.Text); err != nil {
			return fmt.Errorf("error writing LRC line: %w", err)
		}
	}
	return nil
}
