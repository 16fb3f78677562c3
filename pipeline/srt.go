package pipeline

import (
	"fmt"
	"os"
	"strings"

	timestamps "shortform/providers/timestamps"
)

// WriteSRT writes timestamp segments as an SRT subtitle file.
func WriteSRT(path string, segs []timestamps.Segment) error {
	var b strings.Builder
	for i, seg := range segs {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatSRTTime(seg.Start), formatSRTTime(seg.End))
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func formatSRTTime(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	millis := int((seconds - float64(int(seconds))) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
