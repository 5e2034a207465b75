package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/btelem/btelem/entry"
)

func formatEntry(e entry.DecodedEntry) string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("id=%d", e.ID)
	}

	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Fields[k]))
	}

	return fmt.Sprintf("[%12.6f] %s: %s", float64(e.Timestamp)/1e9, name, strings.Join(parts, ", "))
}

// formatDuration renders a nanosecond duration using the coarsest unit that
// keeps the value above 1.
func formatDuration(ns uint64) string {
	switch {
	case ns < 1_000:
		return fmt.Sprintf("%dns", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.1fus", float64(ns)/1_000)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.1fms", float64(ns)/1_000_000)
	}

	s := float64(ns) / 1e9
	switch {
	case s < 60:
		return fmt.Sprintf("%.2fs", s)
	case s < 3600:
		return fmt.Sprintf("%.1fm", s/60)
	default:
		return fmt.Sprintf("%.1fh", s/3600)
	}
}

func formatTimestamp(ns uint64) string {
	return fmt.Sprintf("%.6f", float64(ns)/1e9)
}
