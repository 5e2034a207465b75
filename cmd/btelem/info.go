package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/btelem/btelem/endian"
	"github.com/btelem/btelem/entry"
	"github.com/btelem/btelem/errs"
	"github.com/btelem/btelem/logfile"
)

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: usage: btelem info <file>", errs.ErrUsage)
	}
	path := fs.Arg(0)

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	r, err := logfile.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	signalCounts := make(map[uint16]uint64)
	var total uint64
	var tsMin, tsMax uint64
	haveRange := false

	err = r.Entries(logfile.Query{}, func(e entry.DecodedEntry) error {
		signalCounts[e.ID]++
		total++
		if !haveRange || e.Timestamp < tsMin {
			tsMin = e.Timestamp
		}
		if !haveRange || e.Timestamp > tsMax {
			tsMax = e.Timestamp
		}
		haveRange = true

		return nil
	})
	if err != nil {
		return err
	}

	numPackets := "unknown"
	if idx := r.Index(); idx != nil {
		numPackets = fmt.Sprintf("%d", len(idx))
	}

	hostOrder := "unknown"
	switch {
	case endian.IsNativeLittleEndian():
		hostOrder = "little-endian"
	case endian.IsNativeBigEndian():
		hostOrder = "big-endian"
	}
	payloadMatch := "matches host"
	if !r.Schema().NativeByteOrder() {
		payloadMatch = "differs from host, every field decode byte-swaps"
	}

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Size:       %d bytes\n", fi.Size())
	fmt.Printf("Packets:    %s\n", numPackets)
	fmt.Printf("Entries:    %d\n", total)
	fmt.Printf("Host order: %s (payload order %s)\n", hostOrder, payloadMatch)

	if haveRange {
		fmt.Printf("Time range: %ss - %ss\n", formatTimestamp(tsMin), formatTimestamp(tsMax))
		fmt.Printf("Duration:   %s\n", formatDuration(tsMax-tsMin))
	} else {
		fmt.Println("Time range: (empty)")
	}

	entries := r.Schema().Entries()
	fmt.Printf("\nSignals (%d):\n", len(entries))
	fmt.Printf("  %4s  %-24s  %8s  %8s  Fields\n", "ID", "Name", "Samples", "Payload")
	fmt.Printf("  %s  %s  %s  %s  %s\n", strings.Repeat("-", 4), strings.Repeat("-", 24), strings.Repeat("-", 8), strings.Repeat("-", 8), strings.Repeat("-", 20))
	for _, e := range entries {
		names := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			names = append(names, f.Name)
		}
		fmt.Printf("  %4d  %-24s  %8d  %5d B  %s\n", e.ID, e.Name, signalCounts[e.ID], e.PayloadSize, strings.Join(names, ", "))
	}

	return nil
}
