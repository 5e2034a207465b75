package main

import (
	"flag"
	"fmt"

	"github.com/btelem/btelem/entry"
	"github.com/btelem/btelem/errs"
	"github.com/btelem/btelem/logfile"
)

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: usage: btelem dump <file>", errs.ErrUsage)
	}

	r, err := logfile.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	return r.Entries(logfile.Query{}, func(e entry.DecodedEntry) error {
		fmt.Println(formatEntry(e))
		return nil
	})
}
