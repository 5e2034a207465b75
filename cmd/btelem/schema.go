package main

import (
	"flag"
	"fmt"

	"github.com/btelem/btelem/errs"
	"github.com/btelem/btelem/logfile"
)

func runSchema(args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: usage: btelem schema <file>", errs.ErrUsage)
	}

	r, err := logfile.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	for _, e := range r.Schema().Entries() {
		fmt.Printf("[%3d] %s - %s\n", e.ID, e.Name, e.Description)
		fmt.Printf("      payload_size=%d\n", e.PayloadSize)
		for _, f := range e.Fields {
			fmt.Printf("        %-20s offset=%3d size=%2d type=%s count=%d\n",
				f.Name, f.Offset, f.Size, f.Type, f.Count)
		}
		fmt.Println()
	}

	return nil
}
