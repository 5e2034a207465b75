// Command btelem dumps, inspects, and live-decodes btelem log files and
// streams via the dump/schema/info/live subcommands.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/btelem/btelem/errs"
)

// Exit codes: 0 success, 1 I/O or parse failure (bad file, decode error,
// transport error), 2 misuse (bad arguments, unknown command).
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = runDump(os.Args[2:])
	case "schema":
		err = runSchema(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "live":
		err = runLive(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		os.Exit(exitOK)
	default:
		fmt.Fprintf(os.Stderr, "btelem: unknown command %q\n", os.Args[1])
		printUsage()
		os.Exit(exitUsage)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "btelem: %v\n", err)
		if errors.Is(err, errs.ErrUsage) {
			os.Exit(exitUsage)
		}
		os.Exit(exitFailure)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: btelem <command> [arguments]

commands:
  dump   <file>    decode and print every entry in a log file
  schema <file>    print the schema embedded in a log file
  info   <file>    print summary statistics about a log file
  live             live-decode entries from a transport`)
}
