package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/btelem/btelem/errs"
	"github.com/btelem/btelem/logfile"
	"github.com/btelem/btelem/packet"
	"github.com/btelem/btelem/schema"
	"github.com/btelem/btelem/stream"
	"github.com/btelem/btelem/transport"
)

func runLive(args []string) error {
	fs := flag.NewFlagSet("live", flag.ContinueOnError)
	tcpAddr := fs.String("tcp", "", "TCP host:port to connect to")
	udpAddr := fs.String("udp", "", "UDP host:port to listen on")
	schemaFile := fs.String("schema-file", "", "log file to read the schema from")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrUsage, err)
	}

	var t transport.Transport
	var err error

	switch {
	case *tcpAddr != "":
		t, err = transport.DialTCP(*tcpAddr, 5*time.Second)
	case *udpAddr != "":
		t, err = transport.ListenUDP(*udpAddr)
	default:
		return fmt.Errorf("%w: specify --tcp or --udp", errs.ErrUsage)
	}
	if err != nil {
		return err
	}
	defer t.Close()

	sch, err := resolveLiveSchema(t, *tcpAddr != "", *schemaFile)
	if err != nil {
		return err
	}

	if *tcpAddr != "" {
		return runLiveStream(t, sch)
	}

	return runLiveDatagrams(t, sch)
}

func resolveLiveSchema(t transport.Transport, isTCP bool, schemaFile string) (*schema.Schema, error) {
	if schemaFile != "" {
		r, err := logfile.Open(schemaFile)
		if err != nil {
			return nil, err
		}
		defer r.Close()

		return r.Schema(), nil
	}
	if isTCP {
		return stream.ReadHandshake(t)
	}

	return nil, fmt.Errorf("%w: --schema-file is required for non-TCP transports", errs.ErrUsage)
}

func runLiveStream(t transport.Transport, sch *schema.Schema) error {
	framer := stream.NewFramer(1 << 20)
	defer framer.Close()

	buf := make([]byte, 4096)
	for {
		n, err := t.Read(buf)
		if n == 0 && err != nil {
			return nil
		}
		for _, pkt := range framer.Feed(buf[:n]) {
			for _, e := range packet.Decode(sch, pkt, nil).Entries {
				fmt.Println(formatEntry(e))
			}
		}
	}
}

func runLiveDatagrams(t transport.Transport, sch *schema.Schema) error {
	buf := make([]byte, 65536)
	for {
		n, err := t.Read(buf)
		if n == 0 && err != nil {
			return nil
		}
		for _, e := range packet.Decode(sch, buf[:n], nil).Entries {
			fmt.Println(formatEntry(e))
		}
	}
}
