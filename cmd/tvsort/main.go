// SPDX-License-Identifier: MIT

// tvsort normalizes XMLTV guides in shell pipelines: it reads one or
// more guides, merges them, and writes a single sorted, stop-filled,
// deduplicated guide using the same engine as the daemon.
//
// Usage:
//
//	tvsort listings-a.xml listings-b.xml -o merged.xml
//	cat listings.xml | tvsort > sorted.xml
//
// Exit codes:
//   - 0: Success
//   - 1: Processing error (decode, alias table, normalize or write)
//   - 2: Usage error
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/gitpan/xmltv/internal/channels"
	"github.com/gitpan/xmltv/internal/guide"
	"github.com/gitpan/xmltv/internal/xmltv"
)

var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run keeps all I/O behind parameters so tests can drive the tool
// in-process. The XML result goes to stdout (or -o); diagnostics and
// the summary line go to stderr so pipelines stay clean.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tvsort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tvsort [flags] [input.xml ...]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Reads XMLTV from the given files (stdin when none are given),")
		fmt.Fprintln(stderr, "normalizes the merged guide and writes it to -o (stdout by default).")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	var output string
	fs.StringVar(&output, "output", "-", `output file ("-" for stdout)`)
	fs.StringVar(&output, "o", "-", `output file (shorthand)`)
	byChannel := fs.Bool("by-channel", false, "group output by channel id instead of one global time order")
	location := fs.String("location", "", "IANA time zone for timestamps without an offset (default UTC)")
	workers := fs.Int("workers", 0, "per-channel parallelism (0 = all CPUs)")
	aliases := fs.String("aliases", "", "channel alias table (YAML)")
	quiet := fs.Bool("q", false, "suppress warnings and the summary line")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, Version)
		return 0
	}

	loc := time.UTC
	if *location != "" {
		var err error
		if loc, err = time.LoadLocation(*location); err != nil {
			fmt.Fprintf(stderr, "Error: unknown location %q\n", *location)
			return 2
		}
	}

	var docs []*xmltv.TV
	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, path := range inputs {
		var (
			doc *xmltv.TV
			err error
		)
		if path == "-" {
			doc, err = xmltv.Decode(stdin)
		} else {
			doc, err = xmltv.ReadFile(path)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: decode %s: %v\n", path, err)
			return 1
		}
		docs = append(docs, doc)
	}
	merged := xmltv.Concat(docs...)

	if *aliases != "" {
		table, err := channels.LoadTable(*aliases)
		if err != nil {
			fmt.Fprintf(stderr, "Error: alias table: %v\n", err)
			return 1
		}
		resolver, err := channels.NewResolver(table)
		if err != nil {
			fmt.Fprintf(stderr, "Error: alias table: %v\n", err)
			return 1
		}
		resolver.Apply(merged)
	}

	var reporter guide.Reporter = guide.NewLogReporterWith(
		zerolog.New(stderr).With().Timestamp().Logger())
	if *quiet {
		reporter = guide.NopReporter{}
	}

	out, rep, err := guide.Normalize(merged, guide.Options{
		ByChannel: *byChannel,
		Location:  loc,
		Workers:   *workers,
		Reporter:  reporter,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: normalize: %v\n", err)
		return 1
	}

	if output == "-" {
		err = xmltv.Encode(stdout, out)
	} else {
		err = writeFile(output, out)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: write %s: %v\n", output, err)
		return 1
	}

	if !*quiet {
		fmt.Fprintf(stderr, "✓ %d channels, %d programmes in, %d out, %d stops inferred, %d duplicates dropped\n",
			rep.Channels, rep.ProgrammesIn, rep.ProgrammesOut, rep.StopsInferred, rep.Duplicates)
	}
	return 0
}

// writeFile replaces path atomically so a concurrent reader never sees
// a partial guide.
func writeFile(path string, doc *xmltv.TV) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = pending.Cleanup() }()
	if err := xmltv.Encode(pending, doc); err != nil {
		return err
	}
	return pending.CloseAtomicallyReplace()
}
