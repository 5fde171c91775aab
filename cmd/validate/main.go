// SPDX-License-Identifier: MIT

// validate checks an xmltvd YAML configuration file without starting
// the daemon. Environment overrides are applied the same way the
// daemon applies them, so what validates here is what would boot.
//
// Usage:
//
//	validate -f config.yaml
//	validate --file config.yaml
//
// Exit codes:
//   - 0: Configuration is valid
//   - 1: Configuration is invalid (parse or validation error)
//   - 2: Usage error (missing required flag)
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gitpan/xmltv/internal/config"
)

var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, Version)
		return 0
	}

	if file == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  validate -f config.yaml")
		fmt.Fprintln(stderr, "  validate --file config.yaml")
		return 2
	}

	if _, err := config.Load(file); err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n", file)
		fmt.Fprintf(stderr, "  %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "✓ %s is valid\n", file)
	return 0
}
