package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds parsed command-line flags.
type cliFlags struct {
	headerMode  string
	fontFamily  string
	fontSize    int
	timeout     time.Duration
	apiEndpoint string
	apiKey      string
	doctor      bool
	verbose     bool
	version     bool
}

// parseFlags parses args (excluding the program name) and returns the flags
// plus the positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("docx2pdf", flag.ContinueOnError)

	fs.StringVar(&f.headerMode, "header-mode", "stamp", "section header rewrite mode: stamp or suppress")
	fs.StringVar(&f.fontFamily, "font-family", "Times New Roman", "font family forced onto every run")
	fs.IntVar(&f.fontSize, "font-size", 10, "font size in points forced onto every run")
	fs.DurationVar(&f.timeout, "timeout", 2*time.Minute, "per-backend render timeout")
	fs.StringVar(&f.apiEndpoint, "api-endpoint", "", "hosted conversion API endpoint")
	fs.StringVar(&f.apiKey, "api-key", "", "hosted conversion API key")
	fs.BoolVar(&f.doctor, "doctor", false, "check render backend availability and exit")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: docx2pdf [flags] <input.docx> <output.pdf>\n\nFlags:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
