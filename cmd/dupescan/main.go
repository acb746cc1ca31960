package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"

	dupescan "github.com/mattkeenan/dupescan/pkg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, setupSignalHandler()))
}

// run executes one scan and returns the process exit status. The status is
// non-zero only for usage errors and scan roots that could not be scanned.
func run(argv []string, stdout, stderr io.Writer, shutdown <-chan struct{}) int {
	var args Args
	parser, err := arg.NewParser(arg.Config{Program: "dupescan"}, &args)
	if err != nil {
		fmt.Fprintf(stderr, "dupescan: %v\n", err)
		return 2
	}
	if err := parser.Parse(argv); err != nil {
		switch {
		case errors.Is(err, arg.ErrHelp):
			parser.WriteHelp(stdout)
			return 0
		case errors.Is(err, arg.ErrVersion):
			fmt.Fprintln(stdout, args.Version())
			return 0
		}
		parser.WriteUsage(stderr)
		fmt.Fprintf(stderr, "dupescan: %v\n", err)
		return 2
	}

	prevLog := dupescan.SetLogOutput(stderr)
	defer dupescan.SetLogOutput(prevLog)

	cfg, err := resolveSettings(&args)
	if err != nil {
		fmt.Fprintf(stderr, "dupescan: %v\n", err)
		return 2
	}

	session := dupescan.NewScanSession(cfg.options)
	scanErr := session.ScanRoots(cfg.roots, cfg.keepGoing, shutdown)
	if scanErr != nil && (!cfg.keepGoing || errors.Is(scanErr, dupescan.ErrInterrupted)) {
		fmt.Fprintf(stderr, "dupescan: %v\n", scanErr)
		return 1
	}

	if err := writeReport(dupescan.BuildReport(session), cfg.format, args.Output, stdout); err != nil {
		fmt.Fprintf(stderr, "dupescan: %v\n", err)
		return 1
	}

	if scanErr != nil {
		fmt.Fprintf(stderr, "dupescan: %v\n", scanErr)
		return 1
	}
	return 0
}

func writeReport(report *dupescan.Report, format, outputPath string, stdout io.Writer) error {
	lines, err := report.Lines(format)
	if err != nil {
		return err
	}

	sink, err := openSink(outputPath, stdout)
	if err != nil {
		return err
	}
	if err := sink.writeLines(lines); err != nil {
		sink.close()
		return err
	}
	return sink.close()
}
