// Command pwsync-log views and analyzes pwsync capture files.
//
// Capture files are written by pwsync-replay when it runs with the
// -capture flag.
//
// Usage:
//
//	pwsync-log <command> [flags] <file.pwlog>
//
// Commands:
//
//	view     View capture file in human-readable format
//	export   Export capture file to JSONL or CSV
//	filter   Filter capture file and write to a new file
//	stats    Show statistics about the capture file
//
// Examples:
//
//	# View only device events
//	pwsync-log view -layer device replay.pwlog
//
//	# View dropped updates of node 52
//	pwsync-log view -object 52 -category error replay.pwlog
//
//	# Keep only rejected commands
//	pwsync-log filter -kind rejected -o rejected.pwlog replay.pwlog
//
//	# Show statistics
//	pwsync-log stats replay.pwlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pwsync/pwsync-go/cmd/pwsync-log/commands"
)

const usage = `pwsync-log - pwsync Capture Analyzer

Usage:
  pwsync-log <command> [flags] <file.pwlog>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSONL or CSV
  filter   Filter capture file and write to a new file
  stats    Show statistics about the capture file

Use "pwsync-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// filterFlags registers the shared filter flags on fs.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	var opts commands.FilterOptions
	fs.StringVar(&opts.Session, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Object, "object", "", "Filter by node or device ID")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (decoder, node, device, audio)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out, local)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (event, command, state, error)")
	fs.StringVar(&opts.Kind, "kind", "", "Filter by error kind (malformed, inconsistent, not_ready, rejected)")
	return &opts
}

func newFlagSet(name, summary, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "pwsync-log %s - %s\n\nUsage:\n  pwsync-log %s\n\nFlags:\n", name, summary, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func pathArg(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := newFlagSet("view", "View capture file in human-readable format", "view [flags] <file.pwlog>")
	opts := filterFlags(fs)
	path := pathArg(fs, args)

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export capture file to JSONL or CSV", "export [flags] <file.pwlog>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	opts := filterFlags(fs)
	path := pathArg(fs, args)

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	if err := commands.RunExport(path, *format, *output, filter); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter capture file and write to a new file", "filter [flags] -o <out.pwlog> <file.pwlog>")
	output := fs.String("o", "", "Output file (required)")
	opts := filterFlags(fs)
	path := pathArg(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	n, err := commands.RunFilter(path, *output, filter)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the capture file", "stats <file.pwlog>")
	path := pathArg(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
