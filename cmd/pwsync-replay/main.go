// Command pwsync-replay runs scripted scenarios against the pwsync engine.
//
// A scenario declares simulated server nodes and devices and a list of
// steps: server events to push, control calls to make and expectations to
// check. Every scenario runs on a fresh engine.
//
// Usage:
//
//	pwsync-replay [flags] <scenario.yaml|dir>...
//
// Flags:
//
//	-log-level string   Log level: debug, info, warn, error (default "warn")
//	-capture string     File path for engine event capture (CBOR format)
//	-json               Output results as JSON
//	-v                  Verbose output (list every step)
//	-interactive        Open a shell on the first scenario instead of running it
//	-timeout duration   Overall timeout (default 1m)
//
// Examples:
//
//	# Run every scenario in a directory
//	pwsync-replay ./internal/scenario/testdata
//
//	# Capture engine events for later analysis with pwsync-log
//	pwsync-replay -capture replay.pwlog routed_sink.yaml
//
//	# Drive a scenario by hand
//	pwsync-replay -interactive direct_sink.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pwsync/pwsync-go/cmd/pwsync-replay/interactive"
	"github.com/pwsync/pwsync-go/internal/scenario"
	pwlog "github.com/pwsync/pwsync-go/pkg/log"
)

var (
	logLevel        = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	capture         = flag.String("capture", "", "File path for engine event capture (CBOR format)")
	jsonOut         = flag.Bool("json", false, "Output results as JSON")
	verbose         = flag.Bool("v", false, "Verbose output")
	interactiveMode = flag.Bool("interactive", false, "Open a shell on the first scenario")
	timeout         = flag.Duration("timeout", time.Minute, "Overall timeout")
)

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one scenario file or directory is required")
		flag.Usage()
		os.Exit(1)
	}

	level, err := parseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	scenarios, err := scenario.LoadPaths(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no scenarios found")
		os.Exit(1)
	}

	cfg := scenario.Config{Logger: logger}
	var fileLogger *pwlog.FileLogger
	if *capture != "" {
		fileLogger, err = pwlog.NewFileLogger(*capture)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create capture file: %v\n", err)
			os.Exit(1)
		}
	}
	if session := eventLog(level, logger, fileLogger); session != nil {
		cfg.EventLog = session
		logger.Info("capturing engine events", "file", *capture, "session", session.ID())
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)

	code := run(ctx, cfg, scenarios)

	stop()
	cancel()
	if fileLogger != nil {
		if err := fileLogger.Close(); err != nil {
			logger.Error("failed to close capture file", "error", err)
		}
	}
	os.Exit(code)
}

func run(ctx context.Context, cfg scenario.Config, scenarios []*scenario.Scenario) int {
	runner := scenario.NewRunner(cfg)

	if *interactiveMode {
		shell, err := interactive.New(runner, scenarios[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer shell.Close()
		if err := shell.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	var reporter scenario.Reporter
	if *jsonOut {
		reporter = scenario.NewJSONReporter(os.Stdout, false)
	} else {
		reporter = scenario.NewTextReporter(os.Stdout, *verbose)
	}

	code := 0
	for _, sc := range scenarios {
		result := runner.Run(ctx, sc)
		reporter.Report(result)
		if !result.Passed {
			code = 1
		}
	}
	reporter.Summary()
	return code
}

// eventLog joins the capture file and, at debug level, the slog output into
// one session. It returns nil when neither is wanted.
func eventLog(level slog.Level, logger *slog.Logger, fileLogger *pwlog.FileLogger) *pwlog.Session {
	var sinks []pwlog.Logger
	if fileLogger != nil {
		sinks = append(sinks, fileLogger)
	}
	if level <= slog.LevelDebug {
		sinks = append(sinks, pwlog.NewSlogAdapter(logger))
	}
	if len(sinks) == 0 {
		return nil
	}
	return pwlog.NewSession(pwlog.NewMultiLogger(sinks...))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
}
