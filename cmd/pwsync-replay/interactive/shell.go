// Package interactive provides the interactive command-line interface
// for pwsync-replay.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/pwsync/pwsync-go/internal/scenario"
	"github.com/pwsync/pwsync-go/pkg/pipewire"
)

// Shell drives the engine objects of one scenario by hand.
type Shell struct {
	runner *scenario.Runner
	sc     *scenario.Scenario
	env    *scenario.Env
}

// New sets up the scenario environment without running any step.
func New(runner *scenario.Runner, sc *scenario.Scenario) (*Shell, error) {
	env, err := runner.Setup(sc)
	if err != nil {
		return nil, fmt.Errorf("setup %s: %w", sc.Name, err)
	}
	return &Shell{runner: runner, sc: sc, env: env}, nil
}

// Close unbinds every node.
func (s *Shell) Close() {
	s.env.Close()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pwsync> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	out := rl.Stdout()
	fmt.Fprintf(out, "Scenario: %s\n", s.sc.Name)
	s.printHelp(out)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(out, "Exiting...")
			return nil
		}
		if s.Exec(ctx, line, out) {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string, w io.Writer) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp(w)
	case "nodes", "n":
		s.cmdNodes(w)
	case "devices", "d":
		s.cmdDevices(w)
	case "show", "s":
		err = s.cmdShow(w, args)
	case "bind":
		err = s.cmdBind(args)
	case "unbind":
		err = s.cmdUnbind(args)
	case "mute":
		err = s.cmdMute(args)
	case "volume", "vol":
		err = s.cmdVolume(args)
	case "avg":
		err = s.cmdAverage(args)
	case "flush", "f":
		fmt.Fprintf(w, "Delivered %d events\n", s.env.Flush())
	case "run":
		s.cmdRun(ctx, w)
	case "quit", "exit", "q":
		fmt.Fprintln(w, "Exiting...")
		return true
	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return false
}

func (s *Shell) printHelp(w io.Writer) {
	fmt.Fprintln(w, `
pwsync Commands:
  Inspection:
    nodes              - List nodes
    devices            - List devices and their routes
    show <node>        - Show one node in detail

  Binding:
    bind <node>        - Bind a node to its server proxy
    unbind <node>      - Unbind a node

  Control:
    mute <node> on|off - Set the mute state
    volume <node> <v>… - Set per-channel volumes (0..1)
    avg <node> <v>     - Set the average volume
    flush              - Deliver queued server events

  Scenario:
    run                - Run the scenario steps against the current state

  Other:
    help               - Show this help
    exit               - Exit`)
}

func (s *Shell) node(args []string, want int) (*pipewire.Node, error) {
	if len(args) < want {
		return nil, fmt.Errorf("expected at least %d arguments", want)
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid node id: %s", args[0])
	}
	n := s.env.Registry.Node(uint32(id))
	if n == nil {
		return nil, fmt.Errorf("unknown node %d", id)
	}
	return n, nil
}

func (s *Shell) audio(args []string, want int) (*pipewire.AudioBinding, error) {
	n, err := s.node(args, want)
	if err != nil {
		return nil, err
	}
	a := n.Audio()
	if a == nil {
		return nil, fmt.Errorf("node %d is not an audio node", n.ID())
	}
	return a, nil
}

func (s *Shell) cmdNodes(w io.Writer) {
	nodes := s.env.Registry.Nodes()
	if len(nodes) == 0 {
		fmt.Fprintln(w, "No nodes")
		return
	}
	for _, n := range nodes {
		state := "unbound"
		if n.IsBound() {
			state = "bound"
		}
		fmt.Fprintf(w, "  [%d] %-18s %-8s %q\n", n.ID(), n.Type(), state, n.Name())
	}
}

func (s *Shell) cmdDevices(w io.Writer) {
	devices := s.env.Registry.Devices()
	if len(devices) == 0 {
		fmt.Fprintln(w, "No devices")
		return
	}
	for _, d := range devices {
		fmt.Fprintf(w, "  [%d] refs=%d bound=%t\n", d.ID(), d.Refs(), d.IsBound())
		routes := d.Routes()
		keys := make([]int32, 0, len(routes))
		for k := range routes {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "       route device %d -> index %d\n", k, routes[k])
		}
	}
}

func (s *Shell) cmdShow(w io.Writer, args []string) error {
	n, err := s.node(args, 1)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Node %d\n", n.ID())
	fmt.Fprintf(w, "  Type:         %s\n", n.Type())
	fmt.Fprintf(w, "  Name:         %s\n", n.Name())
	if d := n.Description(); d != "" {
		fmt.Fprintf(w, "  Description:  %s\n", d)
	}
	fmt.Fprintf(w, "  Bound:        %t\n", n.IsBound())
	if d := n.Device(); d != nil {
		if index, ok := d.RouteIndex(n.RouteDevice()); ok {
			fmt.Fprintf(w, "  Device:       %d (route device %d, index %d)\n", d.ID(), n.RouteDevice(), index)
		} else {
			fmt.Fprintf(w, "  Device:       %d (route device %d, no route)\n", d.ID(), n.RouteDevice())
		}
	}
	if a := n.Audio(); a != nil {
		names := make([]string, 0, len(a.Channels()))
		for _, c := range a.Channels() {
			names = append(names, c.String())
		}
		fmt.Fprintf(w, "  Channels:     [%s]\n", strings.Join(names, ", "))
		fmt.Fprintf(w, "  Volumes:      %v\n", a.Volumes())
		fmt.Fprintf(w, "  Average:      %.4f\n", a.AverageVolume())
		fmt.Fprintf(w, "  Muted:        %t\n", a.Muted())
	}
	return nil
}

func (s *Shell) cmdBind(args []string) error {
	n, err := s.node(args, 1)
	if err != nil {
		return err
	}
	proxy, err := s.env.Server.Proxy(n.ID())
	if err != nil {
		return err
	}
	return n.Bind(proxy)
}

func (s *Shell) cmdUnbind(args []string) error {
	n, err := s.node(args, 1)
	if err != nil {
		return err
	}
	n.Unbind()
	return nil
}

func (s *Shell) cmdMute(args []string) error {
	a, err := s.audio(args, 2)
	if err != nil {
		return err
	}
	switch strings.ToLower(args[1]) {
	case "on", "true", "1":
		return a.SetMuted(true)
	case "off", "false", "0":
		return a.SetMuted(false)
	default:
		return fmt.Errorf("invalid mute value: %s (must be on or off)", args[1])
	}
}

func parseVolumes(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid volume: %s", arg)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (s *Shell) cmdVolume(args []string) error {
	a, err := s.audio(args, 2)
	if err != nil {
		return err
	}
	volumes, err := parseVolumes(args[1:])
	if err != nil {
		return err
	}
	return a.SetVolumes(volumes)
}

func (s *Shell) cmdAverage(args []string) error {
	a, err := s.audio(args, 2)
	if err != nil {
		return err
	}
	v, err := parseVolumes(args[1:2])
	if err != nil {
		return err
	}
	return a.SetAverageVolume(v[0])
}

func (s *Shell) cmdRun(ctx context.Context, w io.Writer) {
	result := &scenario.Result{Scenario: s.sc, Start: time.Now()}
	s.runner.Execute(ctx, s.env, result)
	r := scenario.NewTextReporter(w, true)
	r.Report(result)
}
