package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pwsync/pwsync-go/pkg/log"
	"github.com/pwsync/pwsync-go/pkg/pipewire"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

// ErrorNames maps the error names usable in a step to engine errors.
var ErrorNames = map[string]error{
	"not_bound":              pipewire.ErrNotBound,
	"unknown_route":          pipewire.ErrUnknownRoute,
	"channel_count_mismatch": pipewire.ErrChannelCountMismatch,
	"command_failed":         pipewire.ErrCommandFailed,
}

var changeNames = map[string]pipewire.Change{
	pipewire.ChangeProperties.String(): pipewire.ChangeProperties,
	pipewire.ChangeChannels.String():   pipewire.ChangeChannels,
	pipewire.ChangeVolumes.String():    pipewire.ChangeVolumes,
	pipewire.ChangeMuted.String():      pipewire.ChangeMuted,
}

// ParseChange converts a change name such as "volumes".
func ParseChange(name string) (pipewire.Change, error) {
	c, ok := changeNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown change %q", name)
	}
	return c, nil
}

// MaxFlushRounds bounds event ping-pong during a flush step.
const MaxFlushRounds = 64

// Config configures a Runner.
type Config struct {
	// Logger is the optional logger for engine output.
	Logger *slog.Logger

	// EventLog receives engine capture events.
	EventLog log.Logger
}

// Check is the outcome of one expectation.
type Check struct {
	Key      string
	Expected any
	Actual   any
	Passed   bool
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index    int
	Step     *Step
	Passed   bool
	Error    error
	Checks   []Check
	Duration time.Duration
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario *Scenario
	RunID    string
	Passed   bool
	Error    error
	Steps    []*StepResult
	Start    time.Time
	Duration time.Duration
}

// Env is the live state of a scenario run.
type Env struct {
	Server   *Server
	Registry *pipewire.Registry

	mu            sync.Mutex
	notifications map[uint32]map[pipewire.Change]int
	unsubscribe   []func()
}

// Notifications returns and resets the change counts of a node.
func (e *Env) Notifications(node uint32) map[pipewire.Change]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts := e.notifications[node]
	delete(e.notifications, node)
	return counts
}

// Flush delivers queued server events and waits for queued node delivery.
func (e *Env) Flush() int {
	return e.Server.Flush(MaxFlushRounds, func() {
		for _, n := range e.Registry.Nodes() {
			n.Sync()
		}
	})
}

// Close unbinds every node and drops subscriptions.
func (e *Env) Close() {
	for _, n := range e.Registry.Nodes() {
		n.Unbind()
	}
	e.mu.Lock()
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()
	for _, f := range unsubscribe {
		f()
	}
}

func (e *Env) node(id uint32) (*pipewire.Node, error) {
	n := e.Registry.Node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: node %d", ErrUnknownObject, id)
	}
	return n, nil
}

func (e *Env) audio(id uint32) (*pipewire.AudioBinding, error) {
	n, err := e.node(id)
	if err != nil {
		return nil, err
	}
	a := n.Audio()
	if a == nil {
		return nil, fmt.Errorf("node %d is not an audio node", id)
	}
	return a, nil
}

type handler func(step *Step, env *Env) ([]Check, error)

// Runner executes scenarios.
type Runner struct {
	cfg      Config
	handlers map[string]handler
}

// NewRunner creates a runner with every step action registered.
func NewRunner(cfg Config) *Runner {
	r := &Runner{cfg: cfg, handlers: make(map[string]handler)}
	r.handlers[ActionBind] = handleBind
	r.handlers[ActionUnbind] = handleUnbind
	r.handlers[ActionInfo] = handleInfo
	r.handlers[ActionParam] = handleParam
	r.handlers[ActionRoute] = handleRoute
	r.handlers[ActionReject] = handleReject
	r.handlers[ActionSetMuted] = handleSetMuted
	r.handlers[ActionSetVolumes] = handleSetVolumes
	r.handlers[ActionSetAverageVolume] = handleSetAverageVolume
	r.handlers[ActionRemoveDevice] = handleRemoveDevice
	r.handlers[ActionFlush] = handleFlush
	r.handlers[ActionExpect] = handleExpect
	return r
}

// Setup builds the server and engine objects of a scenario.
func (r *Runner) Setup(sc *Scenario) (*Env, error) {
	env := &Env{
		Server: NewServer(),
		Registry: pipewire.NewRegistry(pipewire.RegistryConfig{
			QueueSize: sc.QueueSize,
			Logger:    r.cfg.Logger,
			EventLog:  r.cfg.EventLog,
		}),
		notifications: make(map[uint32]map[pipewire.Change]int),
	}

	for _, d := range sc.Devices {
		routes := make([]pipewire.Route, len(d.Routes))
		for i, rt := range d.Routes {
			routes[i] = pipewire.Route{Index: rt.Index, Device: rt.Device}
		}
		proxy := env.Server.AddDevice(d.ID, routes)
		if _, err := env.Registry.AddDevice(d.ID, proxy); err != nil {
			return nil, err
		}
	}

	for _, spec := range sc.Nodes {
		channels, err := ParseChannels(spec.Channels)
		if err != nil {
			return nil, err
		}
		env.Server.AddNode(spec.ID, spec.Props, channels, spec.Volumes, spec.Muted)
		n, err := env.Registry.AddNode(spec.ID, spec.Props)
		if err != nil {
			return nil, err
		}
		id := spec.ID
		env.unsubscribe = append(env.unsubscribe, n.Subscribe(pipewire.SubscriberFunc(
			func(_ *pipewire.Node, c pipewire.Change) {
				env.mu.Lock()
				defer env.mu.Unlock()
				if env.notifications[id] == nil {
					env.notifications[id] = make(map[pipewire.Change]int)
				}
				env.notifications[id][c]++
			})))
	}
	return env, nil
}

// Run executes a scenario on a fresh environment.
func (r *Runner) Run(ctx context.Context, sc *Scenario) *Result {
	result := &Result{Scenario: sc, RunID: uuid.NewString(), Start: time.Now()}

	env, err := r.Setup(sc)
	if err != nil {
		result.Error = fmt.Errorf("setup: %w", err)
		result.Duration = time.Since(result.Start)
		return result
	}
	defer env.Close()

	r.Execute(ctx, env, result)
	return result
}

// Execute runs the steps of result.Scenario against env. It stops at the
// first failing step or when ctx is done.
func (r *Runner) Execute(ctx context.Context, env *Env, result *Result) {
	sc := result.Scenario
	for i := range sc.Steps {
		if err := ctx.Err(); err != nil {
			result.Error = err
			break
		}
		sr := r.executeStep(&sc.Steps[i], i, env)
		result.Steps = append(result.Steps, sr)
		if !sr.Passed {
			result.Error = sr.Error
			break
		}
	}
	result.Passed = result.Error == nil
	result.Duration = time.Since(result.Start)
}

func (r *Runner) executeStep(step *Step, index int, env *Env) *StepResult {
	start := time.Now()
	sr := &StepResult{Index: index, Step: step}

	h, ok := r.handlers[step.Action]
	if !ok {
		sr.Error = fmt.Errorf("unknown action %q", step.Action)
		sr.Duration = time.Since(start)
		return sr
	}

	checks, err := h(step, env)
	sr.Checks = checks
	sr.Error = err
	sr.Passed = err == nil
	for _, c := range checks {
		if !c.Passed {
			sr.Passed = false
			if sr.Error == nil {
				sr.Error = fmt.Errorf("%s: expected %v, got %v", c.Key, c.Expected, c.Actual)
			}
		}
	}
	sr.Duration = time.Since(start)
	return sr
}

// expectError compares a control call result with the step's expected
// error name.
func expectError(step *Step, err error) error {
	if step.Error == "" {
		return err
	}
	want := ErrorNames[step.Error]
	if !errors.Is(err, want) {
		return fmt.Errorf("expected error %s, got %v", step.Error, err)
	}
	return nil
}

func handleBind(step *Step, env *Env) ([]Check, error) {
	n, err := env.node(step.Node)
	if err != nil {
		return nil, err
	}
	proxy, err := env.Server.Proxy(step.Node)
	if err != nil {
		return nil, err
	}
	return nil, n.Bind(proxy)
}

func handleUnbind(step *Step, env *Env) ([]Check, error) {
	n, err := env.node(step.Node)
	if err != nil {
		return nil, err
	}
	n.Unbind()
	return nil, nil
}

func handleInfo(step *Step, env *Env) ([]Check, error) {
	info := &pipewire.InfoEvent{}
	if step.Props != nil {
		info.ChangeMask |= pipewire.ChangeMaskProps
		info.Props = step.Props
	}
	if step.Params != nil {
		info.ChangeMask |= pipewire.ChangeMaskParams
		for _, p := range step.Params {
			id, err := ParseParamType(p.ID)
			if err != nil {
				return nil, err
			}
			flags, err := ParseParamFlags(p.Flags)
			if err != nil {
				return nil, err
			}
			info.Params = append(info.Params, pipewire.ParamDescriptor{ID: id, Flags: flags})
		}
	}
	target := step.Node
	if step.Device != 0 {
		target = step.Device
	}
	return nil, env.Server.PushInfo(target, info)
}

func handleParam(step *Step, env *Env) ([]Check, error) {
	channels, err := ParseChannels(step.Channels)
	if err != nil {
		return nil, err
	}
	return nil, env.Server.PushProps(step.Node, channels, step.Volumes, step.Muted)
}

func handleRoute(step *Step, env *Env) ([]Check, error) {
	return nil, env.Server.PushRoute(step.Device, pipewire.Route{
		Index:  step.Route.Index,
		Device: step.Route.Device,
	})
}

func handleReject(step *Step, env *Env) ([]Check, error) {
	target := step.Node
	if step.Device != 0 {
		target = step.Device
	}
	return nil, env.Server.RejectNext(target)
}

func handleSetMuted(step *Step, env *Env) ([]Check, error) {
	a, err := env.audio(step.Node)
	if err != nil {
		return nil, err
	}
	return nil, expectError(step, a.SetMuted(*step.Muted))
}

func handleSetVolumes(step *Step, env *Env) ([]Check, error) {
	a, err := env.audio(step.Node)
	if err != nil {
		return nil, err
	}
	return nil, expectError(step, a.SetVolumes(step.Volumes))
}

func handleSetAverageVolume(step *Step, env *Env) ([]Check, error) {
	a, err := env.audio(step.Node)
	if err != nil {
		return nil, err
	}
	return nil, expectError(step, a.SetAverageVolume(*step.Value))
}

// handleRemoveDevice forgets a device as if its global went away. Nodes
// holding it keep controlling it.
func handleRemoveDevice(step *Step, env *Env) ([]Check, error) {
	env.Registry.RemoveDevice(step.Device)
	return nil, nil
}

func handleFlush(_ *Step, env *Env) ([]Check, error) {
	env.Flush()
	if n := env.Server.Pending(); n > 0 {
		return nil, fmt.Errorf("%d events still pending after %d rounds", n, MaxFlushRounds)
	}
	return nil, nil
}

func handleExpect(step *Step, env *Env) ([]Check, error) {
	exp := step.Expect
	var checks []Check
	add := func(key string, expected, actual any, passed bool) {
		checks = append(checks, Check{Key: key, Expected: expected, Actual: actual, Passed: passed})
	}

	for id, want := range exp.Commands {
		got := env.Server.SetParamCount(id)
		add(fmt.Sprintf("commands[%d]", id), want, got, got == want)
	}
	if exp.DeviceRefs != nil {
		d := env.Registry.Device(step.Device)
		if d == nil {
			return checks, fmt.Errorf("%w: device %d", ErrUnknownObject, step.Device)
		}
		add("device_refs", *exp.DeviceRefs, d.Refs(), d.Refs() == *exp.DeviceRefs)
	}
	if step.Node == 0 {
		return checks, nil
	}

	n, err := env.node(step.Node)
	if err != nil {
		return checks, err
	}
	if exp.Bound != nil {
		add("bound", *exp.Bound, n.IsBound(), n.IsBound() == *exp.Bound)
	}
	if exp.Route != nil {
		add("route_device", *exp.Route, n.RouteDevice(), n.RouteDevice() == *exp.Route)
	}
	if exp.RouteIndex != nil {
		got := int32(-1)
		if d := n.Device(); d != nil {
			if index, ok := d.RouteIndex(n.RouteDevice()); ok {
				got = index
			}
		}
		add("route_index", *exp.RouteIndex, got, got == *exp.RouteIndex)
	}
	if exp.Properties != nil {
		got := n.Properties()
		ok := len(got) == len(exp.Properties)
		for k, v := range exp.Properties {
			if got[k] != v {
				ok = false
			}
		}
		add("properties", exp.Properties, got, ok)
	}
	if exp.Notifications != nil {
		counts := env.Notifications(step.Node)
		for name, want := range exp.Notifications {
			c, _ := ParseChange(name)
			add("notifications."+name, want, counts[c], counts[c] == want)
		}
	}

	if exp.Channels == nil && exp.Volumes == nil && exp.Muted == nil {
		return checks, nil
	}
	a := n.Audio()
	if a == nil {
		return checks, fmt.Errorf("node %d is not an audio node", step.Node)
	}
	if exp.Channels != nil {
		want, err := ParseChannels(exp.Channels)
		if err != nil {
			return checks, err
		}
		got := a.Channels()
		add("channels", channelNames(want), channelNames(got), slices.Equal(want, got))
	}
	if exp.Volumes != nil {
		tol := exp.Tolerance
		if tol == 0 {
			tol = DefaultTolerance
		}
		got := a.Volumes()
		add("volumes", exp.Volumes, got, volumesEqual(exp.Volumes, got, tol))
	}
	if exp.Muted != nil {
		add("muted", *exp.Muted, a.Muted(), a.Muted() == *exp.Muted)
	}
	return checks, nil
}

func channelNames(channels []spa.AudioChannel) []string {
	out := make([]string, len(channels))
	for i, c := range channels {
		out[i] = c.String()
	}
	return out
}

func volumesEqual(want, got []float32, tol float32) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if math.Abs(float64(want[i]-got[i])) > float64(tol) {
			return false
		}
	}
	return true
}
