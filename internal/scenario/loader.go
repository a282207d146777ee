package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pwsync/pwsync-go/pkg/spa"
)

// Parse parses and validates a scenario from YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if sc.Name == "" {
		return nil, &LoadError{Message: "scenario name is required"}
	}
	if len(sc.Steps) == 0 {
		return nil, &LoadError{Message: "scenario must have at least one step"}
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}

	return &sc, nil
}

// Load loads a scenario from a file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	sc, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	sc.File = path
	return sc, nil
}

// LoadDirectory loads every .yaml or .yml scenario in dir.
func LoadDirectory(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{
			File:    dir,
			Message: "failed to read directory",
			Cause:   err,
		}
	}

	var out []*Scenario
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		sc, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// LoadPaths loads files and directories in order.
func LoadPaths(paths []string) ([]*Scenario, error) {
	var out []*Scenario
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &LoadError{File: p, Message: "failed to stat", Cause: err}
		}
		if info.IsDir() {
			scs, err := LoadDirectory(p)
			if err != nil {
				return nil, err
			}
			out = append(out, scs...)
			continue
		}
		sc, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

func (sc *Scenario) validate() error {
	nodes := make(map[uint32]bool, len(sc.Nodes))
	for _, n := range sc.Nodes {
		if nodes[n.ID] {
			return &LoadError{Message: fmt.Sprintf("duplicate node %d", n.ID)}
		}
		nodes[n.ID] = true
		if _, err := ParseChannels(n.Channels); err != nil {
			return &LoadError{Message: fmt.Sprintf("node %d", n.ID), Cause: err}
		}
	}
	devices := make(map[uint32]bool, len(sc.Devices))
	for _, d := range sc.Devices {
		if devices[d.ID] {
			return &LoadError{Message: fmt.Sprintf("duplicate device %d", d.ID)}
		}
		devices[d.ID] = true
	}

	for i := range sc.Steps {
		if err := sc.Steps[i].validate(nodes, devices); err != nil {
			return &LoadError{Step: i + 1, Message: err.Error()}
		}
	}
	return nil
}

func (s *Step) validate(nodes, devices map[uint32]bool) error {
	needNode := func() error {
		if !nodes[s.Node] {
			return fmt.Errorf("%s: unknown node %d", s.Action, s.Node)
		}
		return nil
	}
	needDevice := func() error {
		if !devices[s.Device] {
			return fmt.Errorf("%s: unknown device %d", s.Action, s.Device)
		}
		return nil
	}

	if s.Error != "" {
		if _, ok := ErrorNames[s.Error]; !ok {
			return fmt.Errorf("unknown error name %q", s.Error)
		}
	}
	if _, err := ParseChannels(s.Channels); err != nil {
		return err
	}
	for _, p := range s.Params {
		if _, err := ParseParamType(p.ID); err != nil {
			return err
		}
		if _, err := ParseParamFlags(p.Flags); err != nil {
			return err
		}
	}

	switch s.Action {
	case ActionBind, ActionUnbind, ActionParam, ActionSetVolumes:
		return needNode()
	case ActionSetMuted:
		if s.Muted == nil {
			return errors.New("set-muted: muted is required")
		}
		return needNode()
	case ActionSetAverageVolume:
		if s.Value == nil {
			return errors.New("set-average-volume: value is required")
		}
		return needNode()
	case ActionInfo, ActionReject:
		if s.Device != 0 {
			return needDevice()
		}
		return needNode()
	case ActionRoute:
		if s.Route == nil {
			return errors.New("route: route is required")
		}
		return needDevice()
	case ActionRemoveDevice:
		return needDevice()
	case ActionFlush:
		return nil
	case ActionExpect:
		if s.Expect == nil {
			return errors.New("expect: expect block is required")
		}
		if s.Expect.DeviceRefs != nil {
			if err := needDevice(); err != nil {
				return err
			}
		}
		if s.Expect.RouteIndex != nil {
			if err := needNode(); err != nil {
				return err
			}
		}
		for name := range s.Expect.Notifications {
			if _, err := ParseChange(name); err != nil {
				return err
			}
		}
		if _, err := ParseChannels(s.Expect.Channels); err != nil {
			return err
		}
		if s.Node != 0 {
			return needNode()
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
}

// ParseChannels converts channel names such as "Front Left" or "Aux 3".
func ParseChannels(names []string) ([]spa.AudioChannel, error) {
	if names == nil {
		return nil, nil
	}
	out := make([]spa.AudioChannel, len(names))
	for i, name := range names {
		c, ok := spa.ChannelByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown channel %q", name)
		}
		out[i] = c
	}
	return out, nil
}

var paramTypes = []spa.ParamType{
	spa.ParamPropInfo,
	spa.ParamProps,
	spa.ParamEnumFormat,
	spa.ParamFormat,
	spa.ParamEnumProfile,
	spa.ParamProfile,
	spa.ParamEnumRoute,
	spa.ParamRoute,
}

// ParseParamType converts a parameter name such as "Props".
func ParseParamType(name string) (spa.ParamType, error) {
	for _, p := range paramTypes {
		if strings.EqualFold(p.String(), name) {
			return p, nil
		}
	}
	return spa.ParamInvalid, fmt.Errorf("unknown param %q", name)
}

// ParseParamFlags converts "r", "w" or "rw".
func ParseParamFlags(s string) (spa.ParamInfoFlags, error) {
	var f spa.ParamInfoFlags
	for _, c := range s {
		switch c {
		case 'r':
			f |= spa.ParamInfoRead
		case 'w':
			f |= spa.ParamInfoWrite
		default:
			return 0, fmt.Errorf("unknown param flag %q", c)
		}
	}
	return f, nil
}
