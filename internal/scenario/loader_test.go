package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwsync/pwsync-go/pkg/spa"
)

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(`
name: minimal
nodes:
  - id: 52
    props: {media.class: Audio/Sink}
    channels: [Front Left, Aux 2]
steps:
  - action: bind
    node: 52
  - action: set-muted
    node: 52
    muted: true
    error: not_bound
`))
	require.NoError(t, err)
	assert.Equal(t, "minimal", sc.Name)
	require.Len(t, sc.Steps, 2)
	require.NotNil(t, sc.Steps[1].Muted)
	assert.True(t, *sc.Steps[1].Muted)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"BadYAML", "name: [", "failed to parse YAML"},
		{"NoName", "steps: [{action: flush}]", "scenario name is required"},
		{"NoSteps", "name: x", "at least one step"},
		{"UnknownAction", "name: x\nsteps: [{action: dance}]", `unknown action "dance"`},
		{"UnknownNode", "name: x\nsteps: [{action: bind, node: 7}]", "unknown node 7"},
		{"UnknownChannel", "name: x\nnodes: [{id: 1, channels: [Middle]}]\nsteps: [{action: flush}]", `unknown channel "Middle"`},
		{"MutedRequired", "name: x\nnodes: [{id: 1}]\nsteps: [{action: set-muted, node: 1}]", "muted is required"},
		{"UnknownError", "name: x\nnodes: [{id: 1}]\nsteps: [{action: bind, node: 1, error: oops}]", `unknown error name "oops"`},
		{"UnknownParam", "name: x\nnodes: [{id: 1}]\nsteps: [{action: info, node: 1, params: [{id: Bogus, flags: r}]}]", `unknown param "Bogus"`},
		{"DuplicateNode", "name: x\nnodes: [{id: 1}, {id: 1}]\nsteps: [{action: flush}]", "duplicate node 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSetsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nsteps: [{action: bind, node: 9}]"), 0o644))

	_, err := Load(path)
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, path, le.File)
	assert.Equal(t, 1, le.Step)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDirectory(t *testing.T) {
	scs, err := LoadDirectory("testdata")
	require.NoError(t, err)
	require.Len(t, scs, 2)
	for _, sc := range scs {
		assert.NotEmpty(t, sc.File)
	}

	scs, err = LoadPaths([]string{"testdata/direct_sink.yaml", "testdata"})
	require.NoError(t, err)
	assert.Len(t, scs, 3)
}

func TestParseHelpers(t *testing.T) {
	channels, err := ParseChannels([]string{"Front Right", "Custom 1"})
	require.NoError(t, err)
	assert.Equal(t, []spa.AudioChannel{spa.ChannelFrontRight, spa.ChannelCustomStart}, channels)

	p, err := ParseParamType("route")
	require.NoError(t, err)
	assert.Equal(t, spa.ParamRoute, p)

	f, err := ParseParamFlags("rw")
	require.NoError(t, err)
	assert.True(t, f.CanRead())
	assert.True(t, f.CanWrite())

	_, err = ParseParamFlags("x")
	assert.Error(t, err)
}
