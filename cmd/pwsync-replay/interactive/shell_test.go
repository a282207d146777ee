package interactive

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwsync/pwsync-go/internal/scenario"
)

const shellScenario = `
name: shell
devices:
  - id: 40
    routes:
      - {index: 3, device: 1}
nodes:
  - id: 52
    props:
      media.class: Audio/Sink
      node.name: speakers
    channels: [Front Left, Front Right]
    volumes: [0.125, 0.125]
steps:
  - action: flush
`

func newShell(t *testing.T) *Shell {
	t.Helper()
	sc, err := scenario.Parse([]byte(shellScenario))
	require.NoError(t, err)
	s, err := New(scenario.NewRunner(scenario.Config{}), sc)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func exec(t *testing.T, s *Shell, line string) string {
	t.Helper()
	var buf bytes.Buffer
	assert.False(t, s.Exec(context.Background(), line, &buf))
	return buf.String()
}

func TestShellBindAndControl(t *testing.T) {
	s := newShell(t)

	assert.Contains(t, exec(t, s, "nodes"), `[52] Audio/Sink`)
	assert.Contains(t, exec(t, s, "mute 52 on"), "not bound")

	assert.Empty(t, exec(t, s, "bind 52"))
	assert.Empty(t, exec(t, s, "mute 52 on"))
	assert.Contains(t, exec(t, s, "flush"), "Delivered")

	out := exec(t, s, "show 52")
	assert.Contains(t, out, "Muted:        true")
	assert.Contains(t, out, "Bound:        true")

	assert.Contains(t, exec(t, s, "volume 52 0.5"), "channel count")
	assert.Empty(t, exec(t, s, "volume 52 0.5 0.25"))
	assert.Empty(t, exec(t, s, "avg 52 0.75"))
	assert.Contains(t, exec(t, s, "mute 52 maybe"), "invalid mute value")
}

func TestShellErrors(t *testing.T) {
	s := newShell(t)

	assert.Contains(t, exec(t, s, "show"), "expected at least 1 arguments")
	assert.Contains(t, exec(t, s, "show x"), "invalid node id")
	assert.Contains(t, exec(t, s, "show 9"), "unknown node 9")
	assert.Contains(t, exec(t, s, "dance"), "Unknown command: dance")
	assert.Contains(t, exec(t, s, "devices"), "[40] refs=0 bound=false")
}

func TestShellRunAndExit(t *testing.T) {
	s := newShell(t)

	assert.Contains(t, exec(t, s, "run"), "[PASS] shell")

	var buf bytes.Buffer
	assert.True(t, s.Exec(context.Background(), "exit", &buf))
}

const routedShellScenario = `
name: routed shell
devices:
  - id: 40
    routes:
      - {index: 3, device: 1}
nodes:
  - id: 53
    props:
      media.class: Audio/Sink
      device.id: "40"
    channels: [Front Left, Front Right]
    volumes: [0.125, 0.125]
steps:
  - action: bind
    node: 53
  - action: info
    device: 40
    params:
      - {id: Route, flags: rw}
  - action: info
    node: 53
    props:
      media.class: Audio/Sink
      device.id: "40"
      card.profile.device: "1"
  - action: flush
`

func TestShellShowRouteIndex(t *testing.T) {
	sc, err := scenario.Parse([]byte(routedShellScenario))
	require.NoError(t, err)
	s, err := New(scenario.NewRunner(scenario.Config{}), sc)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	assert.Contains(t, exec(t, s, "show 53"), "Device:       40 (route device -1, no route)")
	assert.Contains(t, exec(t, s, "run"), "[PASS] routed shell")
	assert.Contains(t, exec(t, s, "show 53"), "Device:       40 (route device 1, index 3)")
	assert.Contains(t, exec(t, s, "devices"), "route device 1 -> index 3")
}
