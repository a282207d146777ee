package pipewire_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pwsync/pwsync-go/pkg/log"
	"github.com/pwsync/pwsync-go/pkg/pipewire"
	"github.com/pwsync/pwsync-go/pkg/pipewire/mocks"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *eventRecorder) Log(event log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) byCategory(c log.Category) []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []log.Event
	for _, e := range r.events {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

func TestNodeCapturesEvents(t *testing.T) {
	rec := &eventRecorder{}
	var buf bytes.Buffer
	cfg := pipewire.DefaultNodeConfig()
	cfg.EventLog = rec
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	proxy := mocks.NewMockProxy(t)
	proxy.EXPECT().AddListener(mock.Anything).Return(pipewire.ListenerHandle(1), nil).Once()
	proxy.EXPECT().SetParam(spa.ParamProps, uint32(0), mock.Anything).Return(nil).Once()

	n := pipewire.NewNode(52, cfg)
	n.InitProps(map[string]string{
		pipewire.KeyMediaClass: pipewire.MediaClassAudioSink,
		pipewire.KeyNodeName:   "sink",
	})
	require.NoError(t, n.Bind(proxy))

	n.OnParam(&pipewire.ParamEvent{ID: spa.ParamProps, Payload: []byte{1, 2, 3}})
	n.OnParam(propsParam(t, stereo, []float32{1, 1}, false))
	require.NoError(t, n.Audio().SetMuted(true))

	errs := rec.byCategory(log.CategoryError)
	require.NotEmpty(t, errs)
	assert.Equal(t, log.ErrorMalformed, errs[0].Error.Kind)
	assert.Equal(t, log.LayerDecoder, errs[0].Layer)
	assert.Equal(t, uint32(52), errs[0].ObjectID)
	assert.Equal(t, "sink", errs[0].ObjectName)

	cmds := rec.byCategory(log.CategoryCommand)
	require.Len(t, cmds, 1)
	assert.Equal(t, log.CommandSetParam, cmds[0].Command.Method)
	require.NotNil(t, cmds[0].Command.Muted)
	assert.True(t, *cmds[0].Command.Muted)
	assert.Nil(t, cmds[0].Command.RouteDevice)

	assert.Len(t, rec.byCategory(log.CategoryEvent), 2)
	assert.NotEmpty(t, rec.byCategory(log.CategoryState))

	// Malformed input is logged at warn; state changes stay below the handler level.
	assert.Contains(t, buf.String(), "level=WARN")
	assert.NotContains(t, buf.String(), "level=INFO")
}
