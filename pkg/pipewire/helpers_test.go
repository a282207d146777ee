package pipewire_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pwsync/pwsync-go/pkg/pipewire"
	"github.com/pwsync/pwsync-go/pkg/pipewire/mocks"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

func propsPayload(t *testing.T, channels []spa.AudioChannel, linear []float32, muted bool) []byte {
	t.Helper()
	ids := make([]uint32, len(channels))
	for i, c := range channels {
		ids[i] = uint32(c)
	}
	b := spa.NewBuilder()
	b.PushObject(spa.ObjectTypeProps, uint32(spa.ParamProps))
	b.Prop(spa.PropMute, 0)
	b.Bool(muted)
	b.Prop(spa.PropChannelVolumes, 0)
	b.FloatArray(linear)
	b.Prop(spa.PropChannelMap, 0)
	b.IDArray(ids)
	require.NoError(t, b.Pop())
	data, err := b.Bytes()
	require.NoError(t, err)
	return data
}

func routePayload(t *testing.T, index, device int32) []byte {
	t.Helper()
	b := spa.NewBuilder()
	b.PushObject(spa.ObjectTypeParamRoute, uint32(spa.ParamRoute))
	b.Prop(spa.RouteIndex, 0)
	b.Int(index)
	b.Prop(spa.RouteDevice, 0)
	b.Int(device)
	require.NoError(t, b.Pop())
	data, err := b.Bytes()
	require.NoError(t, err)
	return data
}

func propsParam(t *testing.T, channels []spa.AudioChannel, linear []float32, muted bool) *pipewire.ParamEvent {
	return &pipewire.ParamEvent{ID: spa.ParamProps, Payload: propsPayload(t, channels, linear, muted)}
}

var stereo = []spa.AudioChannel{spa.ChannelFrontLeft, spa.ChannelFrontRight}

// newBoundSink creates a bound Audio/Sink node without a device. Visual
// volumes are loaded through a Props event.
func newBoundSink(t *testing.T, visual []float32) (*pipewire.Node, *mocks.MockProxy) {
	t.Helper()
	proxy := mocks.NewMockProxy(t)
	proxy.EXPECT().AddListener(mock.Anything).Return(pipewire.ListenerHandle(1), nil).Once()

	n := pipewire.NewNode(52, pipewire.DefaultNodeConfig())
	n.InitProps(map[string]string{pipewire.KeyMediaClass: pipewire.MediaClassAudioSink})
	require.NoError(t, n.Bind(proxy))

	if visual != nil {
		linear := make([]float32, len(visual))
		for i, v := range visual {
			linear[i] = pipewire.VisualToLinear(v)
		}
		n.OnParam(propsParam(t, stereo[:len(visual)], linear, false))
	}
	return n, proxy
}

// decodeSentVolumes returns the linear channel volumes of a Props payload.
func decodeSentVolumes(t *testing.T, payload []byte) []float32 {
	t.Helper()
	obj, err := spa.ParseObject(payload)
	require.NoError(t, err)
	volumes, err := obj.FloatArray(spa.PropChannelVolumes)
	require.NoError(t, err)
	return volumes
}
