package pipewire_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwsync/pwsync-go/pkg/pipewire"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

// fakeProxy is a Proxy that only counts calls. The generated mock formats
// its arguments through reflection, which reads the listener while other
// goroutines write it.
type fakeProxy struct {
	mu        sync.Mutex
	next      pipewire.ListenerHandle
	listeners map[pipewire.ListenerHandle]pipewire.Listener
	added     int
	removed   int
	sets      int
}

func newFakeProxy() *fakeProxy {
	return &fakeProxy{listeners: make(map[pipewire.ListenerHandle]pipewire.Listener)}
}

func (p *fakeProxy) AddListener(l pipewire.Listener) (pipewire.ListenerHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	p.added++
	p.listeners[p.next] = l
	return p.next, nil
}

func (p *fakeProxy) RemoveListener(h pipewire.ListenerHandle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed++
	delete(p.listeners, h)
}

func (p *fakeProxy) EnumParams(spa.ParamType, uint32, uint32) error { return nil }

func (p *fakeProxy) SetParam(spa.ParamType, uint32, []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sets++
	return nil
}

func (p *fakeProxy) counts() (added, removed, active int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.added, p.removed, len(p.listeners)
}

func TestDeviceConcurrentAcquireRelease(t *testing.T) {
	proxy := newFakeProxy()
	dev := pipewire.NewDevice(40, proxy, pipewire.DeviceConfig{})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				ref, err := dev.Acquire()
				if !assert.NoError(t, err) {
					return
				}
				_ = dev.IsBound()
				ref.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, dev.Refs())
	assert.False(t, dev.IsBound())
	added, removed, active := proxy.counts()
	assert.Equal(t, added, removed)
	assert.Zero(t, active)
}

func TestAudioBindingConcurrentControlAndEvents(t *testing.T) {
	proxy := newFakeProxy()
	n := pipewire.NewNode(52, pipewire.DefaultNodeConfig())
	n.InitProps(map[string]string{pipewire.KeyMediaClass: pipewire.MediaClassAudioSink})
	require.NoError(t, n.Bind(proxy))
	defer n.Unbind()

	unsubscribe := n.Subscribe(pipewire.SubscriberFunc(func(node *pipewire.Node, _ pipewire.Change) {
		_ = node.Audio().Volumes()
	}))
	defer unsubscribe()

	audio := n.Audio()
	mono := propsPayload(t, stereo[:1], []float32{0.5}, false)
	both := propsPayload(t, stereo, []float32{0.125, 1}, true)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			volumes := []float32{float32(i) / 20, 0.5}
			if i%2 == 0 {
				volumes = volumes[:1]
			}
			// Channel count changes underneath, so mismatches are expected.
			_ = audio.SetVolumes(volumes)
			_ = audio.SetMuted(i%3 == 0)
		}()
		go func() {
			defer wg.Done()
			payload := both
			if i%2 == 0 {
				payload = mono
			}
			n.OnParam(&pipewire.ParamEvent{ID: spa.ParamProps, Payload: payload})
			_ = audio.AverageVolume()
		}()
	}
	wg.Wait()

	assert.Len(t, audio.Volumes(), len(audio.Channels()))
	assert.True(t, n.IsBound())
}
