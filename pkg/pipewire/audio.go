package pipewire

import (
	"fmt"
	"math"
	"slices"

	"github.com/pwsync/pwsync-go/pkg/log"
	"github.com/pwsync/pwsync-go/pkg/spa"
)

// AudioBinding caches the channel layout, perceptual volumes and mute state
// of an audio node. It shares the lock of its node.
type AudioBinding struct {
	node *Node

	channels []spa.AudioChannel
	volumes  []float32
	muted    bool
}

func newAudioBinding(node *Node) *AudioBinding {
	return &AudioBinding{node: node}
}

// Node returns the owning node.
func (a *AudioBinding) Node() *Node { return a.node }

// Channels returns a copy of the channel layout.
func (a *AudioBinding) Channels() []spa.AudioChannel {
	a.node.mu.Lock()
	defer a.node.mu.Unlock()
	return slices.Clone(a.channels)
}

// Volumes returns a copy of the perceptual channel volumes.
func (a *AudioBinding) Volumes() []float32 {
	a.node.mu.Lock()
	defer a.node.mu.Unlock()
	return slices.Clone(a.volumes)
}

// Muted returns the cached mute state.
func (a *AudioBinding) Muted() bool {
	a.node.mu.Lock()
	defer a.node.mu.Unlock()
	return a.muted
}

// AverageVolume returns the mean perceptual volume, or NaN when no channels
// are known.
func (a *AudioBinding) AverageVolume() float32 {
	a.node.mu.Lock()
	defer a.node.mu.Unlock()
	return a.averageLocked()
}

func (a *AudioBinding) averageLocked() float32 {
	if len(a.volumes) == 0 {
		return float32(math.NaN())
	}
	var sum float32
	for _, v := range a.volumes {
		sum += v
	}
	return sum / float32(len(a.volumes))
}

// SetMuted changes the mute state. Setting the current value is a no-op.
func (a *AudioBinding) SetMuted(muted bool) error {
	a.node.mu.Lock()
	changes, err := a.setMutedLocked(muted)
	a.node.mu.Unlock()
	a.node.notify(changes)
	return err
}

func (a *AudioBinding) setMutedLocked(muted bool) ([]Change, error) {
	n := a.node
	if n.proxy == nil {
		n.cap.fail(log.LayerAudio, n.name, log.ErrorNotReady, ErrNotBound, "set muted")
		return nil, ErrNotBound
	}
	if muted == a.muted {
		return nil, nil
	}

	via := "node"
	if n.device != nil {
		if err := n.device.SetMuted(n.routeDevice, muted); err != nil {
			return nil, err
		}
		via = "device"
	} else if err := a.setPropsLocked(muteProp(muted), &log.CommandEventData{Muted: &muted}); err != nil {
		return nil, err
	}

	n.cap.state(log.LayerAudio, n.name, log.StateFieldMuted, a.muted, muted, "set via "+via)
	a.muted = muted
	return []Change{ChangeMuted}, nil
}

// SetVolumes changes the perceptual channel volumes. The count must match
// the channel count. Setting the current values is a no-op.
func (a *AudioBinding) SetVolumes(volumes []float32) error {
	a.node.mu.Lock()
	changes, err := a.setVolumesLocked(volumes)
	a.node.mu.Unlock()
	a.node.notify(changes)
	return err
}

func (a *AudioBinding) setVolumesLocked(volumes []float32) ([]Change, error) {
	n := a.node
	if n.proxy == nil {
		n.cap.fail(log.LayerAudio, n.name, log.ErrorNotReady, ErrNotBound, "set volumes")
		return nil, ErrNotBound
	}
	if slices.Equal(volumes, a.volumes) {
		return nil, nil
	}
	if len(volumes) != len(a.channels) {
		err := fmt.Errorf("%w: got %d volumes for %d channels",
			ErrChannelCountMismatch, len(volumes), len(a.channels))
		n.cap.fail(log.LayerAudio, n.name, log.ErrorInconsistent, err, "set volumes")
		return nil, err
	}

	via := "node"
	if n.device != nil {
		if err := n.device.SetVolumes(n.routeDevice, volumes); err != nil {
			return nil, err
		}
		via = "device"
	} else if err := a.setPropsLocked(volumesProp(volumes), &log.CommandEventData{
		Volumes: slices.Clone(volumes),
	}); err != nil {
		return nil, err
	}

	n.cap.state(log.LayerAudio, n.name, log.StateFieldVolumes, a.volumes, volumes, "set via "+via)
	a.volumes = slices.Clone(volumes)
	return []Change{ChangeVolumes}, nil
}

// SetAverageVolume scales every channel so the mean becomes volume. When the
// current mean is zero every channel is set to volume.
func (a *AudioBinding) SetAverageVolume(volume float32) error {
	a.node.mu.Lock()
	avg := a.averageLocked()
	var mul float32
	if avg != 0 {
		mul = volume / avg
	}
	volumes := make([]float32, len(a.volumes))
	for i, v := range a.volumes {
		if mul == 0 {
			volumes[i] = volume
		} else {
			volumes[i] = v * mul
		}
	}
	changes, err := a.setVolumesLocked(volumes)
	a.node.mu.Unlock()

	a.node.notify(changes)
	return err
}

func (a *AudioBinding) setPropsLocked(write propsWriter, cmd *log.CommandEventData) error {
	n := a.node
	payload, err := encodeProps(write)
	if err != nil {
		return fmt.Errorf("encode props: %w", err)
	}
	if err := n.proxy.SetParam(spa.ParamProps, 0, payload); err != nil {
		n.cap.fail(log.LayerAudio, n.name, log.ErrorRejected, err, "set props")
		return fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}
	cmd.Method = log.CommandSetParam
	cmd.ParamID = uint32(spa.ParamProps)
	cmd.Size = len(payload)
	n.cap.command(log.LayerAudio, n.name, cmd)
	return nil
}

// onInfo requests Props whenever the node advertises them as readable.
func (a *AudioBinding) onInfo(info *InfoEvent) {
	n := a.node
	if info.ChangeMask&ChangeMaskParams == 0 {
		return
	}
	for _, p := range info.Params {
		if p.ID != spa.ParamProps || !p.Flags.CanRead() {
			continue
		}
		if err := n.proxy.EnumParams(spa.ParamProps, 0, math.MaxUint32); err != nil {
			n.cap.fail(log.LayerAudio, n.name, log.ErrorRejected, err, "enumerate props")
			continue
		}
		n.cap.command(log.LayerAudio, n.name, &log.CommandEventData{
			Method:  log.CommandEnumParams,
			ParamID: uint32(spa.ParamProps),
		})
	}
}

func (a *AudioBinding) onParam(param *ParamEvent) []Change {
	if param.ID != spa.ParamProps || param.Index != 0 {
		return nil
	}
	changes := a.updateVolumes(param.Payload)
	return append(changes, a.updateMuted(param.Payload)...)
}

func (a *AudioBinding) updateVolumes(payload []byte) []Change {
	n := a.node
	channels, volumes, err := DecodeChannelVolumes(payload)
	if err != nil {
		n.cap.fail(log.LayerDecoder, n.name, log.ErrorMalformed, err, "decode channel volumes")
		return nil
	}
	if len(channels) != len(volumes) {
		n.cap.fail(log.LayerAudio, n.name, log.ErrorInconsistent,
			fmt.Errorf("%w: %d volumes for %d channels", ErrChannelCountMismatch, len(volumes), len(channels)),
			"update volumes")
		return nil
	}

	var changes []Change
	if !slices.Equal(a.channels, channels) {
		n.cap.state(log.LayerAudio, n.name, log.StateFieldChannels, a.channels, channels, "props")
		a.channels = channels
		changes = append(changes, ChangeChannels)
	}
	if !slices.Equal(a.volumes, volumes) {
		n.cap.state(log.LayerAudio, n.name, log.StateFieldVolumes, a.volumes, volumes, "props")
		a.volumes = volumes
		changes = append(changes, ChangeVolumes)
	}
	return changes
}

func (a *AudioBinding) updateMuted(payload []byte) []Change {
	n := a.node
	muted, found, err := DecodeMute(payload)
	if err != nil {
		n.cap.fail(log.LayerDecoder, n.name, log.ErrorMalformed, err, "decode mute")
		return nil
	}
	if !found {
		n.cap.fail(log.LayerDecoder, n.name, log.ErrorMalformed,
			fmt.Errorf("mute: %w", spa.ErrPropNotFound), "decode mute")
		return nil
	}
	if muted == a.muted {
		return nil
	}
	n.cap.state(log.LayerAudio, n.name, log.StateFieldMuted, a.muted, muted, "props")
	a.muted = muted
	return []Change{ChangeMuted}
}

// onUnbind clears channels and volumes. Both changes are always reported.
func (a *AudioBinding) onUnbind() []Change {
	n := a.node
	n.cap.state(log.LayerAudio, n.name, log.StateFieldChannels, a.channels, "[]", "unbind")
	n.cap.state(log.LayerAudio, n.name, log.StateFieldVolumes, a.volumes, "[]", "unbind")
	a.channels = nil
	a.volumes = nil
	return []Change{ChangeChannels, ChangeVolumes}
}
