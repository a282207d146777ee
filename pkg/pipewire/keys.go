package pipewire

// Property keys read from node info.
const (
	KeyMediaClass      = "media.class"
	KeyNodeName        = "node.name"
	KeyNodeDescription = "node.description"
	KeyNodeNick        = "node.nick"
	KeyDeviceID        = "device.id"

	// KeyRouteDevice names the device-side route a node is attached to.
	KeyRouteDevice = "card.profile.device"
)

// Media classes recognized as audio.
const (
	MediaClassAudioSink         = "Audio/Sink"
	MediaClassAudioSource       = "Audio/Source"
	MediaClassStreamOutputAudio = "Stream/Output/Audio"
	MediaClassStreamInputAudio  = "Stream/Input/Audio"
)
