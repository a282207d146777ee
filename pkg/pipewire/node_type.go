package pipewire

// NodeType classifies a node by its media class.
type NodeType uint8

const (
	NodeUnknown NodeType = iota
	NodeAudioSink
	NodeAudioSource
	NodeAudioOutputStream
	NodeAudioInputStream
)

// ClassifyMediaClass maps a media.class value to a NodeType. Unrecognized
// classes return NodeUnknown.
func ClassifyMediaClass(class string) NodeType {
	switch class {
	case MediaClassAudioSink:
		return NodeAudioSink
	case MediaClassAudioSource:
		return NodeAudioSource
	case MediaClassStreamOutputAudio:
		return NodeAudioOutputStream
	case MediaClassStreamInputAudio:
		return NodeAudioInputStream
	default:
		return NodeUnknown
	}
}

// IsAudio returns true for every recognized type.
func (t NodeType) IsAudio() bool {
	return t != NodeUnknown
}

// IsSink returns true if the node consumes audio. An input stream is a sink
// from the server's point of view.
func (t NodeType) IsSink() bool {
	return t == NodeAudioSink || t == NodeAudioInputStream
}

// IsStream returns true for application streams.
func (t NodeType) IsStream() bool {
	return t == NodeAudioOutputStream || t == NodeAudioInputStream
}

// String returns the media class the type was classified from.
func (t NodeType) String() string {
	switch t {
	case NodeAudioSink:
		return MediaClassAudioSink
	case NodeAudioSource:
		return MediaClassAudioSource
	case NodeAudioOutputStream:
		return MediaClassStreamOutputAudio
	case NodeAudioInputStream:
		return MediaClassStreamInputAudio
	default:
		return "Unknown"
	}
}
