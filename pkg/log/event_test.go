package log

import "testing"

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionIn, "IN"},
		{DirectionOut, "OUT"},
		{DirectionLocal, "LOCAL"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerDecoder, "DECODER"},
		{LayerNode, "NODE"},
		{LayerDevice, "DEVICE"},
		{LayerAudio, "AUDIO"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.layer.String(); got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrorMalformed, "MALFORMED"},
		{ErrorInconsistent, "INCONSISTENT"},
		{ErrorNotReady, "NOT_READY"},
		{ErrorRejected, "REJECTED"},
		{ErrorKind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNewParamEventDataTruncates(t *testing.T) {
	payload := make([]byte, MaxPayloadCapture+10)
	payload[0] = 0xAB

	p := NewParamEventData(2, 0, payload)
	if !p.Truncated {
		t.Error("expected Truncated=true")
	}
	if p.Size != len(payload) {
		t.Errorf("Size = %d, want %d", p.Size, len(payload))
	}
	if len(p.Data) != MaxPayloadCapture {
		t.Errorf("len(Data) = %d, want %d", len(p.Data), MaxPayloadCapture)
	}

	// Captured data must not alias the caller's buffer.
	payload[0] = 0
	if p.Data[0] != 0xAB {
		t.Error("captured data aliases the payload")
	}

	small := NewParamEventData(2, 1, []byte{1, 2})
	if small.Truncated || len(small.Data) != 2 {
		t.Errorf("unexpected capture of small payload: %+v", small)
	}
}
