package spa

import "testing"

func TestAudioChannelString(t *testing.T) {
	tests := []struct {
		channel AudioChannel
		want    string
	}{
		{ChannelUnknown, "Unknown"},
		{ChannelNA, "N/A"},
		{ChannelFrontLeft, "Front Left"},
		{ChannelLowFrequencyEffects2, "Low Frequency Effects 2"},
		{ChannelBottomRightCenter, "Bottom Right Center"},
		{ChannelAuxStart, "Aux 1"},
		{ChannelAuxStart + 63, "Aux 64"},
		{ChannelAuxEnd, "Aux 4096"},
		{ChannelCustomStart, "Custom 1"},
		{ChannelCustomStart + 2, "Custom 3"},
		{38, "Unknown"},
		{0x0fff, "Unknown"},
		{0x2000, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.channel.String(); got != tt.want {
				t.Errorf("AudioChannel(0x%x).String() = %q, want %q", uint32(tt.channel), got, tt.want)
			}
		})
	}
}

func TestChannelByName(t *testing.T) {
	tests := []struct {
		name   string
		want   AudioChannel
		wantOK bool
	}{
		{"Front Right", ChannelFrontRight, true},
		{"Mono", ChannelMono, true},
		{"Aux 1", ChannelAuxStart, true},
		{"Custom 3", ChannelCustomStart + 2, true},
		{"Aux 0", ChannelUnknown, false},
		{"Aux 4097", ChannelUnknown, false},
		{"Left-ish", ChannelUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChannelByName(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ChannelByName(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
