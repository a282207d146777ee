package spa

import (
	"strconv"
	"strings"
)

// AudioChannel is a channel position from a channel map.
type AudioChannel uint32

// Channel positions.
const (
	ChannelUnknown                  AudioChannel = 0
	ChannelNA                       AudioChannel = 1
	ChannelMono                     AudioChannel = 2
	ChannelFrontLeft                AudioChannel = 3
	ChannelFrontRight               AudioChannel = 4
	ChannelFrontCenter              AudioChannel = 5
	ChannelLowFrequencyEffects      AudioChannel = 6
	ChannelSideLeft                 AudioChannel = 7
	ChannelSideRight                AudioChannel = 8
	ChannelFrontLeftCenter          AudioChannel = 9
	ChannelFrontRightCenter         AudioChannel = 10
	ChannelRearCenter               AudioChannel = 11
	ChannelRearLeft                 AudioChannel = 12
	ChannelRearRight                AudioChannel = 13
	ChannelTopCenter                AudioChannel = 14
	ChannelTopFrontLeft             AudioChannel = 15
	ChannelTopFrontCenter           AudioChannel = 16
	ChannelTopFrontRight            AudioChannel = 17
	ChannelTopRearLeft              AudioChannel = 18
	ChannelTopRearCenter            AudioChannel = 19
	ChannelTopRearRight             AudioChannel = 20
	ChannelRearLeftCenter           AudioChannel = 21
	ChannelRearRightCenter          AudioChannel = 22
	ChannelFrontLeftWide            AudioChannel = 23
	ChannelFrontRightWide           AudioChannel = 24
	ChannelLowFrequencyEffects2     AudioChannel = 25
	ChannelFrontLeftHigh            AudioChannel = 26
	ChannelFrontCenterHigh          AudioChannel = 27
	ChannelFrontRightHigh           AudioChannel = 28
	ChannelTopFrontLeftCenter       AudioChannel = 29
	ChannelTopFrontRightCenter      AudioChannel = 30
	ChannelTopSideLeft              AudioChannel = 31
	ChannelTopSideRight             AudioChannel = 32
	ChannelLowFrequencyEffectsLeft  AudioChannel = 33
	ChannelLowFrequencyEffectsRight AudioChannel = 34
	ChannelBottomCenter             AudioChannel = 35
	ChannelBottomLeftCenter         AudioChannel = 36
	ChannelBottomRightCenter        AudioChannel = 37

	// ChannelAuxStart is the first of the numbered auxiliary channels.
	ChannelAuxStart AudioChannel = 0x1000
	// ChannelAuxEnd is the last auxiliary channel.
	ChannelAuxEnd AudioChannel = 0x1fff
	// ChannelCustomStart is the first application-defined channel.
	ChannelCustomStart AudioChannel = 0x10000
)

var channelNames = map[AudioChannel]string{
	ChannelUnknown:                  "Unknown",
	ChannelNA:                       "N/A",
	ChannelMono:                     "Mono",
	ChannelFrontCenter:              "Front Center",
	ChannelFrontLeft:                "Front Left",
	ChannelFrontRight:               "Front Right",
	ChannelFrontLeftCenter:          "Front Left Center",
	ChannelFrontRightCenter:         "Front Right Center",
	ChannelFrontLeftWide:            "Front Left Wide",
	ChannelFrontRightWide:           "Front Right Wide",
	ChannelFrontCenterHigh:          "Front Center High",
	ChannelFrontLeftHigh:            "Front Left High",
	ChannelFrontRightHigh:           "Front Right High",
	ChannelLowFrequencyEffects:      "Low Frequency Effects",
	ChannelLowFrequencyEffects2:     "Low Frequency Effects 2",
	ChannelLowFrequencyEffectsLeft:  "Low Frequency Effects Left",
	ChannelLowFrequencyEffectsRight: "Low Frequency Effects Right",
	ChannelSideLeft:                 "Side Left",
	ChannelSideRight:                "Side Right",
	ChannelRearCenter:               "Rear Center",
	ChannelRearLeft:                 "Rear Left",
	ChannelRearRight:                "Rear Right",
	ChannelRearLeftCenter:           "Rear Left Center",
	ChannelRearRightCenter:          "Rear Right Center",
	ChannelTopCenter:                "Top Center",
	ChannelTopFrontCenter:           "Top Front Center",
	ChannelTopFrontLeft:             "Top Front Left",
	ChannelTopFrontRight:            "Top Front Right",
	ChannelTopFrontLeftCenter:       "Top Front Left Center",
	ChannelTopFrontRightCenter:      "Top Front Right Center",
	ChannelTopSideLeft:              "Top Side Left",
	ChannelTopSideRight:             "Top Side Right",
	ChannelTopRearCenter:            "Top Rear Center",
	ChannelTopRearLeft:              "Top Rear Left",
	ChannelTopRearRight:             "Top Rear Right",
	ChannelBottomCenter:             "Bottom Center",
	ChannelBottomLeftCenter:         "Bottom Left Center",
	ChannelBottomRightCenter:        "Bottom Right Center",
}

// String returns the display name of the channel. Auxiliary and custom
// channels are numbered from 1 within their range.
func (c AudioChannel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	switch {
	case c >= ChannelAuxStart && c <= ChannelAuxEnd:
		return "Aux " + strconv.FormatUint(uint64(c-ChannelAuxStart)+1, 10)
	case c >= ChannelCustomStart:
		return "Custom " + strconv.FormatUint(uint64(c-ChannelCustomStart)+1, 10)
	default:
		return "Unknown"
	}
}

// ChannelByName returns the channel with the given display name, accepting
// the numbered "Aux N" and "Custom N" forms.
func ChannelByName(name string) (AudioChannel, bool) {
	for ch, n := range channelNames {
		if n == name {
			return ch, true
		}
	}
	if rest, ok := strings.CutPrefix(name, "Aux "); ok {
		n, err := strconv.ParseUint(rest, 10, 32)
		if err == nil && n >= 1 && n <= uint64(ChannelAuxEnd-ChannelAuxStart)+1 {
			return ChannelAuxStart + AudioChannel(n-1), true
		}
	}
	if rest, ok := strings.CutPrefix(name, "Custom "); ok {
		n, err := strconv.ParseUint(rest, 10, 32)
		if err == nil && n >= 1 && n <= uint64(^uint32(0)-uint32(ChannelCustomStart)) {
			return ChannelCustomStart + AudioChannel(n-1), true
		}
	}
	return ChannelUnknown, false
}
