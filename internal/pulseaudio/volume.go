package pulseaudio

import "github.com/jfreymuth/pulse/proto"

// volumeNorm is PA_VOLUME_NORM, 100% unamplified volume.
const volumeNorm = 0x10000

// ratioToVolume converts a ratio of full volume into PulseAudio volume
// units. Negative ratios clamp to silence.
func ratioToVolume(ratio float64) uint32 {
	if ratio < 0 {
		return 0
	}
	return uint32(ratio*volumeNorm + 0.5)
}

// channelVolumes builds a uniform volume for every channel of a device.
// Devices that did not report a channel count are assumed stereo.
func channelVolumes(channels int, vol uint32) proto.ChannelVolumes {
	if channels <= 0 {
		channels = 2
	}
	cv := make(proto.ChannelVolumes, channels)
	for i := range cv {
		cv[i] = vol
	}
	return cv
}
