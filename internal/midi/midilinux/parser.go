package midilinux

// messageParser decodes a raw ALSA MIDI byte stream into channel-voice
// messages, honoring running status. System real-time bytes are discarded
// and system common/exclusive bytes cancel running status, per the MIDI 1.0
// byte stream rules.
type messageParser struct {
	status byte
	data   [2]byte
	have   int
}

// Feed consumes raw bytes and returns the complete messages they finish.
// Each message is status byte plus two data bytes; two-byte messages
// (program change, channel pressure) carry a zero in the last slot.
func (p *messageParser) Feed(buf []byte) [][3]byte {
	var out [][3]byte
	for _, b := range buf {
		switch {
		case b >= 0xF8:
			// System real-time, may appear mid-message.
		case b >= 0xF0:
			p.status = 0
			p.have = 0
		case b >= 0x80:
			p.status = b
			p.have = 0
		default:
			if p.status == 0 {
				continue
			}
			p.data[p.have] = b
			p.have++
			if p.have == dataLen(p.status) {
				msg := [3]byte{p.status, p.data[0], 0}
				if p.have == 2 {
					msg[2] = p.data[1]
				}
				out = append(out, msg)
				p.have = 0
			}
		}
	}
	return out
}

// dataLen returns the number of data bytes for a channel-voice status byte.
func dataLen(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 1
	default:
		return 2
	}
}
