//go:build linux
// +build linux

package midilinux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrNoDeviceSelected  = errors.New("no MIDI device selected")
	ErrDeviceOpen        = errors.New("error opening MIDI device")
)

const sndDir = "/dev/snd"

// pollTimeoutMs bounds how long the reader blocks before checking for shutdown.
const pollTimeoutMs = 250

// rawmidiDevice is one ALSA rawmidi character device under /dev/snd.
type rawmidiDevice struct {
	path string
	card int
	dev  int
}

// info resolves the human-readable names for the device from procfs.
func (d rawmidiDevice) info() contracts.DeviceInfo {
	name := firstLine(fmt.Sprintf("/proc/asound/card%d/midi%d", d.card, d.dev))
	cardID := firstLine(fmt.Sprintf("/proc/asound/card%d/id", d.card))
	if name == "" {
		name = filepath.Base(d.path)
	}
	return contracts.DeviceInfo{
		Name:         name,
		EntityName:   cardID,
		Manufacturer: cardID,
	}
}

// firstLine reads the first line of a procfs file, or "" when unreadable.
func firstLine(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line)
}

// listRawmidi enumerates rawmidi devices in stable card/device order.
func listRawmidi() ([]rawmidiDevice, error) {
	paths, err := filepath.Glob(filepath.Join(sndDir, "midiC*D*"))
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", sndDir, err)
	}

	devices := make([]rawmidiDevice, 0, len(paths))
	for _, path := range paths {
		var card, dev int
		if _, err := fmt.Sscanf(filepath.Base(path), "midiC%dD%d", &card, &dev); err != nil {
			continue
		}
		devices = append(devices, rawmidiDevice{path: path, card: card, dev: dev})
	}
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].card != devices[j].card {
			return devices[i].card < devices[j].card
		}
		return devices[i].dev < devices[j].dev
	})
	return devices, nil
}

// ClientMid manages MIDI operations on Linux through ALSA rawmidi devices.
// The device file is opened read-write so the same handle carries captured
// events in and LED control-change messages out.
type ClientMid struct {
	logger          contracts.Logger
	eventChannel    atomic.Value               // Atomic storage for the event channel to ensure thread safety.
	midiEventFilter *contracts.MIDIEventFilter // Filter for specific MIDI events.

	mu       sync.Mutex // Guards fd, portConn and done.
	fd       int
	portConn bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewMIDIClient initializes a new ClientMid for handling MIDI events on Linux.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("MIDI client created for Linux (ALSA rawmidi)")
	return &ClientMid{
		logger:          options.Logger,
		midiEventFilter: options.MIDIEventFilter,
		fd:              -1,
	}, nil
}

// ListDevices retrieves and returns available MIDI devices.
// If no devices are found, an error is logged and returned.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	rawmidi, err := listRawmidi()
	if err != nil {
		return nil, err
	}
	if len(rawmidi) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(rawmidi))
	for i, d := range rawmidi {
		devices[i] = d.info()
	}
	return devices, nil
}

// SelectDevice selects a MIDI device by ID and opens it.
// If a device is already open, it is closed first.
func (m *ClientMid) SelectDevice(deviceID int) error {
	rawmidi, err := listRawmidi()
	if err != nil {
		return err
	}
	if deviceID < 0 || deviceID >= len(rawmidi) {
		m.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.portConn {
		if err := m.stopLocked(); err != nil {
			return fmt.Errorf("failed to stop previous MIDI capture: %w", err)
		}
	}

	device := rawmidi[deviceID]
	fd, err := unix.Open(device.path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		m.logger.Error(ErrDeviceOpen.Error(),
			m.logger.Field().String("path", device.path),
			m.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %s: %v", ErrDeviceOpen, device.path, err)
	}

	m.fd = fd
	m.portConn = true
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", device.info().Name),
		m.logger.Field().String("path", device.path))
	return nil
}

// SelectDeviceByName selects the first device whose name or card ID contains
// the given string, case-insensitively.
func (m *ClientMid) SelectDeviceByName(name string) error {
	rawmidi, err := listRawmidi()
	if err != nil {
		return err
	}

	want := strings.ToLower(name)
	for i, d := range rawmidi {
		info := d.info()
		if strings.Contains(strings.ToLower(info.Name), want) ||
			strings.Contains(strings.ToLower(info.EntityName), want) {
			return m.SelectDevice(i)
		}
	}

	m.logger.Error("no MIDI device matches name", m.logger.Field().String("name", name))
	return fmt.Errorf("%w: no device matching %q", ErrInvalidMIDIDevice, name)
}

// StartCapture begins reading the device and forwarding decoded events.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}
	if !m.portConn {
		m.logger.Error("Cannot start capture: no MIDI device selected")
		return
	}
	if m.done != nil {
		m.logger.Warn("Capture already started")
		return
	}

	m.eventChannel.Store(eventChannel)
	m.done = make(chan struct{})
	m.wg.Add(1)
	go m.readLoop(m.fd, m.done)
	m.logger.Info("MIDI capture started")
}

// readLoop polls the device and decodes the raw byte stream until stopped.
func (m *ClientMid) readLoop(fd int, done chan struct{}) {
	defer m.wg.Done()

	var parser messageParser
	buf := make([]byte, 256)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		select {
		case <-done:
			return
		default:
		}

		fds[0].Revents = 0
		n, err := unix.Poll(fds, pollTimeoutMs)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			m.logger.Error("MIDI poll failed", m.logger.Field().Error("error", err))
			return
		}
		if n == 0 {
			continue
		}

		nr, err := unix.Read(fd, buf)
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			m.logger.Error("MIDI read failed", m.logger.Field().Error("error", err))
			return
		}
		if nr == 0 {
			continue
		}

		for _, msg := range parser.Feed(buf[:nr]) {
			m.dispatch(msg)
		}
	}
}

// dispatch applies the event filter and forwards one decoded message.
func (m *ClientMid) dispatch(msg [3]byte) {
	event := contracts.MIDI{
		Timestamp: uint64(time.Now().UTC().UnixNano()),
		Command:   msg[0] & 0xF0,
		Channel:   msg[0] & 0x0F,
		Control:   msg[1],
		Value:     msg[2],
	}

	if m.midiEventFilter != nil && !isCommandAllowed(event.Command, m.midiEventFilter.Commands) {
		return
	}

	if ch, ok := m.eventChannel.Load().(chan contracts.MIDI); ok && ch != nil {
		select {
		case ch <- event:
		default:
			m.logger.Warn("MIDI event channel is full; event discarded")
		}
	}
}

// Send writes a channel-voice message to the device output.
func (m *ClientMid) Send(event contracts.MIDI) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		return ErrNoDeviceSelected
	}

	msg := []byte{event.Command | (event.Channel & 0x0F), event.Control & 0x7F, event.Value & 0x7F}
	if _, err := unix.Write(m.fd, msg); err != nil {
		return fmt.Errorf("error writing MIDI message: %w", err)
	}
	return nil
}

// Stop halts the reader goroutine and closes the device.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *ClientMid) stopLocked() error {
	if m.done != nil {
		close(m.done)
		m.done = nil
	}
	m.wg.Wait()

	if m.fd >= 0 {
		if err := unix.Close(m.fd); err != nil {
			m.logger.Error("failed to close MIDI device", m.logger.Field().Error("error", err))
			return err
		}
		m.fd = -1
	}

	m.portConn = false
	m.eventChannel.Store((chan contracts.MIDI)(nil))
	m.logger.Info("MIDI capture stopped and device closed")
	return nil
}

// isCommandAllowed checks if the MIDI command is allowed by the filter.
func isCommandAllowed(command byte, allowedCommands []contracts.MIDICommand) bool {
	for _, allowedCommand := range allowedCommands {
		if command == byte(allowedCommand) {
			return true
		}
	}
	return false
}
