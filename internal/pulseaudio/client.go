// Package pulseaudio controls sink, source and playback-stream volumes over
// the PulseAudio native protocol.
package pulseaudio

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/jfreymuth/pulse/proto"

	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// ErrUnknownDeviceKind is returned when a Device has an unrecognized kind.
var ErrUnknownDeviceKind = errors.New("unknown audio device kind")

// Kind distinguishes playback devices from capture devices.
type Kind int

const (
	// Sink is a playback device (audio output).
	Sink Kind = iota
	// Source is a capture device (audio input).
	Source
)

// Device is a PulseAudio sink or source.
type Device struct {
	Kind     Kind
	Index    uint32
	Name     string
	Channels int
	Mute     bool
}

// Stream is a playback stream (sink input) attached to some sink.
type Stream struct {
	Index    uint32
	Name     string
	Channels int
}

// Client is a connection to the PulseAudio server.
type Client struct {
	c      *proto.Client
	conn   net.Conn
	logger contracts.Logger
}

// New connects to the default PulseAudio server, authenticates with the
// user's cookie and registers under the given application name.
func New(appName string, logger contracts.Logger) (*Client, error) {
	c, conn, err := proto.Connect("")
	if err != nil {
		return nil, fmt.Errorf("error connecting to PulseAudio: %w", err)
	}

	client := &Client{c: c, conn: conn, logger: logger}
	if err := client.handshake(appName); err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

func (c *Client) handshake(appName string) error {
	cookie, err := readCookie()
	if err != nil {
		// Same-uid unix socket connections may authenticate without one.
		c.logger.Debug("no PulseAudio auth cookie", c.logger.Field().Error("error", err))
	}

	var authReply proto.AuthReply
	if err := c.c.Request(&proto.Auth{Version: c.c.Version(), Cookie: cookie}, &authReply); err != nil {
		return fmt.Errorf("error authenticating with PulseAudio: %w", err)
	}
	c.c.SetVersion(authReply.Version)

	props := proto.PropList{
		"application.name": proto.PropListString(appName),
	}
	if err := c.c.Request(&proto.SetClientName{Props: props}, &proto.SetClientNameReply{}); err != nil {
		return fmt.Errorf("error registering PulseAudio client: %w", err)
	}
	return nil
}

// readCookie loads the PulseAudio auth cookie from its usual locations.
func readCookie() ([]byte, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	paths := []string{
		filepath.Join(home, ".config", "pulse", "cookie"),
		filepath.Join(home, ".pulse-cookie"),
	}
	var lastErr error
	for _, path := range paths {
		cookie, err := os.ReadFile(path)
		if err == nil {
			return cookie, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// Sinks lists the playback devices known to the server.
func (c *Client) Sinks() ([]Device, error) {
	var reply proto.GetSinkInfoListReply
	if err := c.c.Request(&proto.GetSinkInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("error listing sinks: %w", err)
	}

	devices := make([]Device, 0, len(reply))
	for _, s := range reply {
		devices = append(devices, Device{
			Kind:     Sink,
			Index:    s.SinkIndex,
			Name:     s.SinkName,
			Channels: len(s.ChannelVolumes),
			Mute:     s.Mute,
		})
	}
	return devices, nil
}

// Sources lists the capture devices known to the server.
func (c *Client) Sources() ([]Device, error) {
	var reply proto.GetSourceInfoListReply
	if err := c.c.Request(&proto.GetSourceInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("error listing sources: %w", err)
	}

	devices := make([]Device, 0, len(reply))
	for _, s := range reply {
		devices = append(devices, Device{
			Kind:     Source,
			Index:    s.SourceIndex,
			Name:     s.SourceName,
			Channels: len(s.ChannelVolumes),
			Mute:     s.Mute,
		})
	}
	return devices, nil
}

// SinkInputs lists the playback streams currently attached to sinks.
func (c *Client) SinkInputs() ([]Stream, error) {
	var reply proto.GetSinkInputInfoListReply
	if err := c.c.Request(&proto.GetSinkInputInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("error listing sink inputs: %w", err)
	}

	streams := make([]Stream, 0, len(reply))
	for _, s := range reply {
		streams = append(streams, Stream{
			Index:    s.SinkInputIndex,
			Name:     s.MediaName,
			Channels: len(s.ChannelVolumes),
		})
	}
	return streams, nil
}

// SetDeviceVolume sets all channels of a device to ratio, where 1.0 is
// full (unamplified) volume and values above 1.0 overdrive.
func (c *Client) SetDeviceVolume(d Device, ratio float64) error {
	cv := channelVolumes(d.Channels, ratioToVolume(ratio))
	switch d.Kind {
	case Sink:
		return c.c.Request(&proto.SetSinkVolume{SinkIndex: d.Index, ChannelVolumes: cv}, nil)
	case Source:
		return c.c.Request(&proto.SetSourceVolume{SourceIndex: d.Index, ChannelVolumes: cv}, nil)
	}
	return fmt.Errorf("%w: %d", ErrUnknownDeviceKind, d.Kind)
}

// SetDeviceMute mutes or unmutes a device.
func (c *Client) SetDeviceMute(d Device, mute bool) error {
	switch d.Kind {
	case Sink:
		return c.c.Request(&proto.SetSinkMute{SinkIndex: d.Index, Mute: mute}, nil)
	case Source:
		return c.c.Request(&proto.SetSourceMute{SourceIndex: d.Index, Mute: mute}, nil)
	}
	return fmt.Errorf("%w: %d", ErrUnknownDeviceKind, d.Kind)
}

// SetStreamVolume sets all channels of a playback stream to ratio.
// Fails when the stream has gone away, which callers treat as a signal to
// re-resolve their stream bindings.
func (c *Client) SetStreamVolume(s Stream, ratio float64) error {
	cv := channelVolumes(s.Channels, ratioToVolume(ratio))
	return c.c.Request(&proto.SetSinkInputVolume{SinkInputIndex: s.Index, ChannelVolumes: cv}, nil)
}

// Close disconnects from the server.
func (c *Client) Close() error {
	return c.conn.Close()
}
