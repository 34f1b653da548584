package contracts

// MIDI represents a single channel-voice MIDI event.
type MIDI struct {
	Timestamp uint64 // Timestamp indicates the time the event occurred, in nanoseconds.
	Command   byte   // Command is the status high nibble (e.g. Control Change, Note On).
	Channel   byte   // Channel is the MIDI channel (0-15) from the status low nibble.
	Control   byte   // Control is the first data byte: controller number or note (0-127).
	Value     byte   // Value is the second data byte: controller value or velocity (0-127).
}

// ClientMIDI defines an interface for MIDI client operations.
type ClientMIDI interface {
	Stop() error                          // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)   // Lists all available MIDI devices.
	SelectDevice(deviceID int) error      // Selects a MIDI device by its ID for communication.
	SelectDeviceByName(name string) error // Selects the first device whose name contains the given string.
	StartCapture(eventChannel chan MIDI)  // Starts capturing MIDI events and sends them to the specified channel.
	Send(event MIDI) error                // Sends an event to the selected device's output (LED feedback).
}
