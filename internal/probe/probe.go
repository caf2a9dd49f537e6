// Package probe exposes the observable channels of a remote C64 machine:
// the rendered text screen and raw memory. Transports live in subpackages.
package probe

// Machine is the full capability surface of one monitored machine.
// Read operations may fail transiently while the monitor link is busy;
// callers are expected to retry on their own schedule.
type Machine interface {
	// ReadScreen returns the current text-screen content, newline-delimited.
	ReadScreen() (string, error)

	// ReadMemory returns n raw bytes starting at addr.
	ReadMemory(addr, n uint16) ([]byte, error)

	// WriteMemory stores data starting at addr.
	WriteMemory(addr uint16, data []byte) error

	// FeedKeyboard injects text into the machine's keyboard buffer.
	FeedKeyboard(text string) error

	// Reset performs a soft reset, or a hard reset when hard is true.
	Reset(hard bool) error

	// Close releases the monitor connection.
	Close() error
}
