// Package binmon implements probe.Machine over the VICE binary monitor
// protocol (TCP). The adapter is wire-only: it frames requests and unpacks
// raw responses, with no knowledge of what the bytes mean.
package binmon

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/tamzrod/vice-monitor/internal/petscii"
)

// Monitor command codes.
const (
	cmdMemoryGet    byte = 0x01
	cmdMemorySet    byte = 0x02
	cmdKeyboardFeed byte = 0x72
	cmdInfo         byte = 0x85
	cmdReset        byte = 0xCC
)

const (
	stx        byte = 0x02
	apiVersion byte = 0x02

	headerLen = 12

	// Responses to asynchronous monitor events carry this request id.
	// They are interleaved with command replies and must be skipped.
	eventRequestID uint32 = 0xFFFFFFFF

	// maxBodyLen bounds a single response body. The largest reply the
	// monitor produces for our commands is a 64 KiB memory dump.
	maxBodyLen = 1 << 17
)

// C64 text screen matrix.
const (
	screenBase  uint16 = 0x0400
	screenBytes uint16 = 1000
)

// Reset modes.
const (
	resetSoft byte = 0x00
	resetHard byte = 0x01
)

// Client is a connected binary-monitor session.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	reqID   uint32
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// New dials the binary monitor and returns a connected client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("binmon: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	conn, err := net.DialTimeout("tcp", cfg.Endpoint, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:    conn,
		timeout: cfg.Timeout,
	}

	// Randomize starting request id (best effort).
	var b [4]byte
	if _, err := rand.Read(b[:]); err == nil {
		c.reqID = binary.LittleEndian.Uint32(b[:])
	}

	return c, nil
}

// Close closes the monitor connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// ---- probe.Machine ----

// ReadScreen reads the screen matrix and decodes it to text.
func (c *Client) ReadScreen() (string, error) {
	raw, err := c.ReadMemory(screenBase, screenBytes)
	if err != nil {
		return "", err
	}
	return petscii.DecodeScreen(raw, petscii.ScreenColumns), nil
}

// ReadMemory returns n raw bytes starting at addr.
func (c *Client) ReadMemory(addr, n uint16) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if int(addr)+int(n) > 0x10000 {
		return nil, fmt.Errorf("binmon: read of %d bytes at $%04X exceeds address space", n, addr)
	}

	body := memoryBody(addr, n)
	payload, err := c.roundTrip(cmdMemoryGet, body)
	if err != nil {
		return nil, err
	}

	if len(payload) < 2 {
		return nil, errors.New("binmon: short memory-get payload")
	}
	count := int(binary.LittleEndian.Uint16(payload[0:2]))
	if len(payload)-2 < count {
		return nil, errors.New("binmon: memory-get payload shorter than count")
	}
	return payload[2 : 2+count], nil
}

// WriteMemory stores data starting at addr.
func (c *Client) WriteMemory(addr uint16, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if int(addr)+len(data) > 0x10000 {
		return fmt.Errorf("binmon: write of %d bytes at $%04X exceeds address space", len(data), addr)
	}

	body := memoryBody(addr, uint16(len(data)))
	body = append(body, data...)

	_, err := c.roundTrip(cmdMemorySet, body)
	return err
}

// FeedKeyboard injects text into the keyboard buffer. The monitor expects
// PETSCII; plain ASCII with '\r' line ends is accepted as-is.
func (c *Client) FeedKeyboard(text string) error {
	if len(text) == 0 {
		return nil
	}
	if len(text) > 0xFF {
		return fmt.Errorf("binmon: keyboard feed of %d bytes exceeds buffer", len(text))
	}

	body := make([]byte, 0, 1+len(text))
	body = append(body, byte(len(text)))
	body = append(body, text...)

	_, err := c.roundTrip(cmdKeyboardFeed, body)
	return err
}

// Reset performs a machine reset.
func (c *Client) Reset(hard bool) error {
	mode := resetSoft
	if hard {
		mode = resetHard
	}
	_, err := c.roundTrip(cmdReset, []byte{mode})
	return err
}

// Ping verifies the monitor link by requesting emulator info.
func (c *Client) Ping() error {
	_, err := c.roundTrip(cmdInfo, nil)
	return err
}

// ---- internal request/response helpers ----

func (c *Client) nextRequestID() uint32 {
	c.reqID++
	if c.reqID == eventRequestID {
		c.reqID++
	}
	return c.reqID
}

// memoryBody builds the shared prefix of memory get/set requests:
//
//	side-effects(1) start(2) end(2) memspace(1) bank(2)
//
// all little-endian, main memory, default bank, no side effects.
func memoryBody(addr, n uint16) []byte {
	body := make([]byte, 8)
	body[0] = 0
	binary.LittleEndian.PutUint16(body[1:3], addr)
	binary.LittleEndian.PutUint16(body[3:5], addr+n-1)
	body[5] = 0
	binary.LittleEndian.PutUint16(body[6:8], 0)
	return body
}

// buildRequest frames one command:
//
//	STX(1) APIVER(1) BODYLEN(4) REQID(4) CMD(1) BODY
func (c *Client) buildRequest(cmd byte, body []byte) ([]byte, uint32) {
	id := c.nextRequestID()

	req := make([]byte, 11+len(body))
	req[0] = stx
	req[1] = apiVersion
	binary.LittleEndian.PutUint32(req[2:6], uint32(len(body)))
	binary.LittleEndian.PutUint32(req[6:10], id)
	req[10] = cmd
	copy(req[11:], body)

	return req, id
}

// roundTrip sends one command and scans the stream for the matching reply,
// discarding interleaved asynchronous event packets.
func (c *Client) roundTrip(cmd byte, body []byte) ([]byte, error) {
	if c == nil || c.conn == nil {
		return nil, errors.New("binmon: not connected")
	}

	req, id := c.buildRequest(cmd, body)

	deadline := time.Now().Add(c.timeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	if _, err := c.conn.Write(req); err != nil {
		return nil, fmt.Errorf("binmon: send: %w", err)
	}

	for {
		respType, errCode, respID, payload, err := c.readPacket()
		if err != nil {
			return nil, err
		}

		// Skip async events and stale replies.
		if respID != id || respType != cmd {
			continue
		}

		if errCode != 0 {
			return nil, fmt.Errorf("binmon: command $%02X failed: monitor error code %d", cmd, errCode)
		}
		return payload, nil
	}
}

// readPacket reads exactly one monitor packet off the wire.
//
// Header layout:
//
//	STX(1) APIVER(1) BODYLEN(4) TYPE(1) ERR(1) REQID(4)
func (c *Client) readPacket() (respType, errCode byte, respID uint32, payload []byte, err error) {
	var hdr [headerLen]byte
	if _, err = io.ReadFull(c.conn, hdr[:]); err != nil {
		return 0, 0, 0, nil, fmt.Errorf("binmon: read header: %w", err)
	}

	if hdr[0] != stx {
		return 0, 0, 0, nil, fmt.Errorf("binmon: bad packet start byte $%02X", hdr[0])
	}
	if hdr[1] != apiVersion {
		return 0, 0, 0, nil, fmt.Errorf("binmon: unsupported api version %d", hdr[1])
	}

	bodyLen := binary.LittleEndian.Uint32(hdr[2:6])
	if bodyLen > maxBodyLen {
		return 0, 0, 0, nil, fmt.Errorf("binmon: response body of %d bytes exceeds limit", bodyLen)
	}

	respType = hdr[6]
	errCode = hdr[7]
	respID = binary.LittleEndian.Uint32(hdr[8:12])

	if bodyLen > 0 {
		payload = make([]byte, bodyLen)
		if _, err = io.ReadFull(c.conn, payload); err != nil {
			return 0, 0, 0, nil, fmt.Errorf("binmon: read body: %w", err)
		}
	}

	return respType, errCode, respID, payload, nil
}
