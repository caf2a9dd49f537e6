// Package textmon implements probe.Machine over the VICE remote text
// monitor (telnet). It drives the interactive monitor prompt with plain
// commands and parses the hex dumps it prints.
package textmon

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ziutek/telnet"

	"github.com/tamzrod/vice-monitor/internal/petscii"
)

// promptMark starts every monitor prompt, e.g. "(C:$e5cf) ".
const promptMark = "(C:$"

// dump rows are prefixed with the memory space marker.
const dumpMark = ">C:"

const writeChunk = 16

// C64 text screen matrix.
const (
	screenBase  uint16 = 0x0400
	screenBytes uint16 = 1000
)

// Client is a connected text-monitor session.
type Client struct {
	conn    *telnet.Conn
	timeout time.Duration
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// New dials the text monitor and drains the banner up to the first prompt.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("textmon: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}

	conn, err := telnet.DialTimeout("tcp", cfg.Endpoint, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	conn.SetUnixWriteMode(true)

	c := &Client{conn: conn, timeout: cfg.Timeout}

	if err := c.conn.SetReadDeadline(time.Now().Add(cfg.Timeout)); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := c.conn.ReadUntil(promptMark); err != nil {
		conn.Close()
		return nil, fmt.Errorf("textmon: waiting for prompt: %w", err)
	}
	if err := c.conn.SkipUntil(") "); err != nil {
		conn.Close()
		return nil, fmt.Errorf("textmon: waiting for prompt: %w", err)
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
		return nil, fmt.Errorf("textmon: read of %d bytes at $%04X exceeds address space", n, addr)
	}

	out, err := c.command(fmt.Sprintf("m %04x %04x", addr, addr+n-1))
	if err != nil {
		return nil, err
	}

	data, err := parseDump(out, int(n))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// WriteMemory stores data starting at addr, in writeChunk-byte commands.
func (c *Client) WriteMemory(addr uint16, data []byte) error {
	if int(addr)+len(data) > 0x10000 {
		return fmt.Errorf("textmon: write of %d bytes at $%04X exceeds address space", len(data), addr)
	}

	for off := 0; off < len(data); off += writeChunk {
		end := off + writeChunk
		if end > len(data) {
			end = len(data)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "> %04x", addr+uint16(off))
		for _, b := range data[off:end] {
			fmt.Fprintf(&sb, " %02x", b)
		}

		if _, err := c.command(sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// FeedKeyboard injects text into the keyboard buffer via the keybuf command.
// Carriage returns are sent as the monitor's \n escape.
func (c *Client) FeedKeyboard(text string) error {
	if text == "" {
		return nil
	}
	escaped := strings.ReplaceAll(text, "\r", `\n`)
	_, err := c.command("keybuf " + escaped)
	return err
}

// Reset performs a machine reset.
func (c *Client) Reset(hard bool) error {
	mode := "0"
	if hard {
		mode = "1"
	}
	_, err := c.command("reset " + mode)
	return err
}

// ---- internal ----

// command sends one monitor command and returns everything printed before
// the next prompt.
func (c *Client) command(cmd string) (string, error) {
	if c == nil || c.conn == nil {
		return "", errors.New("textmon: not connected")
	}

	deadline := time.Now().Add(c.timeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return "", err
	}

	if _, err := c.conn.Write([]byte(cmd + "\n")); err != nil {
		return "", fmt.Errorf("textmon: send: %w", err)
	}

	out, err := c.conn.ReadUntil(promptMark)
	if err != nil {
		return "", fmt.Errorf("textmon: read reply: %w", err)
	}
	if err := c.conn.SkipUntil(") "); err != nil {
		return "", fmt.Errorf("textmon: read reply: %w", err)
	}

	reply := strings.TrimSuffix(string(out), promptMark)
	return reply, nil
}

// parseDump extracts want bytes from ">C:addr  xx xx ..." dump rows.
//
// Each row ends in a character gutter that prints printable bytes
// literally, so a gutter containing spaces splits into tokens that can
// look like hex bytes. The hex area is bounded two ways: cut the row at
// the wide space run before the gutter, and cap each row's byte count at
// the address delta to the next row (dump rows are contiguous).
func parseDump(reply string, want int) ([]byte, error) {
	type dumpRow struct {
		addr   int
		fields []string
	}
	var rows []dumpRow

	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if !strings.HasPrefix(line, dumpMark) {
			continue
		}

		rest := line[len(dumpMark):]
		if i := strings.Index(rest, "   "); i >= 0 {
			rest = rest[:i]
		}

		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		addr, err := strconv.ParseUint(fields[0], 16, 16)
		if err != nil {
			continue
		}
		rows = append(rows, dumpRow{addr: int(addr), fields: fields[1:]})
	}

	data := make([]byte, 0, want)
	for i, row := range rows {
		limit := len(row.fields)
		if i+1 < len(rows) {
			if d := rows[i+1].addr - row.addr; d >= 0 && d < limit {
				limit = d
			}
		}
		for _, f := range row.fields[:limit] {
			if len(data) == want {
				break
			}
			if len(f) != 2 {
				break
			}
			v, err := strconv.ParseUint(f, 16, 8)
			if err != nil {
				break
			}
			data = append(data, byte(v))
		}
	}

	if len(data) < want {
		return nil, fmt.Errorf("textmon: dump returned %d of %d bytes", len(data), want)
	}
	return data, nil
}
