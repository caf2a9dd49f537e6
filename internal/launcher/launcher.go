// Package launcher injects PRG images into a machine and starts them the
// way an operator would: memory writes, BASIC pointer fix-up, and a RUN or
// SYS line fed into the keyboard buffer. Delivery only, no interpretation —
// judging how the program fares afterwards is the outcome engine's job.
package launcher

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tamzrod/vice-monitor/internal/outcome"
)

// Console is the write-side capability slice the launcher needs.
type Console interface {
	ReadMemory(addr, n uint16) ([]byte, error)
	WriteMemory(addr uint16, data []byte) error
	FeedKeyboard(text string) error
}

// basicStart is where BASIC programs load ($0801).
const basicStart uint16 = 0x0801

// txttab is the zero-page BASIC pointer block: TXTTAB, VARTAB, ARYTAB,
// STREND as consecutive little-endian words at $2B.
const txttab uint16 = 0x002B

// scratchAddr is a free byte below BASIC memory used for write verification.
const scratchAddr uint16 = 0x0800

// LoadPRG writes a PRG image (2-byte little-endian load address followed by
// payload) into machine memory and returns the load address. Images loading
// at the BASIC start also get the interpreter pointers fixed up, mirroring
// what a KERNAL LOAD would leave behind.
func LoadPRG(c Console, prg []byte) (uint16, error) {
	if len(prg) < 3 {
		return 0, errors.New("launcher: prg image too short")
	}

	addr := binary.LittleEndian.Uint16(prg[0:2])
	payload := prg[2:]

	if int(addr)+len(payload) > 0x10000 {
		return 0, fmt.Errorf("launcher: prg of %d bytes at $%04X exceeds address space", len(payload), addr)
	}

	if err := c.WriteMemory(addr, payload); err != nil {
		return 0, fmt.Errorf("launcher: write program: %w", err)
	}

	if addr == basicStart {
		if err := fixBasicPointers(c, addr, uint16(len(payload))); err != nil {
			return 0, err
		}
	}

	return addr, nil
}

// fixBasicPointers makes the interpreter see the injected program:
// TXTTAB at the program start, VARTAB/ARYTAB/STREND at its end.
func fixBasicPointers(c Console, base, size uint16) error {
	end := base + size

	blob := make([]byte, 8)
	binary.LittleEndian.PutUint16(blob[0:2], base)
	binary.LittleEndian.PutUint16(blob[2:4], end)
	binary.LittleEndian.PutUint16(blob[4:6], end)
	binary.LittleEndian.PutUint16(blob[6:8], end)

	if err := c.WriteMemory(txttab, blob); err != nil {
		return fmt.Errorf("launcher: fix basic pointers: %w", err)
	}
	return nil
}

// Launch starts a loaded program. BASIC programs (and machine-code images
// carrying a BASIC stub at $0801) get RUN; raw payloads get a direct SYS.
func Launch(c Console, typ outcome.ProgramType, loadAddr uint16) error {
	var cmd string
	if typ == outcome.TypeBasic || loadAddr == basicStart {
		cmd = "RUN\r"
	} else {
		cmd = fmt.Sprintf("SYS %d\r", loadAddr)
	}

	if err := c.FeedKeyboard(cmd); err != nil {
		return fmt.Errorf("launcher: feed %q: %w", cmd, err)
	}
	return nil
}

// VerifyRoundTrip writes a marker byte to scratch memory and reads it back,
// proving the monitor link can actually reach machine memory.
func VerifyRoundTrip(c Console) error {
	const marker = 0x42

	if err := c.WriteMemory(scratchAddr, []byte{marker}); err != nil {
		return fmt.Errorf("launcher: verify write: %w", err)
	}

	got, err := c.ReadMemory(scratchAddr, 1)
	if err != nil {
		return fmt.Errorf("launcher: verify read: %w", err)
	}
	if len(got) != 1 || got[0] != marker {
		return fmt.Errorf("launcher: verify mismatch: wrote $%02X, read % X", marker, got)
	}
	return nil
}
