package launcher

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/vice-monitor/internal/outcome"
)

// fakeConsole backs the machine with a flat 64 KiB array.
type fakeConsole struct {
	mem      [0x10000]byte
	fed      []string
	writeErr error
}

func (f *fakeConsole) ReadMemory(addr, n uint16) ([]byte, error) {
	out := make([]byte, n)
	copy(out, f.mem[addr:int(addr)+int(n)])
	return out, nil
}

func (f *fakeConsole) WriteMemory(addr uint16, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	copy(f.mem[addr:], data)
	return nil
}

func (f *fakeConsole) FeedKeyboard(text string) error {
	f.fed = append(f.fed, text)
	return nil
}

// helloBasic is 10 PRINT "HELLO WORLD": 20 END as a tokenized image.
func helloBasic() []byte {
	payload := []byte{
		0x0B, 0x08, 0x0A, 0x00, 0x99,
		0x22, 0x48, 0x45, 0x4C, 0x4C, 0x4F, 0x20, 0x57, 0x4F, 0x52, 0x4C, 0x44, 0x22,
		0x00, 0x15, 0x08, 0x14, 0x00, 0x80, 0x00, 0x00,
	}
	prg := []byte{0x01, 0x08}
	return append(prg, payload...)
}

func TestLoadPRG_Basic(t *testing.T) {
	c := &fakeConsole{}

	addr, err := LoadPRG(c, helloBasic())
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0801), addr)

	// Program body landed at the load address.
	assert.Equal(t, byte(0x99), c.mem[0x0805]) // PRINT token

	// Interpreter pointers track the injected program.
	end := uint16(0x0801 + len(helloBasic()) - 2)
	assert.Equal(t, uint16(0x0801), binary.LittleEndian.Uint16(c.mem[0x2B:0x2D]))
	assert.Equal(t, end, binary.LittleEndian.Uint16(c.mem[0x2D:0x2F])) // VARTAB
	assert.Equal(t, end, binary.LittleEndian.Uint16(c.mem[0x2F:0x31])) // ARYTAB
	assert.Equal(t, end, binary.LittleEndian.Uint16(c.mem[0x31:0x33])) // STREND
}

func TestLoadPRG_RawPayloadSkipsPointerFixup(t *testing.T) {
	c := &fakeConsole{}

	prg := []byte{0x00, 0xC0, 0xA9, 0x00, 0x60} // LDA #0 / RTS at $C000
	addr, err := LoadPRG(c, prg)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xC000), addr)

	assert.Equal(t, byte(0xA9), c.mem[0xC000])
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(c.mem[0x2B:0x2D]))
}

func TestLoadPRG_TooShort(t *testing.T) {
	_, err := LoadPRG(&fakeConsole{}, []byte{0x01, 0x08})
	assert.Error(t, err)
}

func TestLoadPRG_Overflow(t *testing.T) {
	prg := append([]byte{0xFE, 0xFF}, make([]byte, 16)...)
	_, err := LoadPRG(&fakeConsole{}, prg)
	assert.Error(t, err)
}

func TestLoadPRG_WriteFailure(t *testing.T) {
	c := &fakeConsole{writeErr: errors.New("link down")}
	_, err := LoadPRG(c, helloBasic())
	assert.Error(t, err)
}

func TestLaunch(t *testing.T) {
	cases := []struct {
		name string
		typ  outcome.ProgramType
		addr uint16
		want string
	}{
		{"basic", outcome.TypeBasic, 0x0801, "RUN\r"},
		{"asm with stub", outcome.TypeASM, 0x0801, "RUN\r"},
		{"raw asm", outcome.TypeASM, 0xC000, "SYS 49152\r"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &fakeConsole{}
			require.NoError(t, Launch(c, tc.typ, tc.addr))
			require.Len(t, c.fed, 1)
			assert.Equal(t, tc.want, c.fed[0])
		})
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	c := &fakeConsole{}
	assert.NoError(t, VerifyRoundTrip(c))
}

func TestVerifyRoundTrip_Mismatch(t *testing.T) {
	c := &mismatchConsole{}
	assert.Error(t, VerifyRoundTrip(c))
}

// mismatchConsole drops writes so the read-back never matches.
type mismatchConsole struct{ fakeConsole }

func (m *mismatchConsole) WriteMemory(addr uint16, data []byte) error { return nil }
