package outcome

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The extracted (message, line) pair must reconstruct any well-formed
// interpreter signature, modulo the trailing literal ERROR.
func TestBasicDetector_SignatureRoundTrip(t *testing.T) {
	names := []string{
		"SYNTAX",
		"TYPE MISMATCH",
		"OUT OF MEMORY",
		"ILLEGAL QUANTITY",
		"DIVISION BY ZERO",
		"FORMULA TOO COMPLEX",
	}
	lines := []*int{nil, intp(0), intp(10), intp(120), intp(63999)}

	for _, name := range names {
		for _, line := range lines {
			sig := "?" + name + " ERROR"
			if line != nil {
				sig = fmt.Sprintf("%s IN %d", sig, *line)
			}

			t.Run(sig, func(t *testing.T) {
				det := newBasicDetector()
				res, done := det.observe("RUN\n" + sig + "\nREADY.")

				require.True(t, done)
				assert.Equal(t, StatusError, res.Status)
				assert.Equal(t, name, res.Message)

				rebuilt := "?" + res.Message + " ERROR"
				if res.Line != nil {
					rebuilt = fmt.Sprintf("%s IN %d", rebuilt, *res.Line)
				}
				assert.Equal(t, sig, rebuilt)
			})
		}
	}
}

func TestBasicDetector_WarmUpThenError(t *testing.T) {
	det := newBasicDetector()

	// Leftover error on screen before the program launches: not evidence.
	_, done := det.observe("?SYNTAX ERROR\nREADY.")
	assert.False(t, done)

	_, done = det.observe("READY.\nRUN")
	assert.False(t, done)

	res, done := det.observe("READY.\nRUN\n?SYNTAX ERROR\nREADY.")
	require.True(t, done)
	assert.Equal(t, "SYNTAX", res.Message)
}

func TestBasicDetector_LowercaseSignatureIgnored(t *testing.T) {
	// The error convention is the device's fixed uppercase output; only the
	// launch marker matches case-insensitively.
	det := newBasicDetector()

	_, done := det.observe("run\n?syntax error\nready.")
	assert.False(t, done)
}

func intp(n int) *int { return &n }
