// Package petscii converts C64 screen-code memory into plain text.
package petscii

import "strings"

// ScreenColumns is the fixed width of the C64 text matrix.
const ScreenColumns = 40

// reverseBit marks reverse-video cells; it carries no character information.
const reverseBit = 0x80

// DecodeChar maps one screen code (uppercase/graphics bank) to ASCII.
// Graphics cells that have no ASCII equivalent decode to '.'.
func DecodeChar(code byte) byte {
	c := code &^ reverseBit

	switch {
	case c < 0x20:
		// 0x00 = '@', 0x01-0x1A = 'A'-'Z', then '[', pound, ']', arrows.
		return '@' + c
	case c < 0x40:
		// Space, punctuation and digits are identical to ASCII.
		return c
	default:
		return '.'
	}
}

// DecodeScreen converts a raw screen-matrix capture into newline-delimited
// text. Rows are split at width columns, trailing blanks are trimmed and
// trailing empty rows are dropped.
func DecodeScreen(data []byte, width int) string {
	if width <= 0 {
		width = ScreenColumns
	}

	var rows []string
	for off := 0; off < len(data); off += width {
		end := off + width
		if end > len(data) {
			end = len(data)
		}

		cell := make([]byte, end-off)
		for i, code := range data[off:end] {
			cell[i] = DecodeChar(code)
		}
		rows = append(rows, strings.TrimRight(string(cell), " "))
	}

	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}

	return strings.Join(rows, "\n")
}

// EncodeChar maps printable ASCII to a screen code in the uppercase bank.
// Characters without a screen-code equivalent encode to a space.
func EncodeChar(ch byte) byte {
	switch {
	case ch == '@':
		return 0x00
	case ch >= 'A' && ch <= 'Z':
		return ch - 'A' + 0x01
	case ch >= 'a' && ch <= 'z':
		return ch - 'a' + 0x01
	case ch >= 0x20 && ch < 0x40:
		return ch
	default:
		return 0x20
	}
}

// EncodeText converts an ASCII string into screen codes. Useful for seeding
// fake screen memory in tests and for locating text in raw captures.
func EncodeText(s string) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = EncodeChar(s[i])
	}
	return out
}
