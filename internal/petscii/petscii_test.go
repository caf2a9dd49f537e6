package petscii

import "testing"

func TestDecodeChar(t *testing.T) {
	cases := []struct {
		code byte
		want byte
	}{
		{0x00, '@'},
		{0x01, 'A'},
		{0x1A, 'Z'},
		{0x20, ' '},
		{0x3F, '?'},
		{0x31, '1'},
		{0x01 | 0x80, 'A'}, // reverse video strips to the same glyph
		{0x66, '.'},        // graphics cell
	}

	for _, c := range cases {
		if got := DecodeChar(c.code); got != c.want {
			t.Errorf("DecodeChar(%#02x) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	const text = "?SYNTAX  ERROR IN 120"
	codes := EncodeText(text)

	decoded := make([]byte, len(codes))
	for i, c := range codes {
		decoded[i] = DecodeChar(c)
	}

	if string(decoded) != text {
		t.Fatalf("round trip = %q, want %q", decoded, text)
	}
}

func TestDecodeScreen(t *testing.T) {
	// Two 8-column rows, second padded with blanks, then two blank rows.
	data := append(EncodeText("READY.  "), EncodeText("RUN     ")...)
	data = append(data, EncodeText("                ")...)

	got := DecodeScreen(data, 8)
	want := "READY.\nRUN"
	if got != want {
		t.Fatalf("DecodeScreen = %q, want %q", got, want)
	}
}

func TestDecodeScreenDefaultsWidth(t *testing.T) {
	row := make([]byte, ScreenColumns)
	for i := range row {
		row[i] = 0x20
	}
	copy(row, EncodeText("HELLO"))

	if got := DecodeScreen(row, 0); got != "HELLO" {
		t.Fatalf("DecodeScreen = %q, want %q", got, "HELLO")
	}
}
