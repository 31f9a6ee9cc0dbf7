package wire

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		val    uint64
		wanted int
	}{
		{0, 1},
		{0xfc, 1},
		{0xfd, 3},
		{0xffff, 3},
		{0x10000, 5},
		{0xffffffff, 5},
		{0x100000000, 9},
		{18446744073709551615, 9},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, test.val); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", test.val, err)
		}
		if buf.Len() != test.wanted {
			t.Errorf("WriteVarInt(%d) wrote %d bytes, want %d", test.val, buf.Len(), test.wanted)
		}
		if got := VarIntSerializeSize(test.val); got != test.wanted {
			t.Errorf("VarIntSerializeSize(%d) = %d, want %d", test.val, got, test.wanted)
		}

		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", test.val, err)
		}
		if got != test.val {
			t.Errorf("ReadVarInt round trip = %d, want %d", got, test.val)
		}
	}
}

func TestVarIntNonCanonical(t *testing.T) {
	// 0xfd discriminant followed by a value that fits in one byte is
	// non-canonical and must be rejected.
	buf := bytes.NewReader([]byte{0xfd, 0x01, 0x00})
	if _, err := ReadVarInt(buf); err == nil {
		t.Fatal("expected non-canonical varint to be rejected")
	}
}
