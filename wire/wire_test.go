package wire

import (
	"errors"
	"testing"
)

func TestReadWriteIntRoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		width     int
		signed    bool
		bigEndian bool
		value     int64
	}{
		{"uint8", 1, false, false, 200},
		{"sint8-negative", 1, true, false, -5},
		{"uint16-le", 2, false, false, 0xBEEF},
		{"sint16-be", 2, true, true, -1000},
		{"uint32-le", 4, false, false, 0xCAFEBABE},
		{"sint32-be", 4, true, true, -123456},
		{"uint64-le", 8, false, false, 0x1122334455667788},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, tc.width)
			if _, err := WriteInt(buf, 0, tc.value, tc.width, tc.bigEndian); err != nil {
				t.Fatalf("WriteInt: %v", err)
			}
			got, newPos, err := ReadInt(buf, 0, tc.width, tc.signed, tc.bigEndian)
			if err != nil {
				t.Fatalf("ReadInt: %v", err)
			}
			if newPos != tc.width {
				t.Fatalf("newPos = %d, want %d", newPos, tc.width)
			}
			if got != tc.value {
				t.Fatalf("got %d, want %d", got, tc.value)
			}
		})
	}
}

func TestReadIntSignExtensionWidth1(t *testing.T) {
	buf := []byte{0x7F}
	got, _, err := ReadInt(buf, 0, 1, true, false)
	if err != nil {
		t.Fatalf("ReadInt: %v", err)
	}
	if got != 0x7F {
		t.Fatalf("got %d, want 127", got)
	}

	buf = []byte{0xFF}
	got, _, err = ReadInt(buf, 0, 1, true, false)
	if err != nil {
		t.Fatalf("ReadInt: %v", err)
	}
	if got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
}

func TestReadFloatRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	if _, err := WriteFloat(buf, 0, 3.14159, 4, false); err != nil {
		t.Fatalf("WriteFloat: %v", err)
	}
	got, _, err := ReadFloat(buf, 0, 4, false)
	if err != nil {
		t.Fatalf("ReadFloat: %v", err)
	}
	if diff := got - 3.14159; diff > 1e-5 || diff < -1e-5 {
		t.Fatalf("got %v, want ~3.14159", got)
	}

	if _, err := WriteFloat(buf, 0, 2.71828182845, 8, true); err != nil {
		t.Fatalf("WriteFloat 64: %v", err)
	}
	got64, _, err := ReadFloat(buf, 0, 8, true)
	if err != nil {
		t.Fatalf("ReadFloat 64: %v", err)
	}
	if got64 != 2.71828182845 {
		t.Fatalf("got %v, want 2.71828182845", got64)
	}
}

func TestOutOfBounds(t *testing.T) {
	buf := make([]byte, 2)
	if _, _, err := ReadInt(buf, 1, 4, false, false); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := WriteInt(buf, 1, 1, 4, false); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestChecksumIsDeterministic(t *testing.T) {
	a := Checksum([]byte("the quick brown fox"))
	b := Checksum([]byte("the quick brown fox"))
	if a != b {
		t.Fatalf("checksum not deterministic: %x != %x", a, b)
	}
}
