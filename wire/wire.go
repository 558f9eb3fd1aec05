// Package wire implements the FIT byte codec: reading and writing primitive
// values into a byte buffer at a caller-owned cursor, with selectable
// endianness and signedness. Nothing here knows about FIT messages, base
// types, or the activity model above them — it is the leaf of the stack.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned by every read/write operation here when
// pos+width would exceed the buffer length.
var ErrOutOfBounds = errors.New("wire: out of bounds")

func order(bigEndian bool) binary.ByteOrder {
	if bigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ReadInt decodes a signed or unsigned integer of the given width (1, 2, 4,
// or 8 bytes) starting at pos. Width 1 is handled specially: a single byte is
// fetched, and if signed and the top bit is set, the value is sign-extended
// by subtracting 256.
func ReadInt(buf []byte, pos, width int, signed, bigEndian bool) (int64, int, error) {
	if pos < 0 || pos+width > len(buf) {
		return 0, pos, fmt.Errorf("%w: read int width %d at pos %d (len %d)", ErrOutOfBounds, width, pos, len(buf))
	}
	if width == 1 {
		b := buf[pos]
		if signed && b&0x80 != 0 {
			return int64(b) - 256, pos + 1, nil
		}
		return int64(b), pos + 1, nil
	}

	raw := buf[pos : pos+width]
	ord := order(bigEndian)
	switch width {
	case 2:
		u := ord.Uint16(raw)
		if signed {
			return int64(int16(u)), pos + width, nil
		}
		return int64(u), pos + width, nil
	case 4:
		u := ord.Uint32(raw)
		if signed {
			return int64(int32(u)), pos + width, nil
		}
		return int64(u), pos + width, nil
	case 8:
		u := ord.Uint64(raw)
		if signed {
			return int64(u), pos + width, nil
		}
		// Unsigned 64-bit values above 1<<63 cannot be represented exactly
		// in an int64; callers needing the full range use ReadUint64.
		return int64(u), pos + width, nil
	default:
		return 0, pos, fmt.Errorf("wire: unsupported int width %d", width)
	}
}

// ReadUint64 is the unsigned counterpart of ReadInt (widths 1, 2, 4 or 8)
// that preserves the full 64-bit range, needed for uint64/uint64z fields and
// for invalid-sentinel comparison of any width.
func ReadUint64(buf []byte, pos, width int, bigEndian bool) (uint64, int, error) {
	if pos < 0 || pos+width > len(buf) {
		return 0, pos, fmt.Errorf("%w: read uint width %d at pos %d (len %d)", ErrOutOfBounds, width, pos, len(buf))
	}
	if width == 1 {
		return uint64(buf[pos]), pos + 1, nil
	}
	raw := buf[pos : pos+width]
	ord := order(bigEndian)
	switch width {
	case 2:
		return uint64(ord.Uint16(raw)), pos + width, nil
	case 4:
		return uint64(ord.Uint32(raw)), pos + width, nil
	case 8:
		return ord.Uint64(raw), pos + width, nil
	default:
		return 0, pos, fmt.Errorf("wire: unsupported int width %d", width)
	}
}

// WriteInt is the symmetric counterpart of ReadInt. Width 1 stores the byte
// directly (two's-complement for negative signed values).
func WriteInt(buf []byte, pos int, value int64, width int, bigEndian bool) (int, error) {
	if pos < 0 || pos+width > len(buf) {
		return pos, fmt.Errorf("%w: write int width %d at pos %d (len %d)", ErrOutOfBounds, width, pos, len(buf))
	}
	ord := order(bigEndian)
	switch width {
	case 1:
		buf[pos] = byte(value)
	case 2:
		ord.PutUint16(buf[pos:pos+2], uint16(value))
	case 4:
		ord.PutUint32(buf[pos:pos+4], uint32(value))
	case 8:
		ord.PutUint64(buf[pos:pos+8], uint64(value))
	default:
		return pos, fmt.Errorf("wire: unsupported int width %d", width)
	}
	return pos + width, nil
}

// ReadFloat decodes a 4- or 8-byte IEEE-754 value at pos.
func ReadFloat(buf []byte, pos, width int, bigEndian bool) (float64, int, error) {
	if pos < 0 || pos+width > len(buf) {
		return 0, pos, fmt.Errorf("%w: read float width %d at pos %d (len %d)", ErrOutOfBounds, width, pos, len(buf))
	}
	ord := order(bigEndian)
	raw := buf[pos : pos+width]
	switch width {
	case 4:
		return float64(math.Float32frombits(ord.Uint32(raw))), pos + width, nil
	case 8:
		return math.Float64frombits(ord.Uint64(raw)), pos + width, nil
	default:
		return 0, pos, fmt.Errorf("wire: unsupported float width %d", width)
	}
}

// WriteFloat is the symmetric counterpart of ReadFloat.
func WriteFloat(buf []byte, pos int, value float64, width int, bigEndian bool) (int, error) {
	if pos < 0 || pos+width > len(buf) {
		return pos, fmt.Errorf("%w: write float width %d at pos %d (len %d)", ErrOutOfBounds, width, pos, len(buf))
	}
	ord := order(bigEndian)
	switch width {
	case 4:
		ord.PutUint32(buf[pos:pos+4], math.Float32bits(float32(value)))
	case 8:
		ord.PutUint64(buf[pos:pos+8], math.Float64bits(value))
	default:
		return pos, fmt.Errorf("wire: unsupported float width %d", width)
	}
	return pos + width, nil
}
