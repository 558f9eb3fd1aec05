package fitcore

import (
	"fmt"

	"github.com/mharder/fitcore/wire"
)

const (
	headerSizeNoCRC = 12
	headerSizeCRC   = 14
	trailerSize     = 2
	fitSignature    = ".FIT"
)

// Header is the decoded FIT file header.
type Header struct {
	Size            uint8
	ProtocolVersion uint8
	ProfileVersion  uint16
	DataLength      uint32
	HasCRC          bool
	CRC             uint16
}

// StreamReader owns the raw file bytes for the duration of a read, validates
// the header and whole-file CRC at construction, and exposes a positional
// "read next value of type T" operation over the logical data window
// [header length, header length + data length).
type StreamReader struct {
	buf    []byte
	pos    int
	start  int
	end    int
	Header Header
}

// NewStreamReader validates the header and CRC of data and positions the
// reader at the start of the data window. It fails with ErrBadHeader,
// ErrTruncatedData, or ErrBadCRC during initialisation — never afterward.
func NewStreamReader(data []byte) (*StreamReader, error) {
	if len(data) < headerSizeNoCRC+trailerSize {
		return nil, fmt.Errorf("%w: buffer too short (%d bytes)", ErrBadHeader, len(data))
	}

	size := data[0]
	if size != headerSizeNoCRC && size != headerSizeCRC {
		return nil, fmt.Errorf("%w: invalid header size %d", ErrBadHeader, size)
	}
	if len(data) < int(size) {
		return nil, fmt.Errorf("%w: truncated header (need %d bytes)", ErrTruncatedData, size)
	}

	h := Header{
		Size:            size,
		ProtocolVersion: data[1],
	}
	profileVersion, _, err := wire.ReadInt(data, 2, 2, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	h.ProfileVersion = uint16(profileVersion)

	dataLength, _, err := wire.ReadInt(data, 4, 4, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	h.DataLength = uint32(dataLength)

	if string(data[8:12]) != fitSignature {
		return nil, fmt.Errorf("%w: missing .FIT signature", ErrBadHeader)
	}

	if size == headerSizeCRC {
		h.HasCRC = true
		crc, _, err := wire.ReadInt(data, 12, 2, false, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
		}
		h.CRC = uint16(crc)
	}

	required := int(h.Size) + int(h.DataLength) + trailerSize
	if len(data) < required {
		return nil, fmt.Errorf("%w: have %d bytes, need at least %d", ErrTruncatedData, len(data), required)
	}

	// Equality is normal; a longer buffer indicates a concatenated chunk
	// and is accepted (only the first chunk is decoded, per the non-goals).
	if checksum := crc16Of(data[:required]); checksum != 0 {
		return nil, fmt.Errorf("%w: file crc %04X did not reduce to zero", ErrBadCRC, checksum)
	}

	return &StreamReader{
		buf:    data,
		pos:    int(h.Size),
		start:  int(h.Size),
		end:    int(h.Size) + int(h.DataLength),
		Header: h,
	}, nil
}

func crc16Of(buf []byte) uint16 {
	return wire.Checksum(buf)
}

// IsEOF reports whether the logical read window has been exhausted.
func (r *StreamReader) IsEOF() bool { return r.pos >= r.end }

// Position returns the reader's current offset into the underlying buffer.
func (r *StreamReader) Position() int { return r.pos }

// ReadByte reads a single raw byte and advances the cursor, without
// interpreting it as any FIT type.
func (r *StreamReader) ReadByte() (byte, error) {
	if r.pos+1 > r.end {
		return 0, fmt.Errorf("%w: at pos %d", ErrReadPastEnd, r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads n raw bytes and advances the cursor.
func (r *StreamReader) ReadBytes(n int) ([]byte, error) {
	if r.pos+n > r.end {
		return nil, fmt.Errorf("%w: want %d bytes at pos %d (window ends %d)", ErrReadPastEnd, n, r.pos, r.end)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// ReadInt reads a width-byte integer directly (used for header-level and
// record-header-level fields that are not FIT-typed values).
func (r *StreamReader) ReadInt(width int, signed, bigEndian bool) (int64, error) {
	v, newPos, err := wire.ReadInt(r.buf, r.pos, width, signed, bigEndian)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrReadPastEnd, err)
	}
	if newPos > r.end {
		return 0, fmt.Errorf("%w: at pos %d", ErrReadPastEnd, r.pos)
	}
	r.pos = newPos
	return v, nil
}

// ReadNext implements read_next(type-id, optional size, optional
// big_endian): read size bytes (defaulting to the type's own width) and
// decode them via the type registry's read_many.
func (r *StreamReader) ReadNext(t FitType, size int, bigEndian bool) (Value, error) {
	if size <= 0 {
		size = t.Width
	}
	if r.pos+size > r.end {
		return Value{}, fmt.Errorf("%w: want %d bytes at pos %d (window ends %d)", ErrReadPastEnd, size, r.pos, r.end)
	}
	v, newPos, err := ReadMany(r.buf, r.pos, size, t, bigEndian)
	if err != nil {
		return Value{}, err
	}
	r.pos = newPos
	return v, nil
}
