package fitcore

import (
	"fmt"

	"github.com/mharder/fitcore/wire"
)

// Kind tags the shape of a decoded Value — the sum type the design notes
// call for in place of per-type dynamic "invalid" sentinels: {none, int,
// float, vector-of, bytes}, plus string since FIT strings are common enough
// to deserve their own case rather than riding along as a byte vector.
type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindString
	KindVector
	KindBytes
)

// Value is a decoded field value. Exactly one of Int/Float/Str/Vector/Bytes
// is meaningful, selected by Kind; KindNone means "no value" — the raw bytes
// matched the type's invalid sentinel and the field is elided before
// dispatch.
type Value struct {
	Kind   Kind
	Int    int64
	Float  float64
	Str    string
	Vector []Value
	Bytes  []byte
}

// IsNone reports whether the value is the "no value" sentinel.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// FitType is one entry of the static type registry: a one-byte type
// identifier mapping to {symbolic name, width in bytes, signed flag, invalid
// sentinel}. The read/write behavior the data model calls "fn" fields is
// implemented as two free functions (ReadOne/WriteOne) switching on Signed/
// Floating/Width rather than per-instance closures — the type set is fixed
// and small, so a closure field would only add indirection Go doesn't need.
type FitType struct {
	ID          uint8
	Name        string
	Signed      bool
	Floating    bool
	Width       int
	ZeroInvalid bool // true for the *z variants, whose invalid sentinel is 0 rather than all-ones
	invalid     uint64
}

// Invalid sentinel bit patterns, one per type, per the external-interface
// table. sint64/uint64/uint64z are not in that table's literal listing but
// are present in the teacher's own base-type table and are implemented here
// for completeness — see DESIGN.md.
var (
	TypeEnum    = FitType{ID: 0x00, Name: "enum", Width: 1, invalid: 0xFF}
	TypeSint8   = FitType{ID: 0x01, Name: "sint8", Signed: true, Width: 1, invalid: 0x7F}
	TypeUint8   = FitType{ID: 0x02, Name: "uint8", Width: 1, invalid: 0xFF}
	TypeSint16  = FitType{ID: 0x83, Name: "sint16", Signed: true, Width: 2, invalid: 0x7FFF}
	TypeUint16  = FitType{ID: 0x84, Name: "uint16", Width: 2, invalid: 0xFFFF}
	TypeSint32  = FitType{ID: 0x85, Name: "sint32", Signed: true, Width: 4, invalid: 0x7FFFFFFF}
	TypeUint32  = FitType{ID: 0x86, Name: "uint32", Width: 4, invalid: 0xFFFFFFFF}
	TypeString  = FitType{ID: 0x07, Name: "string", Width: 1, invalid: 0x00}
	TypeFloat32 = FitType{ID: 0x88, Name: "float32", Floating: true, Width: 4, invalid: 0xFFFFFFFF}
	TypeFloat64 = FitType{ID: 0x89, Name: "float64", Floating: true, Width: 8, invalid: 0xFFFFFFFFFFFFFFFF}
	TypeUint8z  = FitType{ID: 0x0A, Name: "uint8z", Width: 1, ZeroInvalid: true, invalid: 0}
	TypeUint16z = FitType{ID: 0x8B, Name: "uint16z", Width: 2, ZeroInvalid: true, invalid: 0}
	TypeUint32z = FitType{ID: 0x8C, Name: "uint32z", Width: 4, ZeroInvalid: true, invalid: 0}
	TypeByte    = FitType{ID: 0x0D, Name: "byte", Width: 1, invalid: 0xFF}
	TypeSint64  = FitType{ID: 0x8E, Name: "sint64", Signed: true, Width: 8, invalid: 0x7FFFFFFFFFFFFFFF}
	TypeUint64  = FitType{ID: 0x8F, Name: "uint64", Width: 8, invalid: 0xFFFFFFFFFFFFFFFF}
	TypeUint64z = FitType{ID: 0x90, Name: "uint64z", Width: 8, ZeroInvalid: true, invalid: 0}
)

// typeRegistry is the static table keyed by canonical byte, built once at
// package init. It is read-only thereafter and safe for concurrent read, per
// §5's resource model.
var typeRegistry = map[uint8]FitType{}

func init() {
	for _, t := range []FitType{
		TypeEnum, TypeSint8, TypeUint8, TypeSint16, TypeUint16, TypeSint32, TypeUint32,
		TypeString, TypeFloat32, TypeFloat64, TypeUint8z, TypeUint16z, TypeUint32z,
		TypeByte, TypeSint64, TypeUint64, TypeUint64z,
	} {
		typeRegistry[t.ID] = t
	}
}

// LookupType resolves a raw FIT base-type byte (as it appears in a
// definition record's field triple) to its registry entry.
func LookupType(id uint8) (FitType, error) {
	t, ok := typeRegistry[id&0xFF]
	if !ok {
		return FitType{}, fmt.Errorf("%w: base type id 0x%02X", ErrUnknownBaseType, id)
	}
	return t, nil
}

// decompressBaseType maps a definition record's compressed base-type nibble
// (the low 5 bits of the raw type byte) to its full canonical type id,
// mirroring the teacher's decompressBaseType table.
func decompressBaseType(raw uint8) uint8 {
	switch raw & 0x1F {
	case 0x00:
		return TypeEnum.ID
	case 0x01:
		return TypeSint8.ID
	case 0x02:
		return TypeUint8.ID
	case 0x03:
		return TypeSint16.ID
	case 0x04:
		return TypeUint16.ID
	case 0x05:
		return TypeSint32.ID
	case 0x06:
		return TypeUint32.ID
	case 0x07:
		return TypeString.ID
	case 0x08:
		return TypeFloat32.ID
	case 0x09:
		return TypeFloat64.ID
	case 0x0A:
		return TypeUint8z.ID
	case 0x0B:
		return TypeUint16z.ID
	case 0x0C:
		return TypeUint32z.ID
	case 0x0D:
		return TypeByte.ID
	case 0x0E:
		return TypeSint64.ID
	case 0x0F:
		return TypeUint64.ID
	case 0x10:
		return TypeUint64z.ID
	default:
		return raw & 0x1F
	}
}

// ReadOne implements read_one: the raw bytes are first read as an unsigned
// integer of the type's width; if that bit pattern equals the type's invalid
// sentinel, the field is reported as "no value" (KindNone) and the typed
// read is skipped. Otherwise the type's decode behavior is applied.
func ReadOne(buf []byte, pos int, t FitType, bigEndian bool) (Value, int, error) {
	rawBits, newPos, err := wire.ReadUint64(buf, pos, t.Width, bigEndian)
	if err != nil {
		return Value{}, pos, err
	}
	if rawBits == t.invalid {
		return Value{Kind: KindNone}, newPos, nil
	}
	if t.Floating {
		f, _, err := wire.ReadFloat(buf, pos, t.Width, bigEndian)
		if err != nil {
			return Value{}, pos, err
		}
		return Value{Kind: KindFloat, Float: f}, newPos, nil
	}
	i, _, err := wire.ReadInt(buf, pos, t.Width, t.Signed, bigEndian)
	if err != nil {
		return Value{}, pos, err
	}
	return Value{Kind: KindInt, Int: i}, newPos, nil
}

// WriteOne is the symmetric counterpart: encoding a KindNone value writes
// the type's invalid sentinel.
func WriteOne(buf []byte, pos int, t FitType, v Value, bigEndian bool) (int, error) {
	if v.IsNone() {
		return wire.WriteInt(buf, pos, int64(t.invalid), t.Width, bigEndian)
	}
	if t.Floating {
		return wire.WriteFloat(buf, pos, v.Float, t.Width, bigEndian)
	}
	return wire.WriteInt(buf, pos, v.Int, t.Width, bigEndian)
}

// ReadMany implements read_many: N = total_size / width. N = 1 yields a
// scalar result; otherwise an N-element vector, each slot independently
// "no value". String fields (type id 0x07) are the exception: the whole
// total_size run is the value, materialised as the leading run of non-zero
// bytes (the first 0x00 byte terminates it). Byte fields (type id 0x0D) are
// materialised as a raw byte slice, reported invalid as a whole when every
// byte is 0xFF, matching the teacher's decodeField special cases.
func ReadMany(buf []byte, pos, totalSize int, t FitType, bigEndian bool) (Value, int, error) {
	if totalSize <= 0 {
		return Value{Kind: KindNone}, pos, nil
	}
	if pos+totalSize > len(buf) {
		return Value{}, pos, fmt.Errorf("%w: read many %d bytes at pos %d (len %d)", ErrOutOfBounds, totalSize, pos, len(buf))
	}

	if t.ID == TypeString.ID {
		raw := buf[pos : pos+totalSize]
		return Value{Kind: KindString, Str: decodeNullTerminatedString(raw)}, pos + totalSize, nil
	}

	if t.ID == TypeByte.ID {
		raw := append([]byte(nil), buf[pos:pos+totalSize]...)
		if allBytesEqual(raw, 0xFF) {
			return Value{Kind: KindNone}, pos + totalSize, nil
		}
		return Value{Kind: KindBytes, Bytes: raw}, pos + totalSize, nil
	}

	if totalSize%t.Width != 0 {
		return Value{}, pos, fmt.Errorf("fitcore: field size %d not divisible by base width %d (%s)", totalSize, t.Width, t.Name)
	}
	n := totalSize / t.Width
	if n == 1 {
		return ReadOne(buf, pos, t, bigEndian)
	}
	vals := make([]Value, 0, n)
	cursor := pos
	for i := 0; i < n; i++ {
		v, next, err := ReadOne(buf, cursor, t, bigEndian)
		if err != nil {
			return Value{}, pos, err
		}
		vals = append(vals, v)
		cursor = next
	}
	return Value{Kind: KindVector, Vector: vals}, cursor, nil
}

// WriteMany is the symmetric counterpart of ReadMany, used by the writer
// core's put_message: a string value is copied into a zero-padded
// totalSize-byte run, a byte value is copied in (or filled with 0xFF when
// absent), and anything else is written as N = totalSize/width scalar
// slots, each independently "no value" when the corresponding vector
// element is absent.
func WriteMany(buf []byte, pos, totalSize int, t FitType, v Value, bigEndian bool) (int, error) {
	if totalSize <= 0 {
		return pos, nil
	}
	if pos+totalSize > len(buf) {
		return pos, fmt.Errorf("%w: write many %d bytes at pos %d (len %d)", ErrOutOfBounds, totalSize, pos, len(buf))
	}

	if t.ID == TypeString.ID {
		for i := 0; i < totalSize; i++ {
			buf[pos+i] = 0
		}
		copy(buf[pos:pos+totalSize], v.Str)
		return pos + totalSize, nil
	}

	if t.ID == TypeByte.ID {
		if v.IsNone() {
			for i := 0; i < totalSize; i++ {
				buf[pos+i] = 0xFF
			}
			return pos + totalSize, nil
		}
		n := copy(buf[pos:pos+totalSize], v.Bytes)
		for i := n; i < totalSize; i++ {
			buf[pos+i] = 0xFF
		}
		return pos + totalSize, nil
	}

	n := totalSize / t.Width
	if n <= 1 {
		return WriteOne(buf, pos, t, v, bigEndian)
	}

	cursor := pos
	for i := 0; i < n; i++ {
		elem := Value{Kind: KindNone}
		if v.Kind == KindVector && i < len(v.Vector) {
			elem = v.Vector[i]
		}
		next, err := WriteOne(buf, cursor, t, elem, bigEndian)
		if err != nil {
			return pos, err
		}
		cursor = next
	}
	return cursor, nil
}

func decodeNullTerminatedString(raw []byte) string {
	for i, b := range raw {
		if b == 0x00 {
			return string(raw[:i])
		}
	}
	return string(raw)
}

func allBytesEqual(raw []byte, want byte) bool {
	if len(raw) == 0 {
		return false
	}
	for _, b := range raw {
		if b != want {
			return false
		}
	}
	return true
}
