package fitcore

import (
	"fmt"

	"github.com/mharder/fitcore/profile"
	"github.com/mharder/fitcore/wire"
)

// Default header version fields. The FIT format does not constrain these
// beyond width; real encoders stamp values registered with the format
// owner. Lacking that registry, these are stable, clearly-synthetic
// defaults.
const (
	DefaultProtocolVersion uint8  = 16
	DefaultProfileVersion  uint16 = 2132
)

// WriterFieldDef is one field of a writer-side message definition: unlike
// FieldDef (the decoder's view), it carries the field's FitType directly
// rather than a raw type code, since the writer always knows the type it
// intends to encode.
type WriterFieldDef struct {
	Number uint8
	Name   string
	Type   FitType
	Count  int // number of type-width slots; 1 for a scalar field
}

func (f WriterFieldDef) size() int { return f.Count * f.Type.Width }

// WriterDefinition is the writer's registered layout for one global message
// number — the inverse of MessageDefinition, keyed by global id rather than
// local id, per §4.7: "map global-id → MessageDefinition".
type WriterDefinition struct {
	LocalID   uint8
	Global    uint16
	BigEndian bool
	Fields    []WriterFieldDef
}

// Writer is the writer core of §4.7: a growing output buffer, a write
// cursor reserved for the still-unfinalised header, and a table of
// registered message definitions. The inverse of RecordDecoder.
type Writer struct {
	buf          []byte
	mark         int
	bigEndian    bool
	defsByGlobal map[uint16]*WriterDefinition
}

// NewWriter constructs a writer with the header region reserved and
// big-endian as the default per-definition encoding.
func NewWriter() *Writer {
	return &Writer{
		buf:          make([]byte, headerSizeCRC),
		mark:         headerSizeCRC,
		bigEndian:    true,
		defsByGlobal: make(map[uint16]*WriterDefinition),
	}
}

func (w *Writer) growTo(end int) {
	if end > len(w.buf) {
		grown := make([]byte, end)
		copy(grown, w.buf)
		w.buf = grown
	}
}

// putDefinition writes a definition record for globalID, using localID in
// the record header, and registers it — replacing any previous definition
// registered under the same global id, per §4.7's "definitions may alias on
// local-id".
func (w *Writer) putDefinition(globalID uint16, localID uint8, fields []WriterFieldDef) error {
	def := &WriterDefinition{LocalID: localID, Global: globalID, BigEndian: w.bigEndian, Fields: fields}
	w.defsByGlobal[globalID] = def

	recordLen := 6 + 3*len(fields)
	w.growTo(w.mark + recordLen)
	pos := w.mark

	w.buf[pos] = 0x40 | (localID & 0x0F)
	pos++
	w.buf[pos] = 0 // reserved
	pos++
	if w.bigEndian {
		w.buf[pos] = 1
	} else {
		w.buf[pos] = 0
	}
	pos++

	next, err := wire.WriteInt(w.buf, pos, int64(globalID), 2, w.bigEndian)
	if err != nil {
		return err
	}
	pos = next

	w.buf[pos] = byte(len(fields))
	pos++
	for _, f := range fields {
		w.buf[pos] = f.Number
		w.buf[pos+1] = byte(f.size())
		w.buf[pos+2] = f.Type.ID
		pos += 3
	}

	w.mark = pos
	return nil
}

// putMessage requires a prior definition for globalID, writes the data
// header byte, and encodes each field in definition order — a field absent
// from data is encoded as its type's invalid sentinel.
func (w *Writer) putMessage(globalID uint16, data map[string]Value) error {
	def, ok := w.defsByGlobal[globalID]
	if !ok {
		return fmt.Errorf("%w: global %d has no registered writer definition", ErrUnknownMessageDefinition, globalID)
	}

	size := 1
	for _, f := range def.Fields {
		size += f.size()
	}
	w.growTo(w.mark + size)
	pos := w.mark

	w.buf[pos] = def.LocalID & 0x0F
	pos++
	for _, f := range def.Fields {
		v, ok := data[f.Name]
		if !ok {
			v = Value{Kind: KindNone}
		}
		next, err := WriteMany(w.buf, pos, f.size(), f.Type, v, def.BigEndian)
		if err != nil {
			return err
		}
		pos = next
	}

	w.mark = pos
	return nil
}

// Finalise writes the header and trailing CRC and returns the completed
// buffer. Per §4.7: header length 14, protocol/profile versions, data
// length (mark-14), the ".FIT" signature, header CRC over bytes [0,12), and
// a whole-file CRC over [0, mark) appended as the last two bytes.
func (w *Writer) Finalise() ([]byte, error) {
	dataLength := w.mark - headerSizeCRC

	w.buf[0] = headerSizeCRC
	w.buf[1] = DefaultProtocolVersion
	if _, err := wire.WriteInt(w.buf, 2, int64(DefaultProfileVersion), 2, false); err != nil {
		return nil, err
	}
	if _, err := wire.WriteInt(w.buf, 4, int64(dataLength), 4, false); err != nil {
		return nil, err
	}
	copy(w.buf[8:12], fitSignature)

	headerCRC := wire.Checksum(w.buf[:12])
	if _, err := wire.WriteInt(w.buf, 12, int64(headerCRC), 2, false); err != nil {
		return nil, err
	}

	w.growTo(w.mark + trailerSize)
	fileCRC := wire.Checksum(w.buf[:w.mark])
	if _, err := wire.WriteInt(w.buf, w.mark, int64(fileCRC), 2, false); err != nil {
		return nil, err
	}
	w.mark += trailerSize

	return w.buf[:w.mark], nil
}

// writeFileIDAndCreator emits the file-id and file-creator preamble common
// to every specialised writer, both under local id 0 (never redefined
// afterward, per §4.7 — file-creator simply replaces file-id's definition
// once file-id's single data record has already been written).
func (w *Writer) writeFileIDAndCreator(fileType uint8, manufacturer, product uint16, serial, timeCreated uint32, number uint16) error {
	fileIDFields := []WriterFieldDef{
		{Number: 0, Name: "type", Type: TypeEnum, Count: 1},
		{Number: 1, Name: "manufacturer", Type: TypeUint16, Count: 1},
		{Number: 2, Name: "product", Type: TypeUint16, Count: 1},
		{Number: 3, Name: "serial_number", Type: TypeUint32z, Count: 1},
		{Number: 4, Name: "time_created", Type: TypeUint32, Count: 1},
		{Number: 5, Name: "number", Type: TypeUint16, Count: 1},
	}
	if err := w.putDefinition(profile.MesgFileID, 0, fileIDFields); err != nil {
		return err
	}
	if err := w.putMessage(profile.MesgFileID, map[string]Value{
		"type":          {Kind: KindInt, Int: int64(fileType)},
		"manufacturer":  {Kind: KindInt, Int: int64(manufacturer)},
		"product":       {Kind: KindInt, Int: int64(product)},
		"serial_number": {Kind: KindInt, Int: int64(serial)},
		"time_created":  {Kind: KindInt, Int: int64(timeCreated)},
		"number":        {Kind: KindInt, Int: int64(number)},
	}); err != nil {
		return err
	}

	creatorFields := []WriterFieldDef{
		{Number: 0, Name: "software_version", Type: TypeUint16, Count: 1},
		{Number: 1, Name: "hardware_version", Type: TypeUint8, Count: 1},
	}
	if err := w.putDefinition(profile.MesgFileCreator, 0, creatorFields); err != nil {
		return err
	}
	return w.putMessage(profile.MesgFileCreator, map[string]Value{
		"software_version": {Kind: KindInt, Int: 100},
		"hardware_version": {Kind: KindInt, Int: 0},
	})
}
