package fitcore

import (
	"fmt"

	"github.com/mharder/fitcore/profile"
)

// Record header bit masks (§4.4). A header byte's top bit selects between a
// normal header (0) and a compressed-timestamp data header (1). Within a
// normal header, bit 6 distinguishes definition (1) from data (0), bit 5
// distinguishes standard (0) from developer-field-carrying (1), and the low
// nibble is the local-id. Within a compressed header, bits 5-6 carry a 2-bit
// local-id and the low 5 bits carry the timestamp offset.
const (
	headerCompressedMask        = 0x80
	headerCompressedLocalIDMask = 0x60
	headerCompressedTimeMask    = 0x1F
	headerDefinitionMask        = 0x40
	headerDevDataMask           = 0x20
	headerLocalIDMask           = 0x0F
)

// Consumer receives each decoded, not-yet-dispatched message in stream
// order. Dispatcher implements it.
type Consumer interface {
	Consume(msg *Message) error
}

// RecordDecoder consumes bytes from a StreamReader, interprets record
// headers, maintains a table of local-id → message-definition, decodes each
// data record into an ordered Message, and hands it to a Consumer. It also
// owns the developer-field bookkeeping (§4.4, §4.8): a fresh
// DeveloperFieldRegistry per decode, populated as developer-data-id and
// field-description messages are encountered mid-stream.
type RecordDecoder struct {
	definitions *definitionTable
	devRegistry *DeveloperFieldRegistry
}

// NewRecordDecoder constructs a decoder with empty definition and
// developer-field tables.
func NewRecordDecoder() *RecordDecoder {
	return &RecordDecoder{
		definitions: newDefinitionTable(),
		devRegistry: newDeveloperFieldRegistry(),
	}
}

// Decode reads every record from r and hands each decoded data message to
// consumer, in stream order, until the logical read window is exhausted.
func (d *RecordDecoder) Decode(r *StreamReader, consumer Consumer) error {
	for !r.IsEOF() {
		if err := d.decodeOneRecord(r, consumer); err != nil {
			return err
		}
	}
	return nil
}

func (d *RecordDecoder) decodeOneRecord(r *StreamReader, consumer Consumer) error {
	headerByte, err := r.ReadByte()
	if err != nil {
		return err
	}

	switch {
	case headerByte&headerCompressedMask == headerCompressedMask:
		localID := (headerByte & headerCompressedLocalIDMask) >> 5
		def, ok := d.definitions.get(localID)
		if !ok {
			return fmt.Errorf("%w: local id %d (compressed)", ErrUnknownMessageDefinition, localID)
		}
		offset := headerByte & headerCompressedTimeMask
		msg, err := d.decodeDataRecord(r, def)
		if err != nil {
			return err
		}
		msg.Append("compressed-timestamp", Value{Kind: KindInt, Int: int64(offset)})
		return d.dispatchDataMessage(msg, def, consumer)

	case headerByte&headerDefinitionMask == headerDefinitionMask:
		def, err := d.decodeDefinitionRecord(r, headerByte)
		if err != nil {
			return err
		}
		d.definitions.put(def)
		return nil

	default:
		localID := headerByte & headerLocalIDMask
		def, ok := d.definitions.get(localID)
		if !ok {
			return fmt.Errorf("%w: local id %d", ErrUnknownMessageDefinition, localID)
		}
		msg, err := d.decodeDataRecord(r, def)
		if err != nil {
			return err
		}
		return d.dispatchDataMessage(msg, def, consumer)
	}
}

func (d *RecordDecoder) decodeDefinitionRecord(r *StreamReader, headerByte byte) (*MessageDefinition, error) {
	localID := headerByte & headerLocalIDMask

	if _, err := r.ReadByte(); err != nil { // reserved
		return nil, err
	}

	archByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	var bigEndian bool
	switch archByte {
	case 0:
		bigEndian = false
	case 1:
		bigEndian = true
	default:
		return nil, fmt.Errorf("%w: architecture byte %d", ErrBadHeaderByte, archByte)
	}

	globalRaw, err := r.ReadInt(2, false, bigEndian)
	if err != nil {
		return nil, err
	}
	global := uint16(globalRaw)

	numFieldsRaw, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	fields := make([]FieldDef, 0, int(numFieldsRaw))
	for i := 0; i < int(numFieldsRaw); i++ {
		triple, err := r.ReadBytes(3)
		if err != nil {
			return nil, err
		}
		fieldNum, size, baseRaw := triple[0], triple[1], triple[2]
		canonical := decompressBaseType(baseRaw)
		fields = append(fields, FieldDef{
			Number:   fieldNum,
			Name:     profile.FieldName(global, fieldNum),
			Size:     size,
			TypeCode: int(canonical),
		})
	}

	if headerByte&headerDevDataMask == headerDevDataMask {
		devCountRaw, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(devCountRaw); i++ {
			triple, err := r.ReadBytes(3)
			if err != nil {
				return nil, err
			}
			fieldNum, size, ddi := triple[0], triple[1], triple[2]
			fields = append(fields, FieldDef{
				Number:       fieldNum,
				Size:         size,
				TypeCode:     devFieldTypeOffset + int(ddi),
				DevDataIndex: ddi,
			})
		}
	}

	return &MessageDefinition{LocalID: localID, Global: global, BigEndian: bigEndian, Fields: fields}, nil
}

func (d *RecordDecoder) decodeDataRecord(r *StreamReader, def *MessageDefinition) (*Message, error) {
	msg := NewMessage(def.Global)
	for _, fd := range def.Fields {
		if fd.IsDeveloper() {
			meta, lookupErr := d.devRegistry.Lookup(fd.DevDataIndex, fd.Number)
			if lookupErr != nil {
				if _, err := r.ReadBytes(int(fd.Size)); err != nil {
					return nil, err
				}
				return nil, lookupErr
			}
			v, err := r.ReadNext(meta.BaseType, int(fd.Size), def.BigEndian)
			if err != nil {
				return nil, err
			}
			msg.Append(meta.StableKey, v)
			continue
		}

		t, err := LookupType(uint8(fd.TypeCode))
		if err != nil {
			if _, skipErr := r.ReadBytes(int(fd.Size)); skipErr != nil {
				return nil, skipErr
			}
			return nil, err
		}
		v, err := r.ReadNext(t, int(fd.Size), def.BigEndian)
		if err != nil {
			return nil, err
		}
		if conv, ok := profile.ConversionFor(def.Global, fd.Name); ok {
			v = applyConversion(v, conv)
		}
		msg.Append(fd.Name, v)
	}
	return msg, nil
}

// applyConversion applies a static-table conversion element-wise to vector
// values, per §4.6's process_fields and the design notes' "conversion
// closures" pattern.
func applyConversion(v Value, conv profile.Conversion) Value {
	switch v.Kind {
	case KindInt:
		return Value{Kind: KindFloat, Float: conv.Apply(float64(v.Int))}
	case KindFloat:
		return Value{Kind: KindFloat, Float: conv.Apply(v.Float)}
	case KindVector:
		out := make([]Value, len(v.Vector))
		for i, e := range v.Vector {
			if e.IsNone() {
				out[i] = e
				continue
			}
			out[i] = applyConversion(e, conv)
		}
		return Value{Kind: KindVector, Vector: out}
	default:
		return v
	}
}

func (d *RecordDecoder) dispatchDataMessage(msg *Message, def *MessageDefinition, consumer Consumer) error {
	switch profile.KindForGlobal(def.Global) {
	case profile.KindDeveloperDataID:
		d.handleDeveloperDataID(msg)
	case profile.KindFieldDescription:
		d.handleFieldDescription(msg)
	}
	return consumer.Consume(msg)
}

// handleDeveloperDataID implements §4.4's sentinel handling for the
// developer-data-id message: the 16-byte developer-id and application-id
// fields are converted to lowercase hex strings in place, and the
// application guid is recorded against its developer-data-index for later
// stable-key computation.
func (d *RecordDecoder) handleDeveloperDataID(msg *Message) {
	devID, _ := msg.Get("developer_id")
	appID, _ := msg.Get("application_id")
	ddi, _ := msg.Get("developer_data_index")

	if devID.Kind == KindBytes {
		msg.RemoveAll("developer_id")
		msg.Append("developer_id", Value{Kind: KindString, Str: hexLower16(devID.Bytes)})
	}

	var appGUID string
	if appID.Kind == KindBytes {
		appGUID = hexLower16(appID.Bytes)
		msg.RemoveAll("application_id")
		msg.Append("application_id", Value{Kind: KindString, Str: appGUID})
	}

	if ddi.Kind == KindInt {
		d.devRegistry.RecordAppDef(uint8(ddi.Int), appGUID)
	}
}

// handleFieldDescription implements §4.4/§4.8's sentinel handling for the
// field-description message: the stable key is computed and stored for
// later developer-field decoding, and a field-key entry is appended for
// downstream lookup.
func (d *RecordDecoder) handleFieldDescription(msg *Message) {
	ddiVal, _ := msg.Get("developer_data_index")
	fieldNumVal, _ := msg.Get("field_definition_number")
	baseTypeVal, _ := msg.Get("fit_base_type_id")
	nameVal, _ := msg.Get("field_name")

	var ddi, fieldNum uint8
	if ddiVal.Kind == KindInt {
		ddi = uint8(ddiVal.Int)
	}
	if fieldNumVal.Kind == KindInt {
		fieldNum = uint8(fieldNumVal.Int)
	}

	var baseType FitType
	if baseTypeVal.Kind == KindInt {
		if t, err := LookupType(uint8(baseTypeVal.Int)); err == nil {
			baseType = t
		}
	}

	var name string
	switch nameVal.Kind {
	case KindString:
		name = nameVal.Str
	case KindBytes:
		name = string(nameVal.Bytes)
	}

	key := d.devRegistry.Describe(ddi, fieldNum, baseType, name)
	msg.Append("field-key", Value{Kind: KindString, Str: key})
}
