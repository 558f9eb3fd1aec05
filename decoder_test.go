package fitcore

import (
	"testing"

	"github.com/mharder/fitcore/wire"
)

// fixtureConsumer records every message handed to it, in order.
type fixtureConsumer struct {
	messages []*Message
}

func (c *fixtureConsumer) Consume(msg *Message) error {
	c.messages = append(c.messages, msg)
	return nil
}

// buildFileWithRecords wraps rawRecords (already-encoded definition/data
// records) in a valid 14-byte header and trailing CRC, computing both CRCs
// from the assembled bytes rather than hand-typed magic numbers.
func buildFileWithRecords(t *testing.T, rawRecords []byte) []byte {
	t.Helper()
	buf := make([]byte, headerSizeCRC+len(rawRecords)+trailerSize)
	buf[0] = headerSizeCRC
	buf[1] = 16
	if _, err := wire.WriteInt(buf, 2, 1322, 2, false); err != nil {
		t.Fatalf("write profile version: %v", err)
	}
	if _, err := wire.WriteInt(buf, 4, int64(len(rawRecords)), 4, false); err != nil {
		t.Fatalf("write data length: %v", err)
	}
	copy(buf[8:12], fitSignature)

	headerCRC := wire.Checksum(buf[:12])
	if _, err := wire.WriteInt(buf, 12, int64(headerCRC), 2, false); err != nil {
		t.Fatalf("write header crc: %v", err)
	}

	copy(buf[14:], rawRecords)

	fileCRC := wire.Checksum(buf[:14+len(rawRecords)])
	if _, err := wire.WriteInt(buf, 14+len(rawRecords), int64(fileCRC), 2, false); err != nil {
		t.Fatalf("write file crc: %v", err)
	}
	return buf
}

func TestDecodeSimpleFileIDMessage(t *testing.T) {
	records := []byte{
		0x40,       // definition header: local id 0
		0x00,       // reserved
		0x00,       // architecture: little endian
		0x00, 0x00, // global message number 0 (file_id)
		0x01,             // one field
		0x01, 0x02, 0x84, // field 1 (manufacturer), size 2, base type uint16

		0x00,       // data header: local id 0
		0x05, 0x00, // manufacturer = 5
	}
	buf := buildFileWithRecords(t, records)

	r, err := NewStreamReader(buf)
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}

	dec := NewRecordDecoder()
	consumer := &fixtureConsumer{}
	if err := dec.Decode(r, consumer); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(consumer.messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(consumer.messages))
	}
	msg := consumer.messages[0]
	if msg.Global != 0 {
		t.Fatalf("got global %d, want 0", msg.Global)
	}
	v, ok := msg.Get("manufacturer")
	if !ok {
		t.Fatalf("expected a manufacturer field")
	}
	if v.Kind != KindInt || v.Int != 5 {
		t.Fatalf("got %+v, want int 5", v)
	}
}

func TestDecodeUnknownLocalIDFails(t *testing.T) {
	records := []byte{
		0x00, // data header for local id 0, never defined
		0x05,
	}
	buf := buildFileWithRecords(t, records)

	r, err := NewStreamReader(buf)
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}

	dec := NewRecordDecoder()
	if err := dec.Decode(r, &fixtureConsumer{}); err == nil {
		t.Fatalf("expected an error for an undefined local id")
	}
}

func TestDecodeBadArchitectureByte(t *testing.T) {
	records := []byte{
		0x40,       // definition header
		0x00,       // reserved
		0x07,       // invalid architecture byte
		0x00, 0x00, // global
		0x00, // zero fields
	}
	buf := buildFileWithRecords(t, records)

	r, err := NewStreamReader(buf)
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}

	dec := NewRecordDecoder()
	if err := dec.Decode(r, &fixtureConsumer{}); err == nil {
		t.Fatalf("expected ErrBadHeaderByte for an invalid architecture byte")
	}
}

func TestDecodeCompressedTimestampHeader(t *testing.T) {
	records := []byte{
		// definition for local id 0: carries an explicit timestamp field,
		// used to establish current-timestamp via a normal data record.
		0x40, 0x00, 0x00, 0x14, 0x00,
		0x01,
		0xFD, 0x04, 0x86, // field 253 (timestamp), size 4, base type uint32

		// first data record establishes current-timestamp = 1000
		0x00,
		0xE8, 0x03, 0x00, 0x00, // 1000 little-endian

		// definition for local id 1: no timestamp field at all, since a
		// compressed-timestamp header supplies it out of band.
		0x41, 0x00, 0x00, 0x14, 0x00,
		0x00,

		// compressed-timestamp data record, local id 1, offset 3
		0x80 | (1 << 5) | 3,
	}
	buf := buildFileWithRecords(t, records)

	r, err := NewStreamReader(buf)
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}

	dec := NewRecordDecoder()
	consumer := &fixtureConsumer{}
	if err := dec.Decode(r, consumer); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(consumer.messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(consumer.messages))
	}

	compressed := consumer.messages[1]
	offsetVal, ok := compressed.Get("compressed-timestamp")
	if !ok || offsetVal.Int != 3 {
		t.Fatalf("got %+v, want compressed-timestamp 3", offsetVal)
	}
}

func TestDecodeDeveloperField(t *testing.T) {
	guidBytes := make([]byte, 16)
	for i := range guidBytes {
		guidBytes[i] = byte(i)
	}

	records := []byte{}

	// definition record for developer-data-id (global 207), local id 0
	records = append(records,
		0x40, 0x00, 0x00, 0xCF, 0x00, // header, reserved, arch, global=207
		0x02, // two fields
		0x01, 0x10, 0x0D, // field 1 (application_id), size 16, base byte
		0x03, 0x01, 0x02, // field 3 (developer_data_index), size 1, base uint8
	)
	records = append(records, 0x00) // data header local id 0
	records = append(records, guidBytes...)
	records = append(records, 0x00) // developer_data_index = 0

	// definition record for field-description (global 206), local id 1
	records = append(records,
		0x41, 0x00, 0x00, 0xCE, 0x00, // header local id1, reserved, arch, global=206
		0x04,             // four fields
		0x00, 0x01, 0x02, // developer_data_index, size 1, uint8
		0x01, 0x01, 0x02, // field_definition_number, size 1, uint8
		0x02, 0x01, 0x02, // fit_base_type_id, size 1, uint8
		0x03, 0x08, 0x07, // field_name, size 8, string
	)
	records = append(records, 0x01) // data header local id1
	records = append(records, 0x00) // developer_data_index = 0
	records = append(records, 0x05) // field_definition_number = 5
	records = append(records, 0x84) // fit_base_type_id = 132 (uint16)
	records = append(records, []byte("speed\x00\x00\x00")...)

	// definition record for record (global 20), local id 2, carrying one
	// developer field (field number 5, size 2, ddi 0)
	records = append(records,
		0x62, 0x00, 0x00, 0x14, 0x00, // header local id2 with dev-data bit set, reserved, arch, global=20
		0x00, // zero native fields
		0x01, // one developer field
		0x05, 0x02, 0x00,
	)
	records = append(records, 0x02)       // data header local id2
	records = append(records, 0x2C, 0x01) // developer field raw = 300

	buf := buildFileWithRecords(t, records)

	r, err := NewStreamReader(buf)
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}

	dec := NewRecordDecoder()
	consumer := &fixtureConsumer{}
	if err := dec.Decode(r, consumer); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	last := consumer.messages[len(consumer.messages)-1]
	wantKey := hexLower16(guidBytes) + "-5"
	v, ok := last.Get(wantKey)
	if !ok {
		t.Fatalf("expected developer field under key %q, got fields %+v", wantKey, last.Fields())
	}
	if v.Kind != KindInt || v.Int != 300 {
		t.Fatalf("got %+v, want int 300", v)
	}
}
