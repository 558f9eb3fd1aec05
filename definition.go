package fitcore

// devFieldTypeOffset is added to a developer-data-index to form an
// artificial type code (≥1000) distinguishing developer fields from the
// ≤255 FIT base types in a field definition, per §3 of the data model.
const devFieldTypeOffset = 1000

// FieldDef is one field triple of a message definition: a field number
// (native field-definition-number, or developer field number), its symbolic
// name when known, its byte size in the stream, and its type code — a real
// FIT base-type id for native fields, or devFieldTypeOffset+ddi for
// developer fields.
type FieldDef struct {
	Number       uint8
	Name         string
	Size         uint8
	TypeCode     int
	DevDataIndex uint8 // meaningful only when TypeCode >= devFieldTypeOffset
}

// IsDeveloper reports whether this field triple describes a developer field
// rather than a native FIT one.
func (f FieldDef) IsDeveloper() bool { return f.TypeCode >= devFieldTypeOffset }

// MessageDefinition is the decoded layout for one local-id: the global
// message it describes, its byte order, and its field list in declaration
// order. Definitions are mutable — a later definition record for the same
// local-id replaces this one entirely.
type MessageDefinition struct {
	LocalID   uint8
	Global    uint16
	BigEndian bool
	Fields    []FieldDef
}

// definitionTable is the decoder's local-id → MessageDefinition table
// ("readers" in the spec's vocabulary, generalised here to hold the
// definition itself rather than a pre-bound reader closure — the reader
// behavior is derived from the definition on each data record instead of
// captured ahead of time, which avoids keeping two parallel tables in sync).
type definitionTable struct {
	byLocalID map[uint8]*MessageDefinition
}

func newDefinitionTable() *definitionTable {
	return &definitionTable{byLocalID: make(map[uint8]*MessageDefinition)}
}

func (t *definitionTable) put(def *MessageDefinition) {
	t.byLocalID[def.LocalID] = def
}

func (t *definitionTable) get(localID uint8) (*MessageDefinition, bool) {
	d, ok := t.byLocalID[localID]
	return d, ok
}
