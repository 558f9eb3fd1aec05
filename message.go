package fitcore

import "github.com/mharder/fitcore/profile"

// Field is one (name, value) entry of a Message.
type Field struct {
	Name  string
	Value Value
}

// Message is the decoder's per-record output: an ordered sequence of
// (field-name, value) entries, implemented as a small insertion-ordered
// association list rather than a plain map — per the design notes, "first
// wins on lookup" when a developer field happens to share a name with a
// native one, while Fields() still exposes insertion order for JSON
// rendering and for the writer's inverse operation.
type Message struct {
	Global uint16
	Kind   profile.Kind
	fields []Field
}

// NewMessage constructs an empty message tagged with its global message
// number and dispatch kind.
func NewMessage(global uint16) *Message {
	return &Message{Global: global, Kind: profile.KindForGlobal(global)}
}

// Append adds a field entry at the end, preserving decode order.
func (m *Message) Append(name string, v Value) {
	m.fields = append(m.fields, Field{Name: name, Value: v})
}

// Prepend adds a field entry at the front — used by process_fields to
// install derived fields ahead of the raw entries they supersede.
func (m *Message) Prepend(name string, v Value) {
	m.fields = append([]Field{{Name: name, Value: v}}, m.fields...)
}

// Get returns the first entry named name, matching the "first wins on
// lookup" rule for duplicate keys.
func (m *Message) Get(name string) (Value, bool) {
	for _, f := range m.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// RemoveAll drops every entry named name, used by process_fields when a
// derived field supersedes all raw entries under the same name.
func (m *Message) RemoveAll(name string) {
	out := m.fields[:0]
	for _, f := range m.fields {
		if f.Name != name {
			out = append(out, f)
		}
	}
	m.fields = out
}

// Fields returns the entries in insertion order. The slice is owned by the
// message; callers must not mutate it.
func (m *Message) Fields() []Field { return m.fields }

// ElideNone drops every entry whose value is the "no value" sentinel — the
// event dispatcher's pre-routing step.
func (m *Message) ElideNone() {
	out := m.fields[:0]
	for _, f := range m.fields {
		if !f.Value.IsNone() {
			out = append(out, f)
		}
	}
	m.fields = out
}

// Clone returns a shallow copy whose field slice is independent of the
// original, for callers that must hand a message on without aliasing its
// fields.
func (m *Message) Clone() *Message {
	cp := &Message{Global: m.Global, Kind: m.Kind}
	cp.fields = append([]Field(nil), m.fields...)
	return cp
}
