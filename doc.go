// Package fitcore decodes and encodes FIT (Flexible and Interoperable Data
// Transfer) binary files: a byte-level codec and type registry (wire,
// basetype.go), a streaming record decoder that tracks local-id
// definitions and developer fields (decoder.go), an event dispatcher that
// routes decoded messages to a Handler (dispatch.go), an ActivityBuilder
// that assembles the activity/session/lap/length/record hierarchy
// (activity.go), and a writer core with workout/sport/settings
// specialisations (writer.go and friends).
//
// Decode is the package's single-call convenience entry point for the
// common case: read a complete activity file and get back its hierarchy.
// Callers needing finer control — a custom Handler, or to decode something
// other than an activity file — should wire StreamReader, RecordDecoder and
// Dispatcher together directly.
package fitcore

// Decode parses a complete FIT activity file and returns its assembled
// Activity hierarchy.
func Decode(data []byte) (*Activity, error) {
	r, err := NewStreamReader(data)
	if err != nil {
		return nil, err
	}

	builder := NewActivityBuilder(DefaultComputer{})
	dispatcher := builder.Dispatcher()

	if err := NewRecordDecoder().Decode(r, dispatcher); err != nil {
		return nil, err
	}

	return builder.CollectActivity()
}
