package fitcore

// TrackRecord is a terminal record node: one decoded "record" message
// (sensor sample), already normalised by the event dispatcher.
type TrackRecord struct {
	*Message
}

// Length owns the track records recorded during one pool length (or, for a
// synthetic length, every record of a lap that had no lengths of its own).
type Length struct {
	*Message
	Records []*TrackRecord
}

// Lap owns the lengths recorded during it. A lap with no real lengths still
// gets one synthetic Length carrying all of its records, so Lengths is never
// empty once a lap has any records at all.
type Lap struct {
	*Message
	Lengths []*Length
}

// Session owns the laps recorded during it, plus the devices and sport
// message active when it closed.
type Session struct {
	*Message
	Devices []*Message
	Sport   *Message
	Laps    []*Lap
}

// Activity is the final structured result of a read (§3's {start-time, guid,
// developer-data-ids, field-descriptions, training-file, sessions}).
type Activity struct {
	StartTime         Value
	GUID              string
	DeveloperDataIDs  []*Message
	FieldDescriptions []*Message
	TrainingFile      *Message
	Sessions          []*Session
}
