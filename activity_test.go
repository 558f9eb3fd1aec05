package fitcore

import "testing"

func TestProcessFieldsCadenceFusion(t *testing.T) {
	msg := NewMessage(20)
	msg.Append("cadence", Value{Kind: KindInt, Int: 85})
	msg.Append("fractional_cadence", Value{Kind: KindFloat, Float: 0.5})

	processFields(msg)

	v, ok := msg.Get("cadence")
	if !ok {
		t.Fatalf("expected a cadence field after fusion")
	}
	if v.Kind != KindFloat || v.Float != 85.5 {
		t.Fatalf("got %+v, want float 85.5", v)
	}
	if _, ok := msg.Get("fractional_cadence"); ok {
		t.Fatalf("expected fractional_cadence to be removed after fusion")
	}
}

func TestGarminSwimLengthPairing(t *testing.T) {
	lengths := []*Length{
		{Message: withTimestamp(101, 100)},
		{Message: withTimestamp(101, 110)},
		{Message: withTimestamp(101, 120)},
	}
	records := []*TrackRecord{
		{Message: withTimestamp(20, 999)},
		{Message: withTimestamp(20, 999)},
		{Message: withTimestamp(20, 999)},
	}

	assigned := assignLengthsAndRecords(lengths, records)
	if len(assigned) != 3 {
		t.Fatalf("got %d lengths, want 3", len(assigned))
	}
	for i, l := range assigned {
		if len(l.Records) != 1 || l.Records[0] != records[i] {
			t.Fatalf("length %d: expected positional pairing with records[%d]", i, i)
		}
	}
}

func TestOnLapSynthesizesLengthWhenNoneExist(t *testing.T) {
	b := NewActivityBuilder(nil)
	rec1 := withTimestamp(20, 10)
	rec2 := withTimestamp(20, 20)
	if err := b.OnRecord(rec1); err != nil {
		t.Fatalf("OnRecord: %v", err)
	}
	if err := b.OnRecord(rec2); err != nil {
		t.Fatalf("OnRecord: %v", err)
	}
	if err := b.OnLap(withTimestamp(19, 20)); err != nil {
		t.Fatalf("OnLap: %v", err)
	}

	if len(b.laps) != 1 {
		t.Fatalf("got %d laps, want 1", len(b.laps))
	}
	if len(b.laps[0].Lengths) != 1 {
		t.Fatalf("got %d lengths, want 1 synthetic length", len(b.laps[0].Lengths))
	}
	if len(b.laps[0].Lengths[0].Records) != 2 {
		t.Fatalf("got %d records in synthetic length, want 2", len(b.laps[0].Lengths[0].Records))
	}
}

func TestOnFileIDRejectsNonActivity(t *testing.T) {
	b := NewActivityBuilder(nil)
	msg := NewMessage(0)
	msg.Append("type", Value{Kind: KindInt, Int: fileTypeWorkout})

	if err := b.OnFileID(msg); err == nil {
		t.Fatalf("expected an error for a non-activity file type")
	}
}

func TestCollectActivityHierarchyClosure(t *testing.T) {
	b := NewActivityBuilder(nil)

	fileID := NewMessage(0)
	fileID.Append("type", Value{Kind: KindInt, Int: fileTypeActivity})
	fileID.Append("serial_number", Value{Kind: KindInt, Int: 12345})
	fileID.Append("time_created", Value{Kind: KindInt, Int: 1000})
	if err := b.OnFileID(fileID); err != nil {
		t.Fatalf("OnFileID: %v", err)
	}

	if err := b.OnRecord(withTimestamp(20, 1000)); err != nil {
		t.Fatalf("OnRecord: %v", err)
	}
	if err := b.OnRecord(withTimestamp(20, 1010)); err != nil {
		t.Fatalf("OnRecord: %v", err)
	}
	if err := b.OnLap(withTimestamp(19, 1010)); err != nil {
		t.Fatalf("OnLap: %v", err)
	}
	if err := b.OnSession(withTimestamp(18, 1010)); err != nil {
		t.Fatalf("OnSession: %v", err)
	}

	b.clock.UpdateTimestamp(withTimestamp(20, 1010))

	activity, err := b.CollectActivity()
	if err != nil {
		t.Fatalf("CollectActivity: %v", err)
	}

	if len(activity.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(activity.Sessions))
	}
	session := activity.Sessions[0]
	total := 0
	for _, lap := range session.Laps {
		for _, length := range lap.Lengths {
			total += len(length.Records)
		}
	}
	if total != 2 {
		t.Fatalf("got %d total records reachable from sessions, want 2", total)
	}
	if activity.GUID != "12345-1000" {
		t.Fatalf("got guid %q, want 12345-1000", activity.GUID)
	}
}

func withTimestamp(global uint16, ts int64) *Message {
	m := NewMessage(global)
	m.Append("timestamp", Value{Kind: KindInt, Int: ts})
	return m
}
