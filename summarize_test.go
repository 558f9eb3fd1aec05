package fitcore

import "testing"

func recordWithPower(p int64) *TrackRecord {
	msg := NewMessage(20)
	msg.Append("power", Value{Kind: KindInt, Int: p})
	return &TrackRecord{Message: msg}
}

func TestComputeLapAveragesPower(t *testing.T) {
	records := []*TrackRecord{recordWithPower(100), recordWithPower(200), recordWithPower(300)}
	fields := DefaultComputer{}.ComputeLap(records, nil)

	found := false
	for _, f := range fields {
		if f.Name == "avg_power" {
			found = true
			if f.Value.Float != 200 {
				t.Fatalf("got avg_power %v, want 200", f.Value.Float)
			}
		}
	}
	if !found {
		t.Fatalf("expected an avg_power field, got %+v", fields)
	}
}

func TestComputeLapFallsBackToLengths(t *testing.T) {
	length := &Length{Records: []*TrackRecord{recordWithPower(50), recordWithPower(150)}}
	fields := DefaultComputer{}.ComputeLap(nil, []*Length{length})

	for _, f := range fields {
		if f.Name == "avg_power" && f.Value.Float != 100 {
			t.Fatalf("got avg_power %v, want 100", f.Value.Float)
		}
	}
}

func TestComputeLapEmptyYieldsNoFields(t *testing.T) {
	fields := DefaultComputer{}.ComputeLap(nil, nil)
	if fields != nil {
		t.Fatalf("expected nil fields for an empty lap, got %+v", fields)
	}
}
