package fitcore

import "github.com/mharder/fitcore/summary"

// Computer is the compute_summary collaborator named in the core's
// interface list (§6): given whichever level of accumulated state is
// available, it returns derived aggregate fields to prepend onto a
// synthesised lap or session record.
type Computer interface {
	ComputeLap(records []*TrackRecord, lengths []*Length) []Field
	ComputeSession(laps []*Lap) []Field
}

// DefaultComputer is the built-in Computer, exercised whenever the activity
// builder is not configured with one of its own. It rolls sensor samples
// from a run of track records, or from a run of laps, down to []float64 and
// hands them to the summary package's pure rolling-window helpers.
type DefaultComputer struct{}

// ComputeLap summarises a synthetic lap's own records, falling back to the
// records held by its lengths when called with none directly. The activity
// builder calls it with its still-unassigned records, before they are moved
// into the lap's lengths.
func (DefaultComputer) ComputeLap(records []*TrackRecord, lengths []*Length) []Field {
	all := records
	if len(all) == 0 {
		for _, l := range lengths {
			all = append(all, l.Records...)
		}
	}
	return summarizeRecords(all)
}

// ComputeSession summarises every record reachable through a run of laps.
func (DefaultComputer) ComputeSession(laps []*Lap) []Field {
	var all []*TrackRecord
	for _, lap := range laps {
		for _, length := range lap.Lengths {
			all = append(all, length.Records...)
		}
	}
	return summarizeRecords(all)
}

func summarizeRecords(records []*TrackRecord) []Field {
	if len(records) == 0 {
		return nil
	}

	power := extractSamples(records, "power")
	hr := extractSamples(records, "heart_rate")
	cadence := extractSamples(records, "cadence")
	speed := extractSamples(records, "speed")
	distance := extractSamples(records, "distance")

	var fields []Field
	appendIfNonZero := func(name string, v float64) {
		if v != 0 {
			fields = append(fields, Field{Name: name, Value: Value{Kind: KindFloat, Float: v}})
		}
	}

	appendIfNonZero("avg_power", summary.Average(power))
	appendIfNonZero("max_power", summary.MaxValue(power))
	appendIfNonZero("normalized_power", summary.NormalizedPower(power))
	appendIfNonZero("avg_heart_rate", summary.Average(hr))
	appendIfNonZero("max_heart_rate", summary.MaxValue(hr))
	appendIfNonZero("avg_cadence", summary.Average(cadence))
	appendIfNonZero("max_cadence", summary.MaxValue(cadence))
	appendIfNonZero("avg_speed", summary.Average(speed))
	appendIfNonZero("max_speed", summary.MaxValue(speed))
	if len(distance) > 0 {
		appendIfNonZero("total_distance", distance[len(distance)-1])
	}

	return fields
}

func extractSamples(records []*TrackRecord, field string) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		v, ok := r.Get(field)
		if !ok || v.IsNone() {
			continue
		}
		switch v.Kind {
		case KindInt:
			out = append(out, float64(v.Int))
		case KindFloat:
			out = append(out, v.Float)
		}
	}
	return out
}
