package fitcore

import (
	"testing"
	"time"
)

func mustParseTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("time.Parse(%q): %v", s, err)
	}
	return tm
}

// collectingConsumer gathers every dispatched message for inspection.
type collectingConsumer struct {
	messages []*Message
}

func (c *collectingConsumer) Consume(msg *Message) error {
	c.messages = append(c.messages, msg)
	return nil
}

func decodeAll(t *testing.T, data []byte) []*Message {
	t.Helper()
	r, err := NewStreamReader(data)
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}
	consumer := &collectingConsumer{}
	if err := NewRecordDecoder().Decode(r, consumer); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return consumer.messages
}

func TestFinaliseCRCReducesToZero(t *testing.T) {
	ww, err := NewWorkoutWriter("Test", 1)
	if err != nil {
		t.Fatalf("NewWorkoutWriter: %v", err)
	}
	data, err := ww.Finalise()
	if err != nil {
		t.Fatalf("Finalise: %v", err)
	}
	if crc16Of(data) != 0 {
		t.Fatalf("whole-file CRC did not reduce to zero")
	}
	if string(data[8:12]) != fitSignature {
		t.Fatalf("missing .FIT signature in header")
	}
}

// TestWorkoutFileRoundTrip is the writer's literal round-trip scenario: a
// workout file named "Test", sport 1, with no steps, decodes back to a
// file-id of type workout-file(5)/manufacturer(1)/product(65534) and a
// workout message of name "Test"/sport(1)/num-steps(0).
func TestWorkoutFileRoundTrip(t *testing.T) {
	ww, err := NewWorkoutWriter("Test", 1)
	if err != nil {
		t.Fatalf("NewWorkoutWriter: %v", err)
	}
	data, err := ww.Finalise()
	if err != nil {
		t.Fatalf("Finalise: %v", err)
	}

	messages := decodeAll(t, data)

	var fileID, workout *Message
	for _, m := range messages {
		switch m.Global {
		case 0:
			fileID = m
		case 26:
			workout = m
		}
	}
	if fileID == nil {
		t.Fatalf("expected a file-id message in the decoded stream")
	}
	if v, _ := fileID.Get("type"); v.Int != fileTypeWorkout {
		t.Fatalf("got file type %+v, want %d", v, fileTypeWorkout)
	}
	if v, _ := fileID.Get("manufacturer"); v.Int != 1 {
		t.Fatalf("got manufacturer %+v, want 1", v)
	}
	if v, _ := fileID.Get("product"); v.Int != 65534 {
		t.Fatalf("got product %+v, want 65534", v)
	}

	if workout == nil {
		t.Fatalf("expected a workout message in the decoded stream")
	}
	if v, _ := workout.Get("wkt_name"); v.Str != "Test" {
		t.Fatalf("got workout name %+v, want Test", v)
	}
	if v, _ := workout.Get("sport"); v.Int != 1 {
		t.Fatalf("got workout sport %+v, want 1", v)
	}
	if v, _ := workout.Get("num_valid_steps"); v.Int != 0 {
		t.Fatalf("got num_valid_steps %+v, want 0", v)
	}
}

func TestWorkoutFileWithStepsRoundTrip(t *testing.T) {
	ww, err := NewWorkoutWriter("Intervals", 2)
	if err != nil {
		t.Fatalf("NewWorkoutWriter: %v", err)
	}
	ww.AddStep(WorkoutStep{Name: "Warmup", DurationType: 0, DurationValue: 300000})
	ww.AddStep(WorkoutStep{Name: "Interval", DurationType: 1, DurationValue: 60000})

	data, err := ww.Finalise()
	if err != nil {
		t.Fatalf("Finalise: %v", err)
	}

	messages := decodeAll(t, data)
	var steps []*Message
	for _, m := range messages {
		if m.Global == 27 {
			steps = append(steps, m)
		}
	}
	if len(steps) != 2 {
		t.Fatalf("got %d workout-step messages, want 2", len(steps))
	}
	if v, _ := steps[0].Get("wkt_step_name"); v.Str != "Warmup" {
		t.Fatalf("got step 0 name %+v, want Warmup", v)
	}
	if v, _ := steps[1].Get("message_index"); v.Int != 1 {
		t.Fatalf("got step 1 message_index %+v, want 1", v)
	}
}

func TestSportFileZonesRoundTrip(t *testing.T) {
	sw, err := NewSportWriter(1, 0)
	if err != nil {
		t.Fatalf("NewSportWriter: %v", err)
	}
	sw.MaxHeartRate = 190
	sw.ThresholdHeartRate = 160
	sw.FunctionalThresholdPower = 250
	sw.SpeedZones = []SpeedZone{{HighMPS: 3.5, Name: "Easy"}}

	data, err := sw.Finalise()
	if err != nil {
		t.Fatalf("Finalise: %v", err)
	}

	messages := decodeAll(t, data)
	var zonesTarget, speedZone *Message
	for _, m := range messages {
		switch m.Global {
		case 7:
			zonesTarget = m
		case 53:
			speedZone = m
		}
	}
	if zonesTarget == nil {
		t.Fatalf("expected a zones-target message")
	}
	if v, _ := zonesTarget.Get("functional_threshold_power"); v.Int != 250 {
		t.Fatalf("got functional_threshold_power %+v, want 250", v)
	}
	if speedZone == nil {
		t.Fatalf("expected a speed-zone message")
	}
	if v, _ := speedZone.Get("high_value"); v.Int != 3500 {
		t.Fatalf("got speed zone high_value %+v, want 3500 (mm/s)", v)
	}
}

func TestSettingsFileUserProfileRoundTrip(t *testing.T) {
	now := mustParseTime(t, "2024-01-01T00:00:00Z")
	dob := mustParseTime(t, "1990-01-01T00:00:00Z")

	sw, err := NewSettingsWriter(now)
	if err != nil {
		t.Fatalf("NewSettingsWriter: %v", err)
	}
	sw.Gender = 1
	sw.DateOfBirth = dob
	sw.HeightMeters = 1.80
	sw.WeightKG = 75.5
	sw.LogHRV = true

	data, err := sw.Finalise()
	if err != nil {
		t.Fatalf("Finalise: %v", err)
	}

	messages := decodeAll(t, data)
	var userProfile, hrmProfile *Message
	for _, m := range messages {
		switch m.Global {
		case 3:
			userProfile = m
		case 4:
			hrmProfile = m
		}
	}
	if userProfile == nil {
		t.Fatalf("expected a user-profile message")
	}
	if v, _ := userProfile.Get("age"); v.Int != 34 {
		t.Fatalf("got age %+v, want 34", v)
	}
	if v, _ := userProfile.Get("birth_year"); v.Int != 90 {
		t.Fatalf("got birth_year %+v, want 90", v)
	}
	if hrmProfile == nil {
		t.Fatalf("expected an hrm-profile message")
	}
	if v, _ := hrmProfile.Get("log_hrv"); v.Int != 1 {
		t.Fatalf("got log_hrv %+v, want 1", v)
	}
}
