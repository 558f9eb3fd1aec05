package fitcore

import (
	"fmt"
	"sort"

	"github.com/mharder/fitcore/profile"
)

// FIT file-type enum values (§8 scenario 2 and §4.7's writer specialisations
// fix activity=4, settings=2, sport=3, workout=5).
const (
	fileTypeSettings = 2
	fileTypeSport    = 3
	fileTypeActivity = 4
	fileTypeWorkout  = 5
)

// FIT "timer" event and its stop-all/start event-type values, used by
// on-event's pause/unpause bookkeeping.
const (
	eventTimer        = 0
	eventTypeStart    = 0
	eventTypeStopAll  = 4
)

const degreesPerEncoderCount = 360.0 / 256.0

// powerPhaseFields is the eight raw vector fields process_fields expands
// into {name}_start/{name}_end pairs — left/right power-phase and
// power-phase-peak at the record level, and their avg- counterparts at lap
// and session level.
var powerPhaseFields = []string{
	"left_power_phase", "right_power_phase",
	"left_power_phase_peak", "right_power_phase_peak",
	"avg_left_power_phase", "avg_right_power_phase",
	"avg_left_power_phase_peak", "avg_right_power_phase_peak",
}

// ActivityBuilder is the concrete dispatcher of §4.6: it implements Handler,
// accumulating decoded records into the activity hierarchy and applying the
// vendor-tolerant fix-ups described there. A builder is used for exactly one
// stream; calling CollectActivity a second time is undefined.
type ActivityBuilder struct {
	clock      *Clock
	summarizer Computer

	sessions []*Session
	laps     []*Lap
	lengths  []*Length
	records  []*TrackRecord
	devices  []*Message
	sport    *Message

	trainingFile      *Message
	developerDataIDs  []*Message
	fieldDescriptions []*Message

	activityTimestamp Value
	activityGUID      string

	timerStopped bool
}

// NewActivityBuilder constructs a builder with a fresh clock. A nil
// computer defaults to DefaultComputer.
func NewActivityBuilder(computer Computer) *ActivityBuilder {
	if computer == nil {
		computer = DefaultComputer{}
	}
	return &ActivityBuilder{clock: &Clock{}, summarizer: computer}
}

// Dispatcher returns a Dispatcher routing to this builder, sharing its
// clock so CollectActivity can read the final current-timestamp.
func (b *ActivityBuilder) Dispatcher() *Dispatcher {
	return &Dispatcher{Handler: b, Clock: b.clock}
}

// processFields applies every derived-field rule of §4.6 to msg in place,
// before it is stored in any accumulator.
func processFields(msg *Message) {
	deriveStartTime(msg)
	fuseCadence(msg, "cadence", "fractional_cadence")
	deriveAvgCadence(msg)
	fuseCadence(msg, "max_cadence", "max_fractional_cadence")
	deriveOr(msg, "total_cycles", "total_strokes")
	deriveOr(msg, "left_right_balance", "stance_time_balance")
	for _, prefix := range powerPhaseFields {
		derivePowerPhase(msg, prefix)
	}
}

func deriveStartTime(msg *Message) {
	if v, ok := msg.Get("start_time"); ok && !v.IsNone() {
		return
	}
	if v, ok := msg.Get("timestamp"); ok && !v.IsNone() {
		msg.RemoveAll("start_time")
		msg.Prepend("start_time", v)
	}
}

func fuseCadence(msg *Message, primary, fractional string) {
	pVal, pOK := msg.Get(primary)
	fVal, fOK := msg.Get(fractional)
	if pOK && !pVal.IsNone() && fOK && !fVal.IsNone() {
		fused := asFloat(pVal) + asFloat(fVal)
		msg.RemoveAll(primary)
		msg.RemoveAll(fractional)
		msg.Prepend(primary, Value{Kind: KindFloat, Float: fused})
	}
}

// deriveAvgCadence prefers avg_swimming_cadence over a cadence/fractional
// fusion, per §4.6's "also preferring avg-swimming-cadence if present".
func deriveAvgCadence(msg *Message) {
	if v, ok := msg.Get("avg_swimming_cadence"); ok && !v.IsNone() {
		msg.RemoveAll("avg_cadence")
		msg.Prepend("avg_cadence", v)
		return
	}
	fuseCadence(msg, "avg_cadence", "avg_fractional_cadence")
}

func deriveOr(msg *Message, target, fallback string) {
	if v, ok := msg.Get(target); ok && !v.IsNone() {
		return
	}
	if v, ok := msg.Get(fallback); ok && !v.IsNone() {
		msg.RemoveAll(target)
		msg.Prepend(target, v)
	}
}

func derivePowerPhase(msg *Message, prefix string) {
	v, ok := msg.Get(prefix)
	if !ok || v.Kind != KindVector || len(v.Vector) < 2 {
		return
	}
	if start := v.Vector[0]; !start.IsNone() {
		msg.Prepend(prefix+"_start", Value{Kind: KindFloat, Float: asFloat(start) * degreesPerEncoderCount})
	}
	if end := v.Vector[1]; !end.IsNone() {
		msg.Prepend(prefix+"_end", Value{Kind: KindFloat, Float: asFloat(end) * degreesPerEncoderCount})
	}
}

func asFloat(v Value) float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	default:
		return 0
	}
}

func messageTimestamp(m *Message) (int64, bool) {
	v, ok := m.Get("timestamp")
	if !ok || v.IsNone() {
		return 0, false
	}
	return v.Int, true
}

// OnFileID requires an activity file type and, on first call, derives the
// activity guid from serial-number and time-created.
func (b *ActivityBuilder) OnFileID(msg *Message) error {
	typ, _ := msg.Get("type")
	if typ.Kind != KindInt || typ.Int != fileTypeActivity {
		return ErrNotAnActivity
	}
	if b.activityGUID == "" {
		serial, _ := msg.Get("serial_number")
		created, _ := msg.Get("time_created")
		b.activityGUID = fmt.Sprintf("%d-%d", serial.Int, created.Int)
	}
	return nil
}

// OnFileCreator is a no-op for the reader: the builder has no accumulator
// for it, matching §4.6's handler list, which does not name one.
func (b *ActivityBuilder) OnFileCreator(msg *Message) error { return nil }

func (b *ActivityBuilder) OnActivity(msg *Message) error {
	if ts, ok := msg.Get("timestamp"); ok && !ts.IsNone() {
		b.activityTimestamp = ts
	}
	return nil
}

// OnSession prepends the current devices, merges sport/sub_sport/
// pool_length/pool_length_unit preferring the dedicated sport message,
// pushes the session, and resets devices/sport for the next one.
func (b *ActivityBuilder) OnSession(msg *Message) error {
	processFields(msg)

	s := &Session{Message: msg, Devices: b.devices}
	if b.sport != nil {
		s.Sport = b.sport
		for _, name := range []string{"sport", "sub_sport", "pool_length", "pool_length_unit"} {
			if v, ok := b.sport.Get(name); ok && !v.IsNone() {
				msg.RemoveAll(name)
				msg.Prepend(name, v)
			}
		}
	}

	b.sessions = append(b.sessions, s)
	b.devices = nil
	b.sport = nil
	return nil
}

// OnRecord merges same-timestamp records (some devices split one sample
// across several records) rather than keeping them separate.
func (b *ActivityBuilder) OnRecord(msg *Message) error {
	processFields(msg)

	if n := len(b.records); n > 0 {
		lastTS, lastOK := messageTimestamp(b.records[n-1].Message)
		curTS, curOK := messageTimestamp(msg)
		if lastOK && curOK && lastTS == curTS {
			for _, f := range msg.Fields() {
				b.records[n-1].Append(f.Name, f.Value)
			}
			return nil
		}
	}
	b.records = append(b.records, &TrackRecord{Message: msg})
	return nil
}

func (b *ActivityBuilder) OnLength(msg *Message) error {
	processFields(msg)
	b.lengths = append(b.lengths, &Length{Message: msg})
	return nil
}

// OnLap attaches the accumulated lengths and records to the lap by one of
// four cases (§4.6), then clears both accumulators.
func (b *ActivityBuilder) OnLap(msg *Message) error {
	processFields(msg)

	lap := &Lap{Message: msg, Lengths: assignLengthsAndRecords(b.lengths, b.records)}
	b.lengths = nil
	b.records = nil
	b.laps = append(b.laps, lap)
	return nil
}

// assignLengthsAndRecords implements the four pairing cases of on-lap.
func assignLengthsAndRecords(lengths []*Length, records []*TrackRecord) []*Length {
	switch {
	case len(lengths) == 0 && len(records) == 0:
		return nil
	case len(lengths) == 0:
		return []*Length{{Message: NewMessage(profile.MesgLength), Records: records}}
	case len(lengths) == len(records):
		for i, l := range lengths {
			l.Records = []*TrackRecord{records[i]}
		}
		return lengths
	default:
		return prefixWalkAssign(lengths, records)
	}
}

// prefixWalkAssign sorts both slices by timestamp and assigns to each
// length the prefix of records whose timestamp is at or before it. Records
// left over after the last length are logged and dropped.
func prefixWalkAssign(lengths []*Length, records []*TrackRecord) []*Length {
	sortedLengths := append([]*Length(nil), lengths...)
	sort.Slice(sortedLengths, func(i, j int) bool {
		ti, _ := messageTimestamp(sortedLengths[i].Message)
		tj, _ := messageTimestamp(sortedLengths[j].Message)
		return ti < tj
	})
	sortedRecords := append([]*TrackRecord(nil), records...)
	sort.Slice(sortedRecords, func(i, j int) bool {
		ti, _ := messageTimestamp(sortedRecords[i].Message)
		tj, _ := messageTimestamp(sortedRecords[j].Message)
		return ti < tj
	})

	idx := 0
	for _, length := range sortedLengths {
		lengthTS, _ := messageTimestamp(length.Message)
		for idx < len(sortedRecords) {
			ts, ok := messageTimestamp(sortedRecords[idx].Message)
			if ok && ts > lengthTS {
				break
			}
			length.Records = append(length.Records, sortedRecords[idx])
			idx++
		}
	}
	if idx < len(sortedRecords) {
		log.Warnf("fitcore: dropping %d records unassigned after length pairing", len(sortedRecords)-idx)
	}
	return sortedLengths
}

func (b *ActivityBuilder) OnDeviceInfo(msg *Message) error {
	b.devices = append(b.devices, msg)
	return nil
}

func (b *ActivityBuilder) OnLocation(msg *Message) error { return nil }

func (b *ActivityBuilder) OnWorkout(msg *Message) error { return nil }

func (b *ActivityBuilder) OnWorkoutStep(msg *Message) error { return nil }

func (b *ActivityBuilder) OnSport(msg *Message) error {
	b.sport = msg
	return nil
}

func (b *ActivityBuilder) OnHRV(msg *Message) error { return nil }

func (b *ActivityBuilder) OnDeveloperDataID(msg *Message) error {
	b.developerDataIDs = append(b.developerDataIDs, msg)
	return nil
}

func (b *ActivityBuilder) OnFieldDescription(msg *Message) error {
	b.fieldDescriptions = append(b.fieldDescriptions, msg)
	return nil
}

func (b *ActivityBuilder) OnTrainingFile(msg *Message) error {
	b.trainingFile = msg
	return nil
}

// OnEvent tracks timer stop-all/start transitions. No state beyond the
// internal flag is observable, matching §4.6's "no externally observable
// state beyond internal flags".
func (b *ActivityBuilder) OnEvent(msg *Message) error {
	event, _ := msg.Get("event")
	eventType, _ := msg.Get("event_type")
	if event.Kind == KindInt && event.Int == eventTimer && eventType.Kind == KindInt {
		switch eventType.Int {
		case eventTypeStopAll:
			b.timerStopped = true
		case eventTypeStart:
			b.timerStopped = false
		}
	}
	return nil
}

func (b *ActivityBuilder) OnOther(msg *Message) error { return nil }

// CollectActivity runs the seven finalisation steps of §4.6 and returns the
// completed activity. Calling it a second time on the same builder is
// undefined.
func (b *ActivityBuilder) CollectActivity() (*Activity, error) {
	if len(b.sessions) == 1 {
		s := b.sessions[0]
		ts, tsOK := s.Get("timestamp")
		st, stOK := s.Get("start_time")
		if tsOK && stOK && !ts.IsNone() && !st.IsNone() && ts.Int == st.Int {
			if cur, ok := b.clock.Current(); ok {
				s.RemoveAll("timestamp")
				s.Prepend("timestamp", Value{Kind: KindInt, Int: int64(cur)})
			}
		}
	}

	if len(b.records) > 0 || len(b.lengths) > 0 {
		log.Warnf("fitcore: %d records and %d lengths without an enclosing lap; synthesising a terminal lap", len(b.records), len(b.lengths))
		cur, _ := b.clock.Current()
		summaryFields := b.summarizer.ComputeLap(b.records, b.lengths)

		lapMsg := NewMessage(profile.MesgLap)
		lapMsg.Append("timestamp", Value{Kind: KindInt, Int: int64(cur)})
		for _, f := range summaryFields {
			lapMsg.Prepend(f.Name, f.Value)
		}
		if err := b.OnLap(lapMsg); err != nil {
			return nil, err
		}
	}

	for i, j := 0, len(b.laps)-1; i < j; i, j = i+1, j-1 {
		b.laps[i], b.laps[j] = b.laps[j], b.laps[i]
	}

	remaining := assignLapsToSessions(b.sessions, b.laps)

	if len(remaining) > 0 {
		log.Warnf("fitcore: %d laps without an enclosing session; synthesising a trailing session", len(remaining))
		cur, _ := b.clock.Current()
		summaryFields := b.summarizer.ComputeSession(remaining)

		trailing := NewMessage(profile.MesgSession)
		trailing.Append("timestamp", Value{Kind: KindInt, Int: int64(cur)})
		trailing.Append("sport", Value{Kind: KindString, Str: "generic"})
		for _, f := range summaryFields {
			trailing.Prepend(f.Name, f.Value)
		}
		b.sessions = append(b.sessions, &Session{Message: trailing, Laps: remaining})
	}

	if len(b.devices) > 0 && len(b.sessions) > 0 {
		last := b.sessions[len(b.sessions)-1]
		last.Devices = append(append([]*Message(nil), b.devices...), last.Devices...)
		b.devices = nil
	}

	start := b.activityTimestamp
	if start.IsNone() {
		if cur, ok := b.clock.Current(); ok {
			start = Value{Kind: KindInt, Int: int64(cur)}
		}
	}

	return &Activity{
		StartTime:         start,
		GUID:              b.activityGUID,
		DeveloperDataIDs:  b.developerDataIDs,
		FieldDescriptions: b.fieldDescriptions,
		TrainingFile:      b.trainingFile,
		Sessions:          b.sessions,
	}, nil
}

// assignLapsToSessions implements collect_activity step 4: a prefix-walk
// ordered by session timestamp, each session taking laps at or before its
// own. It returns the laps left unassigned after the last session.
func assignLapsToSessions(sessions []*Session, laps []*Lap) []*Lap {
	sorted := append([]*Session(nil), sessions...)
	sort.Slice(sorted, func(i, j int) bool {
		ti, _ := messageTimestamp(sorted[i].Message)
		tj, _ := messageTimestamp(sorted[j].Message)
		return ti < tj
	})

	idx := 0
	for _, s := range sorted {
		sessionTS, _ := messageTimestamp(s.Message)
		for idx < len(laps) {
			ts, ok := messageTimestamp(laps[idx].Message)
			if ok && ts > sessionTS {
				break
			}
			s.Laps = append(s.Laps, laps[idx])
			idx++
		}
	}
	return laps[idx:]
}
