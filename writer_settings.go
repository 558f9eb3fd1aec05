package fitcore

import (
	"math"
	"time"

	"github.com/mharder/fitcore/profile"
)

// SettingsWriter is the settings-file specialisation of §4.7: a
// user-profile message derived from date-of-birth/height/weight inputs, and an
// hrm-profile message carrying the log-hrv flag.
type SettingsWriter struct {
	*Writer
	Gender        uint8
	DateOfBirth   time.Time
	HeightMeters  float64
	WeightKG      float64
	ActivityClass float64
	LogHRV        bool

	// now pins the "current time" used to derive age from DateOfBirth, kept
	// as an explicit field rather than time.Now() so Finalise stays
	// deterministic.
	now time.Time
}

// NewSettingsWriter emits the file-id/file-creator preamble for a settings
// file (file type 2). now is the reference time used to derive age from
// DateOfBirth.
func NewSettingsWriter(now time.Time) (*SettingsWriter, error) {
	w := NewWriter()
	if err := w.writeFileIDAndCreator(fileTypeSettings, 1, 65534, 0, 0, 0); err != nil {
		return nil, err
	}
	return &SettingsWriter{Writer: w, now: now}, nil
}

// Finalise derives age (from DateOfBirth and now) and birth-year, scales
// height/weight/activity-class per the user-profile message's conversions,
// writes the user-profile and hrm-profile messages, and the file trailer.
func (sw *SettingsWriter) Finalise() ([]byte, error) {
	var age, birthYear int64
	if !sw.DateOfBirth.IsZero() {
		age = int64(sw.now.Sub(sw.DateOfBirth).Hours() / 24 / 365)
		birthYear = int64(sw.DateOfBirth.Year() - 1900)
	}

	profileFields := []WriterFieldDef{
		{Number: 1, Name: "gender", Type: TypeEnum, Count: 1},
		{Number: 2, Name: "age", Type: TypeUint8, Count: 1},
		{Number: 3, Name: "height", Type: TypeUint8, Count: 1},
		{Number: 4, Name: "weight", Type: TypeUint16, Count: 1},
		{Number: 13, Name: "activity_class", Type: TypeEnum, Count: 1},
		{Number: 30, Name: "birth_year", Type: TypeUint8, Count: 1},
	}
	if err := sw.putDefinition(profile.MesgUserProfile, 1, profileFields); err != nil {
		return nil, err
	}
	if err := sw.putMessage(profile.MesgUserProfile, map[string]Value{
		"gender":         {Kind: KindInt, Int: int64(sw.Gender)},
		"age":            {Kind: KindInt, Int: age},
		"height":         {Kind: KindInt, Int: int64(math.Round(sw.HeightMeters * 100))},
		"weight":         {Kind: KindInt, Int: int64(math.Round(sw.WeightKG * 10))},
		"activity_class": {Kind: KindInt, Int: int64(math.Round(sw.ActivityClass * 10))},
		"birth_year":     {Kind: KindInt, Int: birthYear},
	}); err != nil {
		return nil, err
	}

	hrmFields := []WriterFieldDef{
		{Number: 2, Name: "log_hrv", Type: TypeEnum, Count: 1},
	}
	if err := sw.putDefinition(profile.MesgHRMProfile, 2, hrmFields); err != nil {
		return nil, err
	}
	logHRV := int64(0)
	if sw.LogHRV {
		logHRV = 1
	}
	if err := sw.putMessage(profile.MesgHRMProfile, map[string]Value{
		"log_hrv": {Kind: KindInt, Int: logHRV},
	}); err != nil {
		return nil, err
	}

	return sw.Writer.Finalise()
}
