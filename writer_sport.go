package fitcore

import (
	"math"

	"github.com/mharder/fitcore/profile"
)

// HeartRateZone, PowerZone and SpeedZone are the per-zone rows of a sport
// file's zone tables, each emitted as its own message-index-carrying
// message.
type HeartRateZone struct {
	HighBPM uint8
}

type PowerZone struct {
	HighValue uint16
	Name      string
}

// SpeedZone's threshold is expressed in m/s and scaled to mm/s on write, per
// §4.7.
type SpeedZone struct {
	HighMPS float64
	Name    string
}

// SportWriter is the sport-file specialisation of §4.7: a zones-target
// message, a sport message, and the zone tables a device has configured.
type SportWriter struct {
	*Writer
	Sport, SubSport                   uint8
	MaxHeartRate, ThresholdHeartRate  uint8
	FunctionalThresholdPower          uint16
	HRZones                           []HeartRateZone
	PowerZones                        []PowerZone
	SpeedZones                        []SpeedZone
}

// NewSportWriter emits the file-id/file-creator preamble for a sport file
// (file type 3).
func NewSportWriter(sport, subSport uint8) (*SportWriter, error) {
	w := NewWriter()
	if err := w.writeFileIDAndCreator(fileTypeSport, 1, 65534, 0, 0, 0); err != nil {
		return nil, err
	}
	return &SportWriter{Writer: w, Sport: sport, SubSport: subSport}, nil
}

// Finalise writes the zones-target message, the sport message, and any
// configured zone tables, then the file trailer.
func (sw *SportWriter) Finalise() ([]byte, error) {
	zonesTargetFields := []WriterFieldDef{
		{Number: 1, Name: "max_heart_rate", Type: TypeUint8, Count: 1},
		{Number: 2, Name: "threshold_heart_rate", Type: TypeUint8, Count: 1},
		{Number: 3, Name: "functional_threshold_power", Type: TypeUint16, Count: 1},
	}
	if err := sw.putDefinition(profile.MesgZonesTarget, 1, zonesTargetFields); err != nil {
		return nil, err
	}
	if err := sw.putMessage(profile.MesgZonesTarget, map[string]Value{
		"max_heart_rate":             {Kind: KindInt, Int: int64(sw.MaxHeartRate)},
		"threshold_heart_rate":       {Kind: KindInt, Int: int64(sw.ThresholdHeartRate)},
		"functional_threshold_power": {Kind: KindInt, Int: int64(sw.FunctionalThresholdPower)},
	}); err != nil {
		return nil, err
	}

	sportFields := []WriterFieldDef{
		{Number: 0, Name: "sport", Type: TypeEnum, Count: 1},
		{Number: 1, Name: "sub_sport", Type: TypeEnum, Count: 1},
	}
	if err := sw.putDefinition(profile.MesgSport, 2, sportFields); err != nil {
		return nil, err
	}
	if err := sw.putMessage(profile.MesgSport, map[string]Value{
		"sport":     {Kind: KindInt, Int: int64(sw.Sport)},
		"sub_sport": {Kind: KindInt, Int: int64(sw.SubSport)},
	}); err != nil {
		return nil, err
	}

	if len(sw.HRZones) > 0 {
		hrZoneFields := []WriterFieldDef{
			{Number: 254, Name: "message_index", Type: TypeUint16, Count: 1},
			{Number: 2, Name: "high_bpm", Type: TypeUint8, Count: 1},
		}
		if err := sw.putDefinition(profile.MesgHRZone, 3, hrZoneFields); err != nil {
			return nil, err
		}
		for i, z := range sw.HRZones {
			if err := sw.putMessage(profile.MesgHRZone, map[string]Value{
				"message_index": {Kind: KindInt, Int: int64(i)},
				"high_bpm":      {Kind: KindInt, Int: int64(z.HighBPM)},
			}); err != nil {
				return nil, err
			}
		}
	}

	if len(sw.PowerZones) > 0 {
		powerZoneFields := []WriterFieldDef{
			{Number: 254, Name: "message_index", Type: TypeUint16, Count: 1},
			{Number: 2, Name: "high_value", Type: TypeUint16, Count: 1},
			{Number: 3, Name: "name", Type: TypeString, Count: 16},
		}
		if err := sw.putDefinition(profile.MesgPowerZone, 4, powerZoneFields); err != nil {
			return nil, err
		}
		for i, z := range sw.PowerZones {
			if err := sw.putMessage(profile.MesgPowerZone, map[string]Value{
				"message_index": {Kind: KindInt, Int: int64(i)},
				"high_value":    {Kind: KindInt, Int: int64(z.HighValue)},
				"name":          {Kind: KindString, Str: z.Name},
			}); err != nil {
				return nil, err
			}
		}
	}

	if len(sw.SpeedZones) > 0 {
		speedZoneFields := []WriterFieldDef{
			{Number: 254, Name: "message_index", Type: TypeUint16, Count: 1},
			{Number: 0, Name: "high_value", Type: TypeUint16, Count: 1},
			{Number: 1, Name: "name", Type: TypeString, Count: 16},
		}
		if err := sw.putDefinition(profile.MesgSpeedZone, 5, speedZoneFields); err != nil {
			return nil, err
		}
		for i, z := range sw.SpeedZones {
			mmPerSec := int64(math.Round(z.HighMPS * 1000))
			if err := sw.putMessage(profile.MesgSpeedZone, map[string]Value{
				"message_index": {Kind: KindInt, Int: int64(i)},
				"high_value":    {Kind: KindInt, Int: mmPerSec},
				"name":          {Kind: KindString, Str: z.Name},
			}); err != nil {
				return nil, err
			}
		}
	}

	return sw.Writer.Finalise()
}
