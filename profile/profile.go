// Package profile is the concrete, built-in implementation of the spec's
// "static_tables" external collaborator — read-only maps from numeric
// message/field identifiers to symbolic names and unit-conversion
// functions. The specification treats these tables as opaque configuration
// data owned by a domain-specific layer outside the core; this package gives
// the core something real to consume so it is exercisable standalone,
// grounded on the teacher's llmexport/semantics.go (same shape: a map keyed
// by global message number, then by field number, to a name and an optional
// conversion function).
package profile

import "fmt"

// Global message numbers named explicitly by the specification (§4.7, the
// glossary, and the developer-field messages of §4.4/§4.8).
const (
	MesgFileID           uint16 = 0
	MesgUserProfile      uint16 = 3
	MesgHRMProfile       uint16 = 4
	MesgZonesTarget      uint16 = 7
	MesgHRZone           uint16 = 8
	MesgPowerZone        uint16 = 9
	MesgSport            uint16 = 12
	MesgSession          uint16 = 18
	MesgLap              uint16 = 19
	MesgRecord           uint16 = 20
	MesgEvent            uint16 = 21
	MesgDeviceInfo       uint16 = 23
	MesgWorkout          uint16 = 26
	MesgWorkoutStep      uint16 = 27
	MesgLocation         uint16 = 29
	MesgActivity         uint16 = 34
	MesgFileCreator       uint16 = 49
	MesgSpeedZone        uint16 = 53
	MesgTrainingFile     uint16 = 72
	MesgHRV              uint16 = 78
	MesgLength           uint16 = 101
	MesgFieldDescription uint16 = 206
	MesgDeveloperDataID  uint16 = 207
)

// Kind is the symbolic message-kind label the event dispatcher routes on.
// "other" covers every global message number without a dedicated handler.
type Kind string

const (
	KindFileID           Kind = "file-id"
	KindFileCreator      Kind = "file-creator"
	KindActivity         Kind = "activity"
	KindSession          Kind = "session"
	KindRecord           Kind = "record"
	KindLength           Kind = "length"
	KindLap              Kind = "lap"
	KindDeviceInfo       Kind = "device-info"
	KindLocation         Kind = "location"
	KindWorkout          Kind = "workout"
	KindWorkoutStep      Kind = "workout-step"
	KindSport            Kind = "sport"
	KindHRV              Kind = "hrv"
	KindDeveloperDataID  Kind = "developer-data-id"
	KindFieldDescription Kind = "field-description"
	KindTrainingFile     Kind = "training-file"
	KindEvent            Kind = "event"
	KindOther            Kind = "other"
)

var messageKindByNumber = map[uint16]Kind{
	MesgFileID:           KindFileID,
	MesgFileCreator:      KindFileCreator,
	MesgActivity:         KindActivity,
	MesgSession:          KindSession,
	MesgLap:              KindLap,
	MesgRecord:           KindRecord,
	MesgLength:           KindLength,
	MesgDeviceInfo:       KindDeviceInfo,
	MesgLocation:         KindLocation,
	MesgWorkout:          KindWorkout,
	MesgWorkoutStep:      KindWorkoutStep,
	MesgSport:            KindSport,
	MesgHRV:              KindHRV,
	MesgDeveloperDataID:  KindDeveloperDataID,
	MesgFieldDescription: KindFieldDescription,
	MesgTrainingFile:     KindTrainingFile,
	MesgEvent:            KindEvent,
}

// KindForGlobal resolves a global message number to its dispatch kind,
// defaulting to "other" for anything this table doesn't name.
func KindForGlobal(global uint16) Kind {
	if k, ok := messageKindByNumber[global]; ok {
		return k
	}
	return KindOther
}

// globalMessageNames gives a human label for known global message numbers,
// mirroring the teacher's globalMessageName — used only for logging/JSON
// rendering, never for dispatch decisions.
var globalMessageNames = map[uint16]string{
	MesgFileID: "file_id", MesgUserProfile: "user_profile", MesgHRMProfile: "hrm_profile",
	MesgZonesTarget: "zones_target", MesgHRZone: "hr_zone", MesgPowerZone: "power_zone",
	MesgSport: "sport", MesgSession: "session", MesgLap: "lap", MesgRecord: "record",
	MesgEvent: "event", MesgDeviceInfo: "device_info", MesgWorkout: "workout",
	MesgWorkoutStep: "workout_step", MesgLocation: "location", MesgActivity: "activity",
	MesgFileCreator: "file_creator", MesgSpeedZone: "speed_zone", MesgTrainingFile: "training_file",
	MesgHRV: "hrv", MesgLength: "length", MesgFieldDescription: "field_description",
	MesgDeveloperDataID: "developer_data_id",
}

// GlobalMessageName returns a symbolic name for a global message number, or
// a synthetic "global_N" label when the number is unknown to this table.
func GlobalMessageName(global uint16) string {
	if name, ok := globalMessageNames[global]; ok {
		return name
	}
	return fmt.Sprintf("global_%d", global)
}

// FieldName resolves (global message, field number) to a symbolic field
// name, falling back to a synthetic "field_N" label for numbers this table
// does not carry — matching §4.4's "naming each field symbolically when
// present" (an unknown field number is retained numerically).
func FieldName(global uint16, field uint8) string {
	if m, ok := fieldNamesByMessage[global]; ok {
		if name, ok := m[field]; ok {
			return name
		}
	}
	return fmt.Sprintf("field_%d", field)
}

var fieldNamesByMessage = map[uint16]map[uint8]string{
	MesgFileID: {
		0: "type", 1: "manufacturer", 2: "product", 3: "serial_number",
		4: "time_created", 5: "number", 8: "product_name",
	},
	MesgFileCreator: {0: "software_version", 1: "hardware_version"},
	MesgActivity: {
		253: "timestamp", 0: "total_timer_time", 1: "num_sessions", 2: "type",
		3: "event", 4: "event_type", 5: "local_timestamp", 6: "event_group",
	},
	MesgSession: {
		253: "timestamp", 2: "start_time", 5: "sport", 6: "sub_sport",
		7: "total_elapsed_time", 8: "total_timer_time", 9: "total_distance",
		14: "avg_speed", 15: "max_speed", 16: "avg_heart_rate", 17: "max_heart_rate",
		18: "avg_cadence", 19: "max_cadence", 20: "avg_power", 21: "max_power",
		24: "total_calories", 44: "pool_length", 46: "pool_length_unit",
		48: "normalized_power", 57: "threshold_power",
		58: "avg_left_power_phase", 59: "avg_left_power_phase_peak",
		60: "avg_right_power_phase", 61: "avg_right_power_phase_peak",
	},
	MesgLap: {
		253: "timestamp", 2: "start_time", 7: "total_elapsed_time", 8: "total_timer_time",
		9: "total_distance", 13: "avg_speed", 14: "max_speed", 15: "avg_heart_rate",
		16: "max_heart_rate", 17: "avg_cadence", 18: "max_cadence", 19: "avg_power",
		20: "max_power", 42: "total_work",
		23: "avg_left_power_phase", 24: "avg_left_power_phase_peak",
		25: "avg_right_power_phase", 26: "avg_right_power_phase_peak",
	},
	MesgLength: {
		253: "timestamp", 2: "start_time", 0: "event", 1: "event_type",
		3: "total_elapsed_time", 4: "total_timer_time", 7: "total_strokes",
		12: "length_type", 16: "avg_swimming_cadence",
	},
	MesgRecord: {
		253: "timestamp", 0: "position_lat", 1: "position_long", 2: "altitude",
		3: "heart_rate", 4: "cadence", 5: "distance", 6: "speed", 7: "power",
		8: "fractional_cadence", 9: "grade", 13: "temperature",
		20: "left_power_phase", 21: "left_power_phase_peak",
		22: "right_power_phase", 23: "right_power_phase_peak",
		24: "left_right_balance", 25: "stance_time_balance",
	},
	MesgEvent: {
		253: "timestamp", 0: "event", 1: "event_type", 2: "data16", 3: "data", 4: "event_group",
	},
	MesgDeviceInfo: {
		253: "timestamp", 0: "device_index", 1: "device_type", 2: "manufacturer",
		3: "serial_number", 4: "product", 5: "software_version", 6: "hardware_version",
	},
	MesgWorkout: {
		4: "wkt_name", 5: "sport", 6: "sub_sport", 7: "num_valid_steps", 8: "capabilities",
	},
	MesgWorkoutStep: {
		254: "message_index", 0: "wkt_step_name", 1: "duration_type", 2: "duration_value",
		3: "target_type", 4: "target_value", 5: "custom_target_value_low",
		6: "custom_target_value_high", 7: "intensity", 8: "notes",
	},
	MesgSport: {0: "sport", 1: "sub_sport", 3: "name"},
	MesgZonesTarget: {
		1: "max_heart_rate", 2: "threshold_heart_rate", 3: "functional_threshold_power",
		5: "hr_calc_type", 7: "pwr_calc_type",
	},
	MesgHRZone:    {254: "message_index", 2: "high_bpm"},
	MesgPowerZone: {254: "message_index", 2: "high_value", 3: "name"},
	MesgSpeedZone: {254: "message_index", 0: "high_value", 1: "name"},
	MesgUserProfile: {
		1: "gender", 2: "age", 3: "height", 4: "weight", 5: "language",
		13: "activity_class", 24: "height_setting", 30: "birth_year",
	},
	MesgHRMProfile: {0: "enabled", 1: "hrm_ant_id", 2: "log_hrv"},
	MesgFieldDescription: {
		0: "developer_data_index", 1: "field_definition_number", 2: "fit_base_type_id",
		3: "field_name", 6: "native_mesg_num", 7: "native_field_num", 8: "units",
	},
	MesgDeveloperDataID: {
		0: "developer_id", 1: "application_id", 2: "manufacturer_id",
		3: "developer_data_index", 4: "application_version",
	},
	MesgTrainingFile: {
		253: "timestamp", 0: "type", 1: "manufacturer", 2: "product",
		3: "serial_number", 4: "time_created",
	},
	MesgHRV: {0: "time"},
	MesgLocation: {
		253: "timestamp", 0: "name", 1: "position_lat", 2: "position_long", 3: "altitude",
	},
}

// Conversion is a scale/offset/custom conversion descriptor applied during
// decoding to a single scalar value, per the design notes' "conversion
// closures stored in static tables" pattern. Vector values are converted
// element-wise by the record decoder, one call to Apply per element.
type Conversion struct {
	Scale  float64
	Offset float64
	Custom func(raw float64) float64
}

// Apply converts a raw decoded numeric value (already widened to float64 by
// the caller) using this descriptor's scale/offset, or its custom function
// when present.
func (c Conversion) Apply(raw float64) float64 {
	if c.Custom != nil {
		return c.Custom(raw)
	}
	if c.Scale == 0 {
		return raw - c.Offset
	}
	return raw/c.Scale - c.Offset
}

// ConversionFor resolves the conversion descriptor for (global message,
// field name), or false when the field carries no scale/offset (its decoded
// value is used as-is).
func ConversionFor(global uint16, fieldName string) (Conversion, bool) {
	if m, ok := conversionsByMessage[global]; ok {
		if c, ok := m[fieldName]; ok {
			return c, true
		}
	}
	return Conversion{}, false
}

var conversionsByMessage = map[uint16]map[string]Conversion{
	MesgSession: {
		"total_elapsed_time": {Scale: 1000}, "total_timer_time": {Scale: 1000},
		"total_distance": {Scale: 100}, "avg_speed": {Scale: 1000}, "max_speed": {Scale: 1000},
	},
	MesgLap: {
		"total_elapsed_time": {Scale: 1000}, "total_timer_time": {Scale: 1000},
		"total_distance": {Scale: 100}, "avg_speed": {Scale: 1000}, "max_speed": {Scale: 1000},
	},
	MesgLength: {
		"total_elapsed_time": {Scale: 1000}, "total_timer_time": {Scale: 1000},
	},
	MesgRecord: {
		"altitude": {Scale: 5, Offset: 500}, "distance": {Scale: 100},
		"speed": {Scale: 1000}, "grade": {Scale: 100},
	},
	MesgUserProfile: {
		"height": {Scale: 100}, "weight": {Scale: 10}, "activity_class": {Scale: 10},
	},
}
