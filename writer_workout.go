package fitcore

import "github.com/mharder/fitcore/profile"

// WorkoutStep is one step of a workout message's step list, emitted as a
// workout-step message carrying an auto-incrementing message-index.
type WorkoutStep struct {
	Name               string
	DurationType       uint8
	DurationValue      uint32
	TargetType         uint8
	TargetValue        uint32
}

// WorkoutWriter is the workout-file specialisation of §4.7: a workout
// message describing the whole workout, followed by one workout-step
// message per step.
type WorkoutWriter struct {
	*Writer
	Name  string
	Sport uint8
	Steps []WorkoutStep
}

// NewWorkoutWriter emits the file-id/file-creator preamble for a workout
// file (file type 5) and returns a writer ready to accumulate steps.
func NewWorkoutWriter(name string, sport uint8) (*WorkoutWriter, error) {
	w := NewWriter()
	if err := w.writeFileIDAndCreator(fileTypeWorkout, 1, 65534, 0, 0, 0); err != nil {
		return nil, err
	}
	return &WorkoutWriter{Writer: w, Name: name, Sport: sport}, nil
}

// AddStep appends a step; its message-index is assigned by position at
// Finalise time.
func (ww *WorkoutWriter) AddStep(step WorkoutStep) {
	ww.Steps = append(ww.Steps, step)
}

// Finalise writes the workout message, one workout-step message per
// accumulated step, and the file trailer.
func (ww *WorkoutWriter) Finalise() ([]byte, error) {
	workoutFields := []WriterFieldDef{
		{Number: 4, Name: "wkt_name", Type: TypeString, Count: 16},
		{Number: 5, Name: "sport", Type: TypeEnum, Count: 1},
		{Number: 7, Name: "num_valid_steps", Type: TypeUint16, Count: 1},
	}
	if err := ww.putDefinition(profile.MesgWorkout, 1, workoutFields); err != nil {
		return nil, err
	}
	if err := ww.putMessage(profile.MesgWorkout, map[string]Value{
		"wkt_name":        {Kind: KindString, Str: ww.Name},
		"sport":           {Kind: KindInt, Int: int64(ww.Sport)},
		"num_valid_steps": {Kind: KindInt, Int: int64(len(ww.Steps))},
	}); err != nil {
		return nil, err
	}

	if len(ww.Steps) > 0 {
		stepFields := []WriterFieldDef{
			{Number: 254, Name: "message_index", Type: TypeUint16, Count: 1},
			{Number: 0, Name: "wkt_step_name", Type: TypeString, Count: 16},
			{Number: 1, Name: "duration_type", Type: TypeEnum, Count: 1},
			{Number: 2, Name: "duration_value", Type: TypeUint32, Count: 1},
			{Number: 3, Name: "target_type", Type: TypeEnum, Count: 1},
			{Number: 4, Name: "target_value", Type: TypeUint32, Count: 1},
		}
		if err := ww.putDefinition(profile.MesgWorkoutStep, 2, stepFields); err != nil {
			return nil, err
		}
		for i, step := range ww.Steps {
			if err := ww.putMessage(profile.MesgWorkoutStep, map[string]Value{
				"message_index":  {Kind: KindInt, Int: int64(i)},
				"wkt_step_name":  {Kind: KindString, Str: step.Name},
				"duration_type":  {Kind: KindInt, Int: int64(step.DurationType)},
				"duration_value": {Kind: KindInt, Int: int64(step.DurationValue)},
				"target_type":    {Kind: KindInt, Int: int64(step.TargetType)},
				"target_value":   {Kind: KindInt, Int: int64(step.TargetValue)},
			}); err != nil {
				return nil, err
			}
		}
	}

	return ww.Writer.Finalise()
}
