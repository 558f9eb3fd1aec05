package fitcore

import "github.com/mharder/fitcore/profile"

// Handler is the per-message-kind hook set the dispatcher routes decoded
// records to — the trait/interface re-architecture the design notes call
// for in place of a class hierarchy of overridable "on-*" methods. One
// concrete implementation, ActivityBuilder, accumulates the activity
// hierarchy; a test double or alternative consumer could implement it
// differently (e.g. to stream records straight to a file without building
// the hierarchy at all).
type Handler interface {
	OnFileID(msg *Message) error
	OnFileCreator(msg *Message) error
	OnActivity(msg *Message) error
	OnSession(msg *Message) error
	OnRecord(msg *Message) error
	OnLength(msg *Message) error
	OnLap(msg *Message) error
	OnDeviceInfo(msg *Message) error
	OnLocation(msg *Message) error
	OnWorkout(msg *Message) error
	OnWorkoutStep(msg *Message) error
	OnSport(msg *Message) error
	OnHRV(msg *Message) error
	OnDeveloperDataID(msg *Message) error
	OnFieldDescription(msg *Message) error
	OnTrainingFile(msg *Message) error
	OnEvent(msg *Message) error
	OnOther(msg *Message) error
}

// Dispatcher is the base event-dispatcher component (§4.5): it runs the
// clock pre-step and field elision on every decoded message, then routes it
// to the matching Handler method by message kind. It implements Consumer so
// a RecordDecoder can feed it directly.
type Dispatcher struct {
	Handler Handler
	Clock   *Clock
}

// NewDispatcher constructs a dispatcher with a fresh clock, routing to h.
func NewDispatcher(h Handler) *Dispatcher {
	return &Dispatcher{Handler: h, Clock: &Clock{}}
}

// Consume implements Consumer: apply the clock pre-step, elide "no value"
// fields, then route by message kind.
func (d *Dispatcher) Consume(msg *Message) error {
	d.Clock.UpdateTimestamp(msg)
	msg.ElideNone()

	switch msg.Kind {
	case profile.KindFileID:
		return d.Handler.OnFileID(msg)
	case profile.KindFileCreator:
		return d.Handler.OnFileCreator(msg)
	case profile.KindActivity:
		return d.Handler.OnActivity(msg)
	case profile.KindSession:
		return d.Handler.OnSession(msg)
	case profile.KindRecord:
		return d.Handler.OnRecord(msg)
	case profile.KindLength:
		return d.Handler.OnLength(msg)
	case profile.KindLap:
		return d.Handler.OnLap(msg)
	case profile.KindDeviceInfo:
		return d.Handler.OnDeviceInfo(msg)
	case profile.KindLocation:
		return d.Handler.OnLocation(msg)
	case profile.KindWorkout:
		return d.Handler.OnWorkout(msg)
	case profile.KindWorkoutStep:
		return d.Handler.OnWorkoutStep(msg)
	case profile.KindSport:
		return d.Handler.OnSport(msg)
	case profile.KindHRV:
		return d.Handler.OnHRV(msg)
	case profile.KindDeveloperDataID:
		return d.Handler.OnDeveloperDataID(msg)
	case profile.KindFieldDescription:
		return d.Handler.OnFieldDescription(msg)
	case profile.KindTrainingFile:
		return d.Handler.OnTrainingFile(msg)
	case profile.KindEvent:
		return d.Handler.OnEvent(msg)
	default:
		return d.Handler.OnOther(msg)
	}
}
