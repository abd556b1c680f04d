package systems

import "github.com/pthm-cable/fermi/components"

// SignalParams holds the signal geometry shared by every civilization.
type SignalParams struct {
	Thickness int // t_signal
	Lifetime  int // t_stop
}

// SignalEvent reports what happened to a signal during one update.
type SignalEvent uint8

const (
	SignalNone SignalEvent = iota
	SignalActivated
	SignalDeactivated
)

// AdvanceAge recomputes the age of a civilization for the given step.
func AdvanceAge(life *components.Lifespan, step int) {
	life.T = life.T0 + step - life.TStart
}

// AdvanceSignal runs the signal state machine for one step:
// activation once age exceeds TIntel, growth by one per active step, and
// deactivation once the radius passes the lifetime. A signal is emitted at
// most once; capable civilizations only.
func AdvanceSignal(life *components.Lifespan, sig *components.Signal, p SignalParams) SignalEvent {
	event := SignalNone

	if !sig.Active && sig.Emitted == 0 && life.Capable() && life.T > life.TIntel {
		sig.Active = true
		sig.Radius = 0
		sig.Emitted++
		event = SignalActivated
	}

	if sig.Active {
		sig.Radius++
		if sig.Radius > p.Lifetime {
			sig.Active = false
			event = SignalDeactivated
		}
	}

	return event
}

// NewlyEmitting reports whether the signal became active during the current
// step. This is the moment a signal is counted as emitted.
func NewlyEmitting(life *components.Lifespan, sig *components.Signal) bool {
	return sig.Active && sig.Radius == 1 && life.Capable()
}
