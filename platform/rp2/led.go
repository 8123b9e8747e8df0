package rp2

// Pin is the part of machine.Pin an indicator needs.
type Pin interface {
	Set(high bool)
	Get() bool
}

// PinLED drives an indicator on a GPIO, honouring active-low wiring.
type PinLED struct {
	Pin       Pin
	ActiveLow bool
}

func (l *PinLED) Set(on bool) { l.Pin.Set(on != l.ActiveLow) }
func (l *PinLED) Get() bool   { return l.Pin.Get() != l.ActiveLow }
