package linux

import "periph.io/x/conn/v3/gpio"

// levelPin is satisfied by periph's sysfs LED and by gpio.PinIO.
type levelPin interface {
	Out(l gpio.Level) error
	Read() gpio.Level
}

// LED adapts a periph level pin to the supervisor's on/off indicator.
// Write errors are remembered, not returned; an indicator is best effort.
type LED struct {
	p   levelPin
	err error
}

func NewLED(p levelPin) *LED { return &LED{p: p} }

func (l *LED) Set(on bool) {
	if err := l.p.Out(gpio.Level(on)); err != nil && l.err == nil {
		l.err = err
	}
}

func (l *LED) Get() bool { return bool(l.p.Read()) }

// Err returns the first write failure.
func (l *LED) Err() error { return l.err }
