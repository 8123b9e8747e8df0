package chargeguard

// LED is an indicator output. Get reports the driven level.
type LED interface {
	Set(on bool)
	Get() bool
}

// indicator makes a missing LED a no-op.
type indicator struct{ l LED }

func (i indicator) present() bool { return i.l != nil }

func (i indicator) on() {
	if i.l != nil {
		i.l.Set(true)
	}
}

func (i indicator) off() {
	if i.l != nil {
		i.l.Set(false)
	}
}

func (i indicator) toggle() {
	if i.l != nil {
		i.l.Set(!i.l.Get())
	}
}

func (i indicator) isOn() bool { return i.l != nil && i.l.Get() }

// blink runs p on led with plain sleeps; nothing happens for a missing LED.
func (s *Supervisor) blink(led indicator, p Pattern) {
	if !led.present() {
		return
	}
	half := p.Period / 2
	for n := 0; n < p.Times; n++ {
		led.on()
		s.sleep.Sleep(half)
		led.off()
		s.sleep.Sleep(half)
	}
}

func (s *Supervisor) bothLEDs() bool { return s.red.present() && s.green.present() }
