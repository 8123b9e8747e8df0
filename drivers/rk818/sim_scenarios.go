package rk818

import "chargeguard-go/errcode"

// ScenarioNames lists the canned simulator setups, in display order.
func ScenarioNames() []string {
	return []string{"healthy", "low-charging", "low-unplugged", "fault", "dead"}
}

// Scenario returns a Sim preloaded with a named battery/charger situation.
// Charging scenarios evolve once per poll tick.
func Scenario(name string) (*Sim, error) {
	s := NewSim()
	switch name {
	case "healthy":
		s.SetVoltage_mV(3900)
		s.SetChipOCV_mV(3930)
		s.SetCurrent_mA(-150)
		s.SetStatus(ChargeOff, false, false, true)
	case "low-charging":
		s.SetVoltage_mV(3300)
		s.SetCurrent_mA(800)
		s.SetPluggedIn(true)
		s.SetStatus(FastCharge, true, true, true)
		s.OnStatusRead(func(s *Sim) { s.SetVoltage_mV(s.Voltage_mV() + 15) })
	case "low-unplugged":
		s.SetVoltage_mV(3300)
		s.SetCurrent_mA(-200)
		s.SetStatus(ChargeOff, false, false, true)
	case "fault":
		s.SetVoltage_mV(3300)
		s.SetCurrent_mA(0)
		s.SetPluggedIn(true)
		s.SetStatus(BatteryTempError, true, true, true)
	case "dead":
		s.SetVoltage_mV(3000)
		s.SetCurrent_mA(90)
		s.SetPluggedIn(true)
		s.SetStatus(DeadCharge, true, true, true)
		s.OnStatusRead(func(s *Sim) {
			n := s.StatusReads()
			switch {
			case n >= 10:
				s.SetCurrent_mA(1200)
				s.SetStatus(FastCharge, true, true, true)
				s.SetVoltage_mV(s.Voltage_mV() + 30)
			case n >= 5:
				s.SetCurrent_mA(300)
				s.SetStatus(TrickleCharge, true, true, true)
			}
		})
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "scenario", Msg: name}
	}
	return s, nil
}
