package rk818

import "chargeguard-go/errcode"

// Sample is one poll tick's worth of telemetry and status. Valid is false
// when any register read failed; Err then holds the first failure and the
// remaining fields must not be acted on.
type Sample struct {
	Voltage_mV int32
	Current_mA int32
	OCV_mV     int32
	PluggedIn  bool
	Status
	RawStatus byte

	Valid bool
	Err   error
}

// Sample reads voltage, current, plug-in and status in that order. The
// plug-in bit and the status byte come from different registers and may be
// momentarily out of step.
func (d *Device) Sample(cal CalibrationPoint) Sample {
	var s Sample
	d.SampleInto(cal, &s)
	return s
}

func (d *Device) SampleInto(cal CalibrationPoint, out *Sample) {
	var s Sample
	fail := func(err error) {
		s.Err = &errcode.E{C: errcode.InvalidSample, Op: "sample", Err: err}
		*out = s
	}

	v, err := d.BatteryVoltage_mV(cal)
	if err != nil {
		fail(err)
		return
	}
	c, err := d.BatteryCurrent_mA()
	if err != nil {
		fail(err)
		return
	}
	plug, err := d.PluggedIn()
	if err != nil {
		fail(err)
		return
	}
	st, raw, err := d.Status()
	if err != nil {
		fail(err)
		return
	}

	s.Voltage_mV = v
	s.Current_mA = c
	s.OCV_mV = EstimateOCV(v, c)
	s.PluggedIn = plug
	s.Status = st
	s.RawStatus = raw
	s.Valid = true
	*out = s
}
