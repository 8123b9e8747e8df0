package rk818

// Integer-only conversions. Division truncates toward zero and the order of
// operations is fixed; changing either shifts readings by a few mV/mA.

// VoltageFromRaw maps a raw battery-voltage code onto mV using the two-point
// calibration line through (Low, 3000 mV) and (High, 4200 mV).
func VoltageFromRaw(val uint16, cal CalibrationPoint) int32 {
	diff := int64(cal.High) - int64(cal.Low)
	if diff == 0 {
		diff = 1
	}
	k := (calibHigh_mV - calibLow_mV) * 1000 / diff
	b := calibHigh_mV - k*int64(cal.High)/1000
	return int32(k*int64(val)/1000 + b)
}

// CurrentFromRaw converts the 12-bit two's-complement average battery
// current into mA. Positive means charging.
func CurrentFromRaw(val uint16) int32 {
	v := int32(val & 0x0fff)
	if v&0x800 != 0 {
		v -= 4096
	}
	return v * 2 * 1506 / 1000
}

// InternalResistance_mOhm is the fixed pack resistance used for the OCV
// estimate. It is only representative at low state of charge.
const InternalResistance_mOhm = 250

// EstimateOCV corrects the terminal voltage for the load current.
func EstimateOCV(mV, mA int32) int32 {
	return mV - mA*InternalResistance_mOhm/1000
}

// BatteryVoltage_mV reads BAT_VOL and applies cal.
func (d *Device) BatteryVoltage_mV(cal CalibrationPoint) (int32, error) {
	raw, err := d.readPair(regBatVolL, regBatVolH)
	if err != nil {
		return 0, err
	}
	return VoltageFromRaw(raw, cal), nil
}

// BatteryCurrent_mA reads BAT_CUR_AVG.
func (d *Device) BatteryCurrent_mA() (int32, error) {
	raw, err := d.readPair(regBatCurAvgL, regBatCurAvgH)
	if err != nil {
		return 0, err
	}
	return CurrentFromRaw(raw), nil
}

// ChipOCV_mV reads the chip's own relaxation OCV register through cal.
// Diagnostic only; the supervisor uses EstimateOCV.
func (d *Device) ChipOCV_mV(cal CalibrationPoint) (int32, error) {
	raw, err := d.readPair(regBatOCVL, regBatOCVH)
	if err != nil {
		return 0, err
	}
	return VoltageFromRaw(raw, cal), nil
}

// PluggedIn reports the VB_MON plug-in bit.
func (d *Device) PluggedIn() (bool, error) {
	v, err := d.readReg(regVBMon)
	if err != nil {
		return false, err
	}
	return v&vbPlugIn != 0, nil
}
