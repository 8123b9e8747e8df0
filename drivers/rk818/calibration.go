package rk818

import "chargeguard-go/x/mathx"

// CalibrationPoint holds the factory-programmed ADC codes for the 3000 mV
// (Low, vcalib0) and 4200 mV (High, vcalib1) references.
type CalibrationPoint struct {
	Low  uint16
	High uint16
}

// CalibrationPoint reads both reference codes. They do not change while
// powered, so callers read them once.
func (d *Device) CalibrationPoint() (CalibrationPoint, error) {
	lo, err := d.readPair(regVCalib0L, regVCalib0H)
	if err != nil {
		return CalibrationPoint{}, err
	}
	hi, err := d.readPair(regVCalib1L, regVCalib1H)
	if err != nil {
		return CalibrationPoint{}, err
	}
	return CalibrationPoint{Low: lo, High: hi}, nil
}

// CurrentOffset records how the committed current-sense zero offset was
// derived. Factory is the value actually used (after default substitution).
type CurrentOffset struct {
	Factory   uint8
	IO        uint16
	Committed uint16
}

// CommitOffset returns factory+io, or DefaultCurrentOffset when the sum
// falls outside [CurrentOffsetMin, CurrentOffsetMax].
func CommitOffset(factory uint8, io uint16) uint16 {
	sum := int32(factory) + int32(io)
	return uint16(mathx.OrDefault(sum, CurrentOffsetMin, CurrentOffsetMax, DefaultCurrentOffset))
}

// Calibrate derives the current-sense offset from the chip's I/O offset and
// the factory offset, and writes it to CAL_OFFSET. The analog front end needs
// about 300 ms afterwards before current readings settle; Calibrate does not
// wait.
func (d *Device) Calibrate() (CurrentOffset, error) {
	var off CurrentOffset

	io, err := d.readPair(regIOffsetL, regIOffsetH)
	if err != nil {
		return off, err
	}
	p, err := d.readReg(regPOffset)
	if err != nil {
		return off, err
	}

	off.IO = io
	off.Factory = mathx.NonZero(p, DefaultFactoryOffset)
	off.Committed = CommitOffset(off.Factory, off.IO)

	return off, d.writePair(regCalOffsetH, regCalOffsetL, off.Committed)
}

// CommittedOffset reads back CAL_OFFSET.
func (d *Device) CommittedOffset() (uint16, error) {
	return d.readPair(regCalOffsetL, regCalOffsetH)
}
