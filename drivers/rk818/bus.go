package rk818

import "chargeguard-go/errcode"

// I2C 8-bit register operations. Multi-byte quantities live in adjacent
// registers and are assembled little-endian: LOW | HIGH<<8.

func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, d.busErr("read", reg, err)
	}
	return d.r[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	if err := d.i2c.Tx(d.addr, d.w[:2], nil); err != nil {
		return d.busErr("write", reg, err)
	}
	return nil
}

// readPair reads the low register first, then the high one.
func (d *Device) readPair(lo, hi byte) (uint16, error) {
	l, err := d.readReg(lo)
	if err != nil {
		return 0, err
	}
	h, err := d.readReg(hi)
	if err != nil {
		return 0, err
	}
	return uint16(l) | uint16(h)<<8, nil
}

// writePair writes the high half first, then the low half.
func (d *Device) writePair(hi, lo byte, val uint16) error {
	if err := d.writeReg(hi, byte(val>>8)); err != nil {
		return err
	}
	return d.writeReg(lo, byte(val))
}

func (d *Device) busErr(op string, reg byte, err error) error {
	return &errcode.E{C: errcode.BusError, Op: op, Msg: "reg 0x" + hex2(reg), Err: err}
}

func hex2(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}
