package rk818

import (
	"chargeguard-go/errcode"

	"tinygo.org/x/drivers"
)

// Config selects the bus address. All fields are optional.
type Config struct {
	Address uint16
}

// ChargerConfig holds the raw charger register values written at startup.
// The defaults are hand-tuned for a 1S Li-ion pack behind a USB input.
type ChargerConfig struct {
	ChargeCtrl1 byte `yaml:"charge_ctrl1"` // enable, Ibat max, Vbat max
	ChargeCtrl2 byte `yaml:"charge_ctrl2"` // termination current, trickle and CC/CV timeouts
	ChargeCtrl3 byte `yaml:"charge_ctrl3"` // safety timers
	USBCtrl     byte `yaml:"usb_ctrl"`     // USB input current/voltage limits
}

// DefaultChargerConfig: Ibat 1.4 A, Vbat 4.3 V, 150 mA termination,
// 60 min trickle / 6 h CC-CV timeouts, timers enabled, USB 850 mA / 3.26 V.
func DefaultChargerConfig() ChargerConfig {
	return ChargerConfig{
		ChargeCtrl1: 0xb2,
		ChargeCtrl2: 0x4a,
		ChargeCtrl3: 0x0e,
		USBCtrl:     0xf2,
	}
}

// Device represents an RK818 instance on an I²C bus. It is not safe for
// concurrent use; the caller owns the bus for the device's lifetime.
type Device struct {
	i2c  drivers.I2C
	addr uint16

	// Fixed buffers to avoid per-call heap allocations.
	w [2]byte
	r [1]byte
}

// New constructs a Device. It does not touch the bus.
func New(i2c drivers.I2C, cfg Config) *Device {
	addr := cfg.Address
	if addr == 0 {
		addr = AddressDefault
	}
	return &Device{i2c: i2c, addr: addr}
}

func (d *Device) Address() uint16 { return d.addr }

// Probe checks that an RK818 answers at the configured address.
func (d *Device) Probe() error {
	msb, err := d.readReg(regChipIDMSB)
	if err != nil {
		return &errcode.E{C: errcode.NotFound, Op: "probe", Err: err}
	}
	lsb, err := d.readReg(regChipIDLSB)
	if err != nil {
		return &errcode.E{C: errcode.NotFound, Op: "probe", Err: err}
	}
	if id := (uint16(msb)<<8 | uint16(lsb)) & chipIDMask; id != ChipID {
		return &errcode.E{C: errcode.UnexpectedChip, Op: "probe", Msg: "id 0x" + hex2(byte(id>>8)) + hex2(byte(id))}
	}
	return nil
}

// ApplyChargerConfig writes the charger control registers in datasheet order.
func (d *Device) ApplyChargerConfig(c ChargerConfig) error {
	for _, w := range [...]struct{ reg, val byte }{
		{regChrgCtrl1, c.ChargeCtrl1},
		{regChrgCtrl2, c.ChargeCtrl2},
		{regChrgCtrl3, c.ChargeCtrl3},
		{regUSBCtrl, c.USBCtrl},
	} {
		if err := d.writeReg(w.reg, w.val); err != nil {
			return err
		}
	}
	return nil
}

// Dump reads registers [from, to] one at a time into out, which must hold
// to-from+1 bytes. It stops at the first bus error.
func (d *Device) Dump(from, to byte, out []byte) error {
	if to < from || len(out) < int(to-from)+1 {
		return errcode.InvalidParams
	}
	for reg := int(from); reg <= int(to); reg++ {
		v, err := d.readReg(byte(reg))
		if err != nil {
			return err
		}
		out[reg-int(from)] = v
	}
	return nil
}

// PowerOff sets DEV_OFF. The chip drops the rails shortly after the write is
// acknowledged, so success is reported as errcode.InProgress.
func (d *Device) PowerOff() error {
	v, err := d.readReg(regDevCtrl)
	if err != nil {
		return err
	}
	if err := d.writeReg(regDevCtrl, v|devOff); err != nil {
		return err
	}
	return errcode.InProgress
}
