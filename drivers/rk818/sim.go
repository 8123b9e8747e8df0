package rk818

import (
	"errors"
	"sync"
)

// ErrNoAck is returned by Sim for transactions nobody answers.
var ErrNoAck = errors.New("rk818: sim: no ack")

// Sim is a register-file stand-in for an RK818 behind drivers.I2C. It lets
// the driver and the supervisor run on a host without hardware.
//
// The default calibration maps raw voltage codes at 1.5 mV/LSB with no offset.
type Sim struct {
	mu sync.Mutex

	Addr   uint16
	Absent bool // no device on the bus

	off    bool
	regs   [256]byte
	fail   map[byte]error
	hooks  map[byte]func(*Sim)
	writes []RegWrite
	reads  [256]int
}

// RegWrite is one logged register write.
type RegWrite struct {
	Reg, Val byte
}

func NewSim() *Sim {
	s := &Sim{Addr: AddressDefault}
	s.regs[regChipIDMSB] = byte(ChipID >> 8)
	s.regs[regChipIDLSB] = byte(ChipID&0xff) | 0x01
	s.setPair(regVCalib0L, regVCalib0H, 2000)
	s.setPair(regVCalib1L, regVCalib1H, 2800)
	s.regs[regPOffset] = DefaultFactoryOffset
	s.setPair(regIOffsetL, regIOffsetH, 0x7f0)
	return s
}

// Tx implements drivers.I2C for single-register reads (w=[reg], len(r)=1)
// and writes (w=[reg, val]).
func (s *Sim) Tx(addr uint16, w, r []byte) error {
	if addr != s.Addr || len(w) == 0 {
		return ErrNoAck
	}
	reg := w[0]

	s.mu.Lock()
	hook := s.hooks[reg]
	off := s.Absent || s.off
	s.mu.Unlock()
	if off {
		return ErrNoAck
	}
	if hook != nil && len(r) > 0 {
		hook(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[reg]; err != nil {
		return err
	}
	switch {
	case len(w) == 1 && len(r) == 1:
		s.reads[reg]++
		r[0] = s.regs[reg]
	case len(w) == 2 && len(r) == 0:
		s.regs[reg] = w[1]
		s.writes = append(s.writes, RegWrite{Reg: reg, Val: w[1]})
		if reg == regDevCtrl && w[1]&devOff != 0 {
			s.off = true
		}
	default:
		return ErrNoAck
	}
	return nil
}

// PoweredOff reports whether DEV_OFF has been written. A powered-off Sim
// stops answering.
func (s *Sim) PoweredOff() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.off
}

// OnRead runs fn before every read of reg. fn may use the setters.
func (s *Sim) OnRead(reg byte, fn func(*Sim)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hooks == nil {
		s.hooks = make(map[byte]func(*Sim))
	}
	s.hooks[reg] = fn
}

// OnStatusRead runs fn before every SUP_STS read, i.e. once per poll tick.
func (s *Sim) OnStatusRead(fn func(*Sim)) { s.OnRead(regSupStatus, fn) }

// Fail makes every transaction touching reg return err; nil clears it.
func (s *Sim) Fail(reg byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail == nil {
		s.fail = make(map[byte]error)
	}
	if err == nil {
		delete(s.fail, reg)
		return
	}
	s.fail[reg] = err
}

// FailStatus makes SUP_STS reads fail with err; nil clears it.
func (s *Sim) FailStatus(err error) { s.Fail(regSupStatus, err) }

func (s *Sim) Reg(reg byte) byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[reg]
}

func (s *Sim) SetReg(reg, val byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg] = val
}

// Writes returns a copy of the write log.
func (s *Sim) Writes() []RegWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RegWrite(nil), s.writes...)
}

// StatusReads is the number of SUP_STS reads so far.
func (s *Sim) StatusReads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[regSupStatus]
}

func (s *Sim) SetCalibration(c CalibrationPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPair(regVCalib0L, regVCalib0H, c.Low)
	s.setPair(regVCalib1L, regVCalib1H, c.High)
}

func (s *Sim) SetOffsets(factory byte, io uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[regPOffset] = factory
	s.setPair(regIOffsetL, regIOffsetH, io)
}

func (s *Sim) SetVoltageRaw(v uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPair(regBatVolL, regBatVolH, v)
}

// SetVoltage_mV stores the raw code for mV under the default calibration.
func (s *Sim) SetVoltage_mV(mV int32) {
	if mV < 0 {
		mV = 0
	}
	s.SetVoltageRaw(uint16(mV * 2 / 3))
}

// SetChipOCV_mV stores the chip's relaxation OCV under the default calibration.
func (s *Sim) SetChipOCV_mV(mV int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPair(regBatOCVL, regBatOCVH, uint16(mV*2/3))
}

// Voltage_mV reports the stored voltage under the default calibration.
func (s *Sim) Voltage_mV() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int32(s.pair(regBatVolL, regBatVolH)) * 3 / 2
}

func (s *Sim) SetCurrentRaw(v uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPair(regBatCurAvgL, regBatCurAvgH, v&0x0fff)
}

// SetCurrent_mA stores the nearest 12-bit code at 3.012 mA/LSB.
func (s *Sim) SetCurrent_mA(mA int32) {
	code := mA * 1000 / 3012
	if code < -2048 {
		code = -2048
	}
	if code > 2047 {
		code = 2047
	}
	s.SetCurrentRaw(uint16(code) & 0x0fff)
}

// SetStatus composes SUP_STS. usbEffective=false raises the USB fault flag.
func (s *Sim) SetStatus(st ChargeState, usbExist, usbEffective, batExist bool) {
	var b byte = byte(st&supStateMask) << supStateOff
	if usbEffective {
		b |= supUSBEff
	}
	if usbExist {
		b |= supUSBExist
	}
	if batExist {
		b |= supBatExist
	}
	s.SetReg(regSupStatus, b)
}

func (s *Sim) SetPluggedIn(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.regs[regVBMon] |= vbPlugIn
	} else {
		s.regs[regVBMon] &^= vbPlugIn
	}
}

// CommittedOffset reads back CAL_OFFSET as the driver last wrote it.
func (s *Sim) CommittedOffset() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair(regCalOffsetL, regCalOffsetH)
}

func (s *Sim) setPair(lo, hi byte, v uint16) {
	s.regs[lo] = byte(v)
	s.regs[hi] = byte(v >> 8)
}

func (s *Sim) pair(lo, hi byte) uint16 {
	return uint16(s.regs[lo]) | uint16(s.regs[hi])<<8
}
