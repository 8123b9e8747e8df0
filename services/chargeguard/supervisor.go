// Package chargeguard decides, before the OS starts, whether the battery can
// carry a boot, whether to wait on the charger, or whether to power off to
// protect an over-discharged cell. It reports through two indicator LEDs.
//
// The supervisor is single-threaded and owns the PMIC, both LEDs and the
// power-off line for as long as Run executes.
package chargeguard

import (
	"time"

	"chargeguard-go/drivers/rk818"
	"chargeguard-go/errcode"
	"chargeguard-go/x/mathx"
	"chargeguard-go/x/timex"
)

// PMIC is the subset of the RK818 driver the supervisor drives.
type PMIC interface {
	Probe() error
	Calibrate() (rk818.CurrentOffset, error)
	ApplyChargerConfig(rk818.ChargerConfig) error
	CalibrationPoint() (rk818.CalibrationPoint, error)
	SampleInto(rk818.CalibrationPoint, *rk818.Sample)
}

// Logger is satisfied by *logrus.Logger, *logrus.Entry and the device console.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// Hardware bundles the external collaborators. Red and Green may be nil.
type Hardware struct {
	PMIC  PMIC
	Red   LED
	Green LED

	// PowerOff requests a system power cut. It returns nil, errcode.InProgress
	// when the cut is underway but not yet effective, or another error.
	PowerOff func() error
	// Halt stops execution for good. On hardware it must not return.
	Halt func()

	Sleep timex.Sleeper
	Log   Logger
}

type Supervisor struct {
	hw    Hardware
	cfg   Config
	red   indicator
	green indicator
	sleep timex.Sleeper
	log   Logger

	cal    rk818.CalibrationPoint
	hasCal bool
}

func New(hw Hardware, cfg Config) *Supervisor {
	s := &Supervisor{
		hw:    hw,
		cfg:   cfg,
		red:   indicator{hw.Red},
		green: indicator{hw.Green},
		sleep: hw.Sleep,
		log:   hw.Log,
	}
	if s.sleep == nil {
		s.sleep = timex.System{}
	}
	if s.log == nil {
		s.log = nopLogger{}
	}
	if s.hw.PowerOff == nil {
		s.hw.PowerOff = func() error { return errcode.Unsupported }
	}
	if s.hw.Halt == nil {
		s.hw.Halt = func() { select {} }
	}
	return s
}

// Run executes the supervisor to a terminal outcome.
//
// A missing PMIC returns ContinueBoot with an errcode.NotFound error and
// leaves the LEDs as they are. PowerOff only comes back if Hardware.Halt
// returns, which real hardware never does.
func (s *Supervisor) Run() (Outcome, error) {
	// Report optimism at first.
	s.green.on()

	if err := s.hw.PMIC.Probe(); err != nil {
		s.log.Errorf("ERROR: PMIC not found! (%v)", err)
		return ContinueBoot, err
	}

	s.calibrate()

	if err := s.hw.PMIC.ApplyChargerConfig(s.cfg.Charger); err != nil {
		s.log.Errorf("charger config failed: %v", err)
	}

	var (
		smp     rk818.Sample
		invalid int
	)
	for {
		select {
		case o := <-s.cfg.Override:
			s.log.Infof("override: %s", o)
			return s.finish(o)
		default:
		}

		// An unreadable tick decides nothing; show a fault and retry.
		if err := s.read(&smp); err != nil {
			invalid++
			s.log.Errorf("battery status unreadable (%d in a row): %v", invalid, err)
			s.wait(ActFault, &smp)
			continue
		}
		invalid = 0
		s.logSample(&smp)

		act := Decide(smp, s.cfg.BootOCV_mV)
		if s.cfg.OnTick != nil {
			s.cfg.OnTick(smp, act)
		}
		if o, ok := act.Terminal(); ok {
			return s.finish(o)
		}
		s.wait(act, &smp)
	}
}

func (s *Supervisor) calibrate() {
	off, err := s.hw.PMIC.Calibrate()
	if err != nil {
		s.log.Errorf("current offset calibration failed: %v", err)
	} else {
		s.log.Infof("Setting coffset=%d (ioffset=%d poffset=%d)", off.Committed, off.IO, off.Factory)
	}
	s.sleep.Sleep(s.cfg.CalibrationSettle)
}

// read fills smp. The calibration points are read on first use and kept.
func (s *Supervisor) read(smp *rk818.Sample) error {
	if !s.hasCal {
		cal, err := s.hw.PMIC.CalibrationPoint()
		if err != nil {
			return err
		}
		s.cal, s.hasCal = cal, true
	}
	s.hw.PMIC.SampleInto(s.cal, smp)
	if !smp.Valid {
		return smp.Err
	}
	return nil
}

// wait runs one non-terminal action. From here on a charger is attached, so
// errors are only shown on the LEDs; unplugging leads to power-off next tick.
func (s *Supervisor) wait(act Action, smp *rk818.Sample) {
	switch act {
	case ActRecoveryBlink:
		if s.bothLEDs() {
			s.red.off()
			s.green.on()
			on := s.cfg.TrickleOn
			if smp.State == rk818.DeadCharge {
				on = s.cfg.DeadOn
			}
			s.delay(on)
			s.green.off()
		}
		s.delay(s.cfg.Pause)

	case ActFastChargeBlink:
		if !s.bothLEDs() {
			s.delay(s.cfg.Pause)
			return
		}
		cur := mathx.Clamp(smp.Current_mA, s.cfg.FastMin_mA, s.cfg.FastMax_mA)
		on := time.Duration(cur) * time.Millisecond
		s.red.off()
		s.green.toggle()
		if s.green.isOn() {
			s.delay(on)
		} else {
			s.delay(s.cfg.FastPeriod - on)
		}

	case ActChargeOff:
		s.green.off()
		s.blink(s.red, s.cfg.ChargeOffBlink)
		s.delay(s.cfg.Pause)

	default: // ActFault
		s.green.off()
		s.blink(s.red, s.cfg.FaultBlink)
		s.delay(s.cfg.Pause)
	}
}

func (s *Supervisor) finish(o Outcome) (Outcome, error) {
	if o == PowerOff {
		return PowerOff, s.powerOff()
	}
	if s.bothLEDs() {
		s.red.off()
		s.green.on()
	}
	s.log.Infof("battery ok, continuing boot")
	return ContinueBoot, nil
}

// powerOff shows the low-power pattern, asks for power to be cut and keeps
// blinking red while that takes effect. If it never does, execution halts.
func (s *Supervisor) powerOff() error {
	s.log.Infof("battery low and no charger, powering off")
	s.green.off()
	s.blink(s.red, s.cfg.LowPowerBlink)

	err := s.hw.PowerOff()
	switch {
	case err == nil:
	case errcode.Of(err) == errcode.InProgress:
		s.delay(s.cfg.PowerOffGrace)
	default:
		s.log.Errorf("power-off request failed: %v", err)
	}

	s.blink(s.red, s.cfg.HaltBlink)
	s.log.Errorf("still running after power-off, halting")
	s.hw.Halt()
	return err
}

func (s *Supervisor) delay(d time.Duration) {
	timex.Sliced(s.sleep, d, s.cfg.DelaySlice, s.cfg.Poll)
}

func (s *Supervisor) logSample(smp *rk818.Sample) {
	s.log.Infof("Battery status: vol=%d cur=%d ocv=%d plugin=%d status=%s usb_fault=%d usb_exist=%d bat_exist=%d",
		smp.Voltage_mV, smp.Current_mA, smp.OCV_mV, b2i(smp.PluggedIn), smp.State,
		b2i(smp.USBFault), b2i(smp.USBExist), b2i(smp.BatExist))
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
