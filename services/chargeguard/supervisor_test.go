package chargeguard

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"chargeguard-go/drivers/rk818"
	"chargeguard-go/errcode"
)

type fakeLED struct {
	lit  bool
	sets []bool
}

func (l *fakeLED) Set(on bool) { l.lit = on; l.sets = append(l.sets, on) }
func (l *fakeLED) Get() bool   { return l.lit }

type fakeClock struct {
	total time.Duration
	calls int
}

func (c *fakeClock) Sleep(d time.Duration) { c.total += d; c.calls++ }

type memLog struct{ lines []string }

func (l *memLog) Infof(f string, a ...any)  { l.lines = append(l.lines, fmt.Sprintf(f, a...)) }
func (l *memLog) Errorf(f string, a ...any) { l.lines = append(l.lines, "E "+fmt.Sprintf(f, a...)) }

func (l *memLog) has(sub string) bool {
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type rig struct {
	sim        *rk818.Sim
	red, green *fakeLED
	clk        *fakeClock
	log        *memLog

	powerOffErr error
	powerOffs   int
	halts       int
	actions     []Action
}

func newRig(t *testing.T, scenario string) *rig {
	t.Helper()
	sim, err := rk818.Scenario(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario, err)
	}
	return &rig{sim: sim, red: &fakeLED{}, green: &fakeLED{}, clk: &fakeClock{}, log: &memLog{}}
}

func testConfig() Config {
	c := DefaultConfig()
	c.HaltBlink.Times = 3
	return c
}

func (r *rig) hardware() Hardware {
	return Hardware{
		PMIC:  rk818.New(r.sim, rk818.Config{}),
		Red:   r.red,
		Green: r.green,
		PowerOff: func() error {
			r.powerOffs++
			return r.powerOffErr
		},
		Halt:  func() { r.halts++ },
		Sleep: r.clk,
		Log:   r.log,
	}
}

func (r *rig) run(cfg Config) (Outcome, error) {
	cfg.OnTick = func(_ rk818.Sample, a Action) { r.actions = append(r.actions, a) }
	return New(r.hardware(), cfg).Run()
}

func TestHealthyBatteryBoots(t *testing.T) {
	r := newRig(t, "healthy")
	o, err := r.run(testConfig())
	if o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	if !r.green.lit || r.red.lit {
		t.Fatalf("leds: green=%v red=%v", r.green.lit, r.red.lit)
	}
	if r.powerOffs != 0 || r.halts != 0 {
		t.Fatal("power-off path taken")
	}
	if n := r.sim.StatusReads(); n != 1 {
		t.Fatalf("status reads = %d, want 1", n)
	}
	if want := "Battery status: vol=3900 cur=-147 ocv=3936 plugin=0 status=off usb_fault=1 usb_exist=0 bat_exist=1"; !r.log.has(want) {
		t.Fatalf("log missing %q:\n%s", want, strings.Join(r.log.lines, "\n"))
	}
	if r.clk.total != 300*time.Millisecond {
		t.Fatalf("slept %v, want only the calibration settle", r.clk.total)
	}
}

func TestRunCalibratesAndConfiguresCharger(t *testing.T) {
	r := newRig(t, "healthy")
	if _, err := r.run(testConfig()); err != nil {
		t.Fatal(err)
	}
	if got, want := r.sim.CommittedOffset(), rk818.CommitOffset(rk818.DefaultFactoryOffset, 0x7f0); got != want {
		t.Fatalf("committed offset = %#x, want %#x", got, want)
	}
	c := rk818.DefaultChargerConfig()
	want := []byte{c.ChargeCtrl1, c.ChargeCtrl2, c.ChargeCtrl3, c.USBCtrl}
	w := r.sim.Writes()
	if len(w) != 2+len(want) {
		t.Fatalf("writes = %+v", w)
	}
	for i, v := range want {
		if w[2+i].Val != v {
			t.Fatalf("charger write %d = %+v, want %#x", i, w[2+i], v)
		}
	}
}

type calFails struct{ *rk818.Device }

func (calFails) Calibrate() (rk818.CurrentOffset, error) {
	return rk818.CurrentOffset{}, &errcode.E{C: errcode.BusError, Op: "calibrate"}
}

func TestCalibrationFailureIsLogged(t *testing.T) {
	r := newRig(t, "healthy")
	hw := r.hardware()
	hw.PMIC = calFails{rk818.New(r.sim, rk818.Config{})}
	o, err := New(hw, testConfig()).Run()
	if o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	if !r.log.has("calibration failed") {
		t.Fatal("calibration error not logged")
	}
}

func TestMissingPMIC(t *testing.T) {
	r := newRig(t, "healthy")
	r.sim.Absent = true
	o, err := r.run(testConfig())
	if o != ContinueBoot || errcode.Of(err) != errcode.NotFound {
		t.Fatalf("Run = %s, %v", o, err)
	}
	if len(r.red.sets) != 0 {
		t.Fatal("red touched")
	}
	if len(r.sim.Writes()) != 0 || r.powerOffs != 0 {
		t.Fatal("chip accessed after failed probe")
	}
	if !r.log.has("PMIC not found!") {
		t.Fatal("not logged")
	}
}

func TestUnpluggedLowBatteryPowersOff(t *testing.T) {
	r := newRig(t, "low-unplugged")
	cfg := testConfig()
	o, err := r.run(cfg)
	if o != PowerOff || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	if r.powerOffs != 1 || r.halts != 1 {
		t.Fatalf("powerOffs=%d halts=%d", r.powerOffs, r.halts)
	}
	if r.green.lit || r.red.lit {
		t.Fatal("leds left on")
	}
	if got, want := len(r.red.sets), 2*(cfg.LowPowerBlink.Times+cfg.HaltBlink.Times); got != want {
		t.Fatalf("red transitions = %d, want %d", got, want)
	}
	// settle + low power blink + halt blink
	if want := 300*time.Millisecond + 8*200*time.Millisecond + 3*200*time.Millisecond; r.clk.total != want {
		t.Fatalf("slept %v, want %v", r.clk.total, want)
	}
	if len(r.actions) != 1 || r.actions[0] != ActPowerOff {
		t.Fatalf("actions = %v", r.actions)
	}
}

func TestPowerOffInProgressWaitsGrace(t *testing.T) {
	r := newRig(t, "low-unplugged")
	r.powerOffErr = errcode.InProgress
	o, err := r.run(testConfig())
	if o != PowerOff || errcode.Of(err) != errcode.InProgress {
		t.Fatalf("Run = %s, %v", o, err)
	}
	if want := 3500 * time.Millisecond; r.clk.total != want {
		t.Fatalf("slept %v, want %v", r.clk.total, want)
	}
}

func TestPowerOffUnsupportedStillHalts(t *testing.T) {
	r := newRig(t, "low-unplugged")
	hw := r.hardware()
	hw.PowerOff = nil
	o, err := New(hw, testConfig()).Run()
	if o != PowerOff || !errors.Is(err, errcode.Unsupported) {
		t.Fatalf("Run = %s, %v", o, err)
	}
	if r.halts != 1 {
		t.Fatal("not halted")
	}
	if !r.log.has("power-off request failed") {
		t.Fatal("failure not logged")
	}
}

func TestUSBFaultPowersOff(t *testing.T) {
	r := newRig(t, "low-charging")
	r.sim.SetStatus(rk818.FastCharge, true, false, true)
	if o, _ := r.run(testConfig()); o != PowerOff {
		t.Fatalf("Run = %s", o)
	}
}

func TestChargingUntilOCVIsEnough(t *testing.T) {
	r := newRig(t, "low-charging")
	o, err := r.run(testConfig())
	if o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	// 3300 mV +15 mV per tick at ~798 mA: OCV first exceeds 3500 on tick 28.
	if len(r.actions) != 28 {
		t.Fatalf("ticks = %d, want 28", len(r.actions))
	}
	for i, a := range r.actions[:len(r.actions)-1] {
		if a != ActFastChargeBlink {
			t.Fatalf("tick %d: %s", i, a)
		}
	}
	if !r.green.lit || r.red.lit {
		t.Fatal("exit leds wrong")
	}
	if r.powerOffs != 0 {
		t.Fatal("powered off")
	}
}

func TestFastChargeDutyCycle(t *testing.T) {
	r := newRig(t, "low-charging")
	r.sim.OnStatusRead(func(*rk818.Sim) {})
	stop := make(chan Outcome, 1)
	cfg := testConfig()
	cfg.Override = stop
	ticks := 0
	cfg.OnTick = func(rk818.Sample, Action) {
		if ticks++; ticks == 2 {
			stop <- ContinueBoot
		}
	}
	if o, err := New(r.hardware(), cfg).Run(); o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	// Green starts lit, so tick one is the 1202ms off phase and tick two the
	// 798ms on phase. Both round down to whole slices.
	want := 300*time.Millisecond + 1200*time.Millisecond + 795*time.Millisecond
	if r.clk.total != want {
		t.Fatalf("slept %v, want %v", r.clk.total, want)
	}
	if !r.green.lit {
		t.Fatal("green should be lit after two toggles and the exit")
	}
}

func TestFastChargeCurrentClamped(t *testing.T) {
	for _, c := range []struct {
		mA  int32
		off time.Duration
	}{
		{30, 1900 * time.Millisecond},
		{2500, 100 * time.Millisecond},
	} {
		r := newRig(t, "low-charging")
		r.sim.OnStatusRead(func(*rk818.Sim) {})
		r.sim.SetCurrent_mA(c.mA)
		stop := make(chan Outcome, 1)
		cfg := testConfig()
		cfg.Override = stop
		var at time.Duration
		cfg.OnTick = func(rk818.Sample, Action) {
			at = r.clk.total
			stop <- ContinueBoot
		}
		New(r.hardware(), cfg).Run()
		if got := r.clk.total - at; got != c.off {
			t.Fatalf("%d mA: off phase %v, want %v", c.mA, got, c.off)
		}
	}
}

func TestDeadAndTrickleBlink(t *testing.T) {
	r := newRig(t, "dead")
	r.sim.OnStatusRead(func(*rk818.Sim) {})
	ch := make(chan Outcome, 1)
	cfg := testConfig()
	cfg.Override = ch
	var ticks int
	cfg.OnTick = func(s rk818.Sample, a Action) {
		if a != ActRecoveryBlink {
			t.Fatalf("action %s", a)
		}
		if ticks++; ticks == 1 {
			r.sim.SetStatus(rk818.TrickleCharge, true, true, true)
		} else {
			ch <- ContinueBoot
		}
	}
	if o, err := New(r.hardware(), cfg).Run(); o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	// dead: 100 on + pause, trickle: 200 on + pause
	want := 300*time.Millisecond + 1100*time.Millisecond + 1200*time.Millisecond
	if r.clk.total != want {
		t.Fatalf("slept %v, want %v", r.clk.total, want)
	}
	if !r.green.lit || r.red.lit {
		t.Fatal("exit leds wrong")
	}
}

func TestDeadScenarioProgressesToBoot(t *testing.T) {
	r := newRig(t, "dead")
	if o, err := r.run(testConfig()); o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	var seenFast bool
	for _, a := range r.actions {
		seenFast = seenFast || a == ActFastChargeBlink
	}
	if r.actions[0] != ActRecoveryBlink || !seenFast {
		t.Fatalf("actions = %v", r.actions)
	}
}

func TestFaultBlinksRed(t *testing.T) {
	r := newRig(t, "fault")
	ch := make(chan Outcome, 1)
	cfg := testConfig()
	cfg.Override = ch
	cfg.OnTick = func(_ rk818.Sample, a Action) {
		if a != ActFault {
			t.Fatalf("action %s", a)
		}
		ch <- ContinueBoot
	}
	New(r.hardware(), cfg).Run()
	// five blinks plus the red-off of the exit sequence
	if len(r.red.sets) != 2*cfg.FaultBlink.Times+1 {
		t.Fatalf("red transitions = %v", r.red.sets)
	}
	if want := 300*time.Millisecond + 5*100*time.Millisecond + time.Second; r.clk.total != want {
		t.Fatalf("slept %v, want %v", r.clk.total, want)
	}
	r.exitedToBoot(t)
}

func TestChargerOffBlinksTwice(t *testing.T) {
	r := newRig(t, "fault")
	r.sim.SetStatus(rk818.ChargeOff, true, true, true)
	ch := make(chan Outcome, 1)
	cfg := testConfig()
	cfg.Override = ch
	cfg.OnTick = func(_ rk818.Sample, a Action) {
		if a != ActChargeOff {
			t.Fatalf("action %s", a)
		}
		ch <- PowerOff
	}
	if o, _ := New(r.hardware(), cfg).Run(); o != PowerOff {
		t.Fatalf("Run = %s", o)
	}
	// two charge-off blinks, then the low power and halt sequences
	if got, want := len(r.red.sets), 2*(2+8+3); got != want {
		t.Fatalf("red transitions = %d, want %d", got, want)
	}
	if r.halts != 1 {
		t.Fatal("override power-off did not halt")
	}
}

// exitedToBoot checks the ContinueBoot exit indication: red off, green solid.
func (r *rig) exitedToBoot(t *testing.T) {
	t.Helper()
	if !r.green.lit || r.red.lit {
		t.Fatalf("exit leds: green=%v red=%v, want green only", r.green.lit, r.red.lit)
	}
	if r.powerOffs != 0 || r.halts != 0 {
		t.Fatal("power-off path taken")
	}
}

func TestInvalidSamplesRetryWithFaultBlink(t *testing.T) {
	r := newRig(t, "low-charging")
	stop := make(chan Outcome, 1)
	cfg := testConfig()
	cfg.Override = stop
	n := 0
	r.sim.OnStatusRead(func(s *rk818.Sim) {
		switch n++; n {
		case 2:
			s.FailStatus(errors.New("nack"))
		case 20:
			stop <- ContinueBoot
		}
	})
	o, err := r.run(cfg)
	if o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	if len(r.actions) != 1 || r.actions[0] != ActFastChargeBlink {
		t.Fatalf("actions = %v", r.actions)
	}
	// red-off on the fast-charge tick, a five-fold blink per unreadable
	// tick, then the exit red-off
	if got, want := len(r.red.sets), 1+19*2*cfg.FaultBlink.Times+1; got != want {
		t.Fatalf("red transitions = %d, want %d", got, want)
	}
	// settle, one fast-charge off phase, then blink and pause per invalid tick
	want := 300*time.Millisecond + 1200*time.Millisecond + 19*1500*time.Millisecond
	if r.clk.total != want {
		t.Fatalf("slept %v, want %v", r.clk.total, want)
	}
	if !r.log.has("unreadable (19 in a row)") {
		t.Fatal("invalid ticks not logged")
	}
	r.exitedToBoot(t)
}

func TestInvalidSampleRecovers(t *testing.T) {
	r := newRig(t, "healthy")
	r.sim.FailStatus(errors.New("nack"))
	n := 0
	r.sim.OnStatusRead(func(s *rk818.Sim) {
		if n++; n == 3 {
			s.FailStatus(nil)
		}
	})
	o, err := r.run(testConfig())
	if o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	if len(r.actions) != 1 {
		t.Fatalf("actions = %v", r.actions)
	}
	if want := 300*time.Millisecond + 2*1500*time.Millisecond; r.clk.total != want {
		t.Fatalf("slept %v, want %v", r.clk.total, want)
	}
	r.exitedToBoot(t)
}

func TestPollRunsDuringDelays(t *testing.T) {
	r := newRig(t, "fault")
	ch := make(chan Outcome, 1)
	cfg := testConfig()
	cfg.Override = ch
	polls := 0
	cfg.Poll = func() { polls++ }
	cfg.OnTick = func(rk818.Sample, Action) { ch <- ContinueBoot }
	New(r.hardware(), cfg).Run()
	// one pause of 1000ms in 5ms slices
	if polls != 201 {
		t.Fatalf("polls = %d, want 201", polls)
	}
}

func TestRunWithoutLEDs(t *testing.T) {
	r := newRig(t, "low-charging")
	hw := r.hardware()
	hw.Red, hw.Green = nil, nil
	cfg := testConfig()
	var ticks int
	cfg.OnTick = func(rk818.Sample, Action) { ticks++ }
	o, err := New(hw, cfg).Run()
	if o != ContinueBoot || err != nil {
		t.Fatalf("Run = %s, %v", o, err)
	}
	// each fast-charge tick falls back to a plain pause
	if want := 300*time.Millisecond + time.Duration(ticks-1)*time.Second; r.clk.total != want {
		t.Fatalf("slept %v, want %v", r.clk.total, want)
	}
}
