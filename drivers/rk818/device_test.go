package rk818

import (
	"errors"
	"testing"

	"chargeguard-go/errcode"
)

func TestProbe(t *testing.T) {
	sim := NewSim()
	if err := New(sim, Config{}).Probe(); err != nil {
		t.Fatalf("Probe: %v", err)
	}

	sim.Absent = true
	if err := New(sim, Config{}).Probe(); errcode.Of(err) != errcode.NotFound {
		t.Fatalf("absent chip: err = %v, want pmic_not_found", err)
	}

	other := NewSim()
	other.SetReg(regChipIDMSB, 0x80)
	other.SetReg(regChipIDLSB, 0x50)
	if err := New(other, Config{}).Probe(); errcode.Of(err) != errcode.UnexpectedChip {
		t.Fatalf("rk805 id: err = %v, want unexpected_chip_id", err)
	}

	if err := New(NewSim(), Config{Address: 0x20}).Probe(); errcode.Of(err) != errcode.NotFound {
		t.Fatalf("wrong address: err = %v", err)
	}
}

func TestApplyChargerConfig(t *testing.T) {
	sim := NewSim()
	if err := New(sim, Config{}).ApplyChargerConfig(DefaultChargerConfig()); err != nil {
		t.Fatalf("ApplyChargerConfig: %v", err)
	}
	want := []RegWrite{
		{regChrgCtrl1, 0xb2},
		{regChrgCtrl2, 0x4a},
		{regChrgCtrl3, 0x0e},
		{regUSBCtrl, 0xf2},
	}
	got := sim.Writes()
	if len(got) != len(want) {
		t.Fatalf("writes = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("write %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSample(t *testing.T) {
	sim := NewSim()
	sim.SetVoltage_mV(3600)
	sim.SetCurrentRaw(265)
	sim.SetPluggedIn(true)
	sim.SetStatus(FastCharge, true, true, true)
	d := New(sim, Config{})
	cal, _ := d.CalibrationPoint()

	s := d.Sample(cal)
	if !s.Valid || s.Err != nil {
		t.Fatalf("sample invalid: %v", s.Err)
	}
	wantCur := CurrentFromRaw(265)
	if s.Voltage_mV != 3600 || s.Current_mA != wantCur || s.OCV_mV != EstimateOCV(3600, wantCur) {
		t.Fatalf("sample = %+v", s)
	}
	if !s.PluggedIn || s.State != FastCharge || s.USBFault || !s.USBExist || !s.BatExist {
		t.Fatalf("status = %+v", s.Status)
	}
}

func TestSampleInvalidOnBusError(t *testing.T) {
	sim := NewSim()
	sim.SetStatus(FastCharge, true, true, true)
	sim.FailStatus(errors.New("arbitration lost"))
	d := New(sim, Config{})

	s := d.Sample(CalibrationPoint{Low: 2000, High: 2800})
	if s.Valid {
		t.Fatal("sample must be invalid")
	}
	if errcode.Of(s.Err) != errcode.InvalidSample || !errors.Is(s.Err, errcode.BusError) {
		t.Fatalf("err = %v", s.Err)
	}
	if s.State != ChargeOff || s.Voltage_mV != 0 {
		t.Fatalf("invalid sample carries data: %+v", s)
	}
}

func TestDump(t *testing.T) {
	sim := NewSim()
	sim.SetReg(0xa0, 0x12)
	sim.SetReg(0xa1, 0x34)
	buf := make([]byte, 2)
	if err := New(sim, Config{}).Dump(0xa0, 0xa1, buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if buf[0] != 0x12 || buf[1] != 0x34 {
		t.Fatalf("dump = % x", buf)
	}
	if err := New(sim, Config{}).Dump(0xa1, 0xa0, buf); err != errcode.InvalidParams {
		t.Fatalf("reversed range: err = %v", err)
	}
}

func TestScenarios(t *testing.T) {
	for _, name := range ScenarioNames() {
		s, err := Scenario(name)
		if err != nil {
			t.Fatalf("Scenario(%q): %v", name, err)
		}
		if err := New(s, Config{}).Probe(); err != nil {
			t.Fatalf("Scenario(%q) probe: %v", name, err)
		}
	}
	if _, err := Scenario("nope"); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("unknown scenario: err = %v", err)
	}
}

func TestPowerOff(t *testing.T) {
	sim := NewSim()
	sim.SetReg(regDevCtrl, 0x40)
	dev := New(sim, Config{})
	if err := dev.PowerOff(); err != errcode.InProgress {
		t.Fatalf("PowerOff: err = %v, want in_progress", err)
	}
	if !sim.PoweredOff() || sim.Reg(regDevCtrl) != 0x41 {
		t.Fatalf("DEVCTRL = %#x, off=%v", sim.Reg(regDevCtrl), sim.PoweredOff())
	}
	if err := dev.Probe(); errcode.Of(err) != errcode.NotFound {
		t.Fatalf("probe after power-off: %v", err)
	}

	failing := NewSim()
	failing.Fail(regDevCtrl, errors.New("nack"))
	if err := New(failing, Config{}).PowerOff(); errcode.Of(err) != errcode.BusError {
		t.Fatalf("bus failure: err = %v", err)
	}
}
