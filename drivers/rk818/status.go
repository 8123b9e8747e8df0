package rk818

// ChargeState is the 3-bit charger state field of SUP_STS.
type ChargeState uint8

const (
	ChargeOff ChargeState = iota
	DeadCharge
	TrickleCharge
	FastCharge // CC or CV phase
	ChargeFinished
	USBOverVoltage
	BatteryTempError
	TimerError
	ChargeStateUnknown
)

var chargeStateNames = [...]string{
	ChargeOff:          "off",
	DeadCharge:         "dead",
	TrickleCharge:      "trickle",
	FastCharge:         "cc-cv",
	ChargeFinished:     "finished",
	USBOverVoltage:     "usb-over-voltage",
	BatteryTempError:   "bat-temp-error",
	TimerError:         "timer-error",
	ChargeStateUnknown: "unknown",
}

func (s ChargeState) String() string {
	if int(s) < len(chargeStateNames) {
		return chargeStateNames[s]
	}
	return chargeStateNames[ChargeStateUnknown]
}

// Fault reports the states in which the charger is attached but refuses to charge.
func (s ChargeState) Fault() bool {
	switch s {
	case USBOverVoltage, BatteryTempError, TimerError:
		return true
	}
	return false
}

// Status is the decoded SUP_STS register.
type Status struct {
	State             ChargeState
	USBFault          bool // USB input not effective
	USBExist          bool
	BatExist          bool
	USBCurrentLimited bool
	USBVoltageLimited bool
}

// DecodeStatus is a pure decode of a SUP_STS byte. Every byte decodes to
// one of the eight defined states.
func DecodeStatus(b byte) Status {
	return Status{
		State:             ChargeState((b >> supStateOff) & supStateMask),
		USBFault:          b&supUSBEff == 0,
		USBExist:          b&supUSBExist != 0,
		BatExist:          b&supBatExist != 0,
		USBCurrentLimited: b&supCLimitEn != 0,
		USBVoltageLimited: b&supVLimitEn != 0,
	}
}

// Status reads and decodes SUP_STS.
func (d *Device) Status() (Status, byte, error) {
	b, err := d.readReg(regSupStatus)
	if err != nil {
		return Status{}, 0, err
	}
	return DecodeStatus(b), b, nil
}
