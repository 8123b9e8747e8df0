package chargeguard

import "chargeguard-go/drivers/rk818"

// Outcome is the supervisor's terminal result.
type Outcome uint8

const (
	ContinueBoot Outcome = iota
	PowerOff
)

func (o Outcome) String() string {
	switch o {
	case ContinueBoot:
		return "continue-boot"
	case PowerOff:
		return "power-off"
	}
	return "unknown"
}

// Action is the transition target chosen for one tick.
type Action uint8

const (
	ActContinueBoot Action = iota // terminal
	ActPowerOff                   // terminal
	ActRecoveryBlink              // dead/trickle: short green flash, pause
	ActFastChargeBlink            // green duty cycle follows charge current
	ActChargeOff                  // red double blink, pause
	ActFault                      // red fast quintuple blink, pause
)

var actionNames = [...]string{
	ActContinueBoot:    "continue-boot",
	ActPowerOff:        "power-off",
	ActRecoveryBlink:   "recovery-blink",
	ActFastChargeBlink: "fast-charge-blink",
	ActChargeOff:       "charge-off",
	ActFault:           "fault",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Terminal maps terminal actions to their outcome.
func (a Action) Terminal() (Outcome, bool) {
	switch a {
	case ActContinueBoot:
		return ContinueBoot, true
	case ActPowerOff:
		return PowerOff, true
	}
	return 0, false
}

// chargerActions dispatches on the charge state once a charger is known to be
// attached and the battery is too low to boot. ChargeStateUnknown is treated
// as a hardware fault.
var chargerActions = [...]Action{
	rk818.ChargeOff:          ActChargeOff,
	rk818.DeadCharge:         ActRecoveryBlink,
	rk818.TrickleCharge:      ActRecoveryBlink,
	rk818.FastCharge:         ActFastChargeBlink,
	rk818.ChargeFinished:     ActContinueBoot,
	rk818.USBOverVoltage:     ActFault,
	rk818.BatteryTempError:   ActFault,
	rk818.TimerError:         ActFault,
	rk818.ChargeStateUnknown: ActFault,
}

// Decide applies the tick policy to a valid sample, in priority order:
// enough OCV boots; no usable charger powers off; otherwise the charge state
// picks a waiting action. Fast charge with no charging current is handled
// like a stopped charger.
func Decide(s rk818.Sample, bootOCV_mV int32) Action {
	if s.OCV_mV > bootOCV_mV {
		return ActContinueBoot
	}
	if !s.USBExist || s.USBFault {
		return ActPowerOff
	}
	a := ActFault
	if int(s.State) < len(chargerActions) {
		a = chargerActions[s.State]
	}
	if a == ActFastChargeBlink && s.Current_mA <= 0 {
		return ActChargeOff
	}
	return a
}
