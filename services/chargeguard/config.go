package chargeguard

import (
	"math"
	"time"

	"chargeguard-go/drivers/rk818"
)

// Pattern is a blink: Times on/off cycles of Period, half on and half off.
type Pattern struct {
	Times  int           `yaml:"times"`
	Period time.Duration `yaml:"period"`
}

// Config carries the hand-tuned supervisor constants. Zero values are not
// replaced; start from DefaultConfig.
type Config struct {
	// OCV above which the battery may boot regardless of charger state.
	BootOCV_mV int32 `yaml:"boot_ocv_mV"`

	Charger           rk818.ChargerConfig `yaml:"charger"`
	CalibrationSettle time.Duration       `yaml:"calibration_settle"`

	// Waits are served in slices of DelaySlice; Poll runs between slices.
	DelaySlice time.Duration `yaml:"delay_slice"`
	Pause      time.Duration `yaml:"pause"`

	DeadOn    time.Duration `yaml:"dead_on"`
	TrickleOn time.Duration `yaml:"trickle_on"`

	// Fast charge: green on for Current_mA ms (clamped), off for the rest of FastPeriod.
	FastPeriod time.Duration `yaml:"fast_period"`
	FastMin_mA int32         `yaml:"fast_min_mA"`
	FastMax_mA int32         `yaml:"fast_max_mA"`

	ChargeOffBlink Pattern `yaml:"charge_off_blink"`
	FaultBlink     Pattern `yaml:"fault_blink"`
	LowPowerBlink  Pattern `yaml:"low_power_blink"`
	HaltBlink      Pattern `yaml:"halt_blink"`

	PowerOffGrace time.Duration `yaml:"power_off_grace"`

	// Poll is called before every delay slice. Nil disables it.
	Poll func() `yaml:"-"`
	// Override, when it yields an outcome at the top of a tick, ends the loop
	// with that outcome's exit sequence.
	Override <-chan Outcome `yaml:"-"`
	// OnTick observes each valid sample and the action chosen for it.
	OnTick func(rk818.Sample, Action) `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		BootOCV_mV:        3500,
		Charger:           rk818.DefaultChargerConfig(),
		CalibrationSettle: 300 * time.Millisecond,
		DelaySlice:        5 * time.Millisecond,
		Pause:             1000 * time.Millisecond,
		DeadOn:            100 * time.Millisecond,
		TrickleOn:         200 * time.Millisecond,
		FastPeriod:        2000 * time.Millisecond,
		FastMin_mA:        100,
		FastMax_mA:        1900,
		ChargeOffBlink:    Pattern{Times: 2, Period: 200 * time.Millisecond},
		FaultBlink:        Pattern{Times: 5, Period: 100 * time.Millisecond},
		LowPowerBlink:     Pattern{Times: 8, Period: 200 * time.Millisecond},
		HaltBlink:         Pattern{Times: math.MaxInt32, Period: 200 * time.Millisecond},
		PowerOffGrace:     1000 * time.Millisecond,
	}
}
