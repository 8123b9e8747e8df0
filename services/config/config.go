// Package config resolves the host-side configuration: built-in defaults,
// then the embedded document for the selected device, then an optional
// YAML file.
package config

import (
	"bytes"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"chargeguard-go/drivers/rk818"
	"chargeguard-go/errcode"
	"chargeguard-go/services/chargeguard"
)

const DefaultDevice = "pinephone-pro"

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Devices lists the device IDs with an embedded config.
func Devices() []string {
	out := make([]string, 0, len(embeddedConfigs))
	for k := range embeddedConfigs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type PMIC struct {
	Bus     string `yaml:"i2c_bus"`
	Address uint16 `yaml:"address"`
}

// LEDs holds sysfs LED class names. Empty means not fitted.
type LEDs struct {
	Red   string `yaml:"red"`
	Green string `yaml:"green"`
}

type Config struct {
	Device     string             `yaml:"-"`
	LogLevel   string             `yaml:"log_level"`
	PMIC       PMIC               `yaml:"pmic"`
	LEDs       LEDs               `yaml:"leds"`
	Supervisor chargeguard.Config `yaml:"supervisor"`
}

func Default() Config {
	return Config{
		LogLevel:   "info",
		PMIC:       PMIC{Address: rk818.AddressDefault},
		Supervisor: chargeguard.DefaultConfig(),
	}
}

// Load builds the config for device, overlaying the file at path when path
// is non-empty. Unknown keys in the file are rejected.
func Load(device, path string) (Config, error) {
	if device == "" {
		device = DefaultDevice
	}
	cfg := Default()
	cfg.Device = device

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return cfg, &errcode.E{C: errcode.UnknownDevice, Op: "config", Msg: device}
	}
	if err := decode(bytes.NewReader(raw), &cfg); err != nil {
		return cfg, errors.Wrapf(err, "embedded config %q", device)
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, errors.Wrap(err, "open config")
		}
		defer f.Close()
		if err := decode(f, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == io.EOF {
		return nil
	}
	return err
}

// Validate rejects settings the supervisor cannot run with.
func (c Config) Validate() error {
	s := c.Supervisor
	bad := func(msg string) error {
		return &errcode.E{C: errcode.InvalidParams, Op: "config", Msg: msg}
	}
	switch {
	case c.PMIC.Address == 0 || c.PMIC.Address > 0x7f:
		return bad("pmic.address must be a 7-bit I2C address")
	case s.BootOCV_mV <= 0:
		return bad("supervisor.boot_ocv_mV must be positive")
	case s.DelaySlice <= 0:
		return bad("supervisor.delay_slice must be positive")
	case s.FastMin_mA <= 0 || s.FastMin_mA > s.FastMax_mA:
		return bad("supervisor.fast_min_mA/fast_max_mA out of order")
	case s.FastPeriod < time.Duration(s.FastMax_mA)*time.Millisecond:
		return bad("supervisor.fast_period shorter than fast_max_mA")
	}
	for _, p := range []chargeguard.Pattern{s.ChargeOffBlink, s.FaultBlink, s.LowPowerBlink, s.HaltBlink} {
		if p.Times < 0 || p.Period < 0 {
			return bad("blink pattern must not be negative")
		}
	}
	return nil
}
