package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (the --device flag, or the firmware's board name)
// Val: raw YAML for that device, applied over the built-in defaults
// -----------------------------------------------------------------------------

const cfgPinephonePro = `
log_level: info
pmic:
  i2c_bus: "0"
  address: 0x1c
leds:
  red: "red:indicator"
  green: "green:indicator"
supervisor:
  boot_ocv_mV: 3500
  charger:
    charge_ctrl1: 0xb2
    charge_ctrl2: 0x4a
    charge_ctrl3: 0x0e
    usb_ctrl: 0xf2
`

// A bare RK818 on a USB-I2C adapter, no indicator LEDs.
const cfgBench = `
log_level: debug
pmic:
  i2c_bus: "1"
  address: 0x1c
leds:
  red: ""
  green: ""
`

var embeddedConfigs = map[string][]byte{
	"pinephone-pro": []byte(cfgPinephonePro),
	"bench":         []byte(cfgBench),
}
