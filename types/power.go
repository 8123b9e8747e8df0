package types

// ------------------------
// Battery / Charger (rk818)
// ------------------------

type PMICInfo struct {
	Driver string `json:"driver"` // "rk818"
	Bus    string `json:"bus"`
	Addr   uint16 `json:"addr"`
}

// BatteryValue is one decoded poll sample.
type BatteryValue struct {
	Voltage_mV int32 `json:"vbat_mV"`
	Current_mA int32 `json:"ibat_mA"` // positive = charging
	OCV_mV     int32 `json:"ocv_mV"`  // estimated, 250 mOhm pack resistance
	ChipOCV_mV int32 `json:"chip_ocv_mV"`
}

type ChargerValue struct {
	State             string `json:"state"` // "off", "dead", "trickle", "cc-cv", ...
	PluggedIn         bool   `json:"plugged_in"`
	USBExist          bool   `json:"usb_exist"`
	USBFault          bool   `json:"usb_fault"`
	BatExist          bool   `json:"bat_exist"`
	USBCurrentLimited bool   `json:"usb_ilim,omitempty"`
	USBVoltageLimited bool   `json:"usb_vlim,omitempty"`
	Status            uint8  `json:"status"` // raw SUP_STS
}

type Calibration struct {
	VCalibLow      uint16 `json:"vcalib0"`
	VCalibHigh     uint16 `json:"vcalib1"`
	FactoryOffset  uint8  `json:"poffset"`
	IOOffset       uint16 `json:"ioffset"`
	CommittedValue uint16 `json:"coffset"`
	Settled_mA     int32  `json:"settled_mA"` // battery current after the settle delay
}

// PowerReport is what `chargeguard sample --json` prints.
type PowerReport struct {
	PMIC    PMICInfo     `json:"pmic"`
	Battery BatteryValue `json:"battery"`
	Charger ChargerValue `json:"charger"`
	Action  string       `json:"action"` // what the supervisor would do next
	TS      int64        `json:"ts_ms"`
	Error   string       `json:"error,omitempty"`
}

// Outcome is the result of a supervisor run.
type Outcome struct {
	Outcome string `json:"outcome"` // "continue-boot" | "power-off"
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"` // errcode value
	TS      int64  `json:"ts_ms"`
}
