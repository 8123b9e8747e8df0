// Package rp2 wires the supervisor to an RP2040/RP2350 board: one I2C
// controller to the PMIC, two indicator pins and a UART service console.
package rp2

// I2CPlan selects controller pins and clock.
type I2CPlan struct {
	ID       string // "i2c0" | "i2c1"
	SDA, SCL int
	Hz       uint32
}

type UARTPlan struct {
	ID     string // "uart0" | "uart1"
	TX, RX int
	Baud   uint32
}

// LEDPlan is a GPIO number; -1 means not fitted.
type LEDPlan struct {
	Pin       int
	ActiveLow bool
}

// Plan wires controllers to pins and sets operating parameters.
type Plan struct {
	I2C        I2CPlan
	Console    UARTPlan
	Red, Green LEDPlan
	PMICAddr   uint16
}

var DefaultPlan = Plan{
	I2C:      I2CPlan{ID: "i2c0", SDA: 12, SCL: 13, Hz: 400_000},
	Console:  UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 115_200},
	Red:      LEDPlan{Pin: 11},
	Green:    LEDPlan{Pin: 25},
	PMICAddr: 0x1c,
}
