//go:build rp2040 || rp2350

package rp2

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"

	"chargeguard-go/errcode"
)

// Board is the configured hardware.
type Board struct {
	I2C     drivers.I2C
	Red     *PinLED // nil if not fitted
	Green   *PinLED
	Console *Console
}

// Open configures the controllers named in p. The console comes up first so
// later failures can be reported on it.
func Open(p Plan) (*Board, error) {
	b := &Board{}

	var u *uartx.UART
	switch p.Console.ID {
	case "uart0":
		u = uartx.UART0
	case "uart1":
		u = uartx.UART1
	}
	if u != nil {
		// Defaults inside uartx apply if zero.
		_ = u.Configure(uartx.UARTConfig{
			BaudRate: p.Console.Baud,
			TX:       machine.Pin(p.Console.TX),
			RX:       machine.Pin(p.Console.RX),
		})
		b.Console = NewConsole(u)
	}

	var hw *machine.I2C
	switch p.I2C.ID {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return b, &errcode.E{C: errcode.InvalidParams, Op: "rp2.Open", Msg: "i2c " + p.I2C.ID}
	}
	sda := machine.Pin(p.I2C.SDA)
	scl := machine.Pin(p.I2C.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := hw.Configure(machine.I2CConfig{SCL: scl, SDA: sda, Frequency: p.I2C.Hz}); err != nil {
		return b, errcode.Wrap(errcode.BusError, "rp2.Open", err)
	}
	b.I2C = hw

	b.Red = outputLED(p.Red)
	b.Green = outputLED(p.Green)
	return b, nil
}

func outputLED(p LEDPlan) *PinLED {
	if p.Pin < 0 {
		return nil
	}
	pin := machine.Pin(p.Pin)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	l := &PinLED{Pin: pin, ActiveLow: p.ActiveLow}
	l.Set(false)
	return l
}
