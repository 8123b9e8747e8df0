//go:build linux

// Package linux runs the supervisor from Linux userspace: the PMIC through
// an i2c-dev bus, indicators through the LED class and power-off through
// reboot(2).
package linux

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/sysfs"
)

var (
	initOnce sync.Once
	initErr  error
)

func hostInit() error {
	initOnce.Do(func() {
		_, initErr = host.Init()
	})
	return errors.Wrap(initErr, "periph host init")
}

// OpenI2C opens an i2c-dev bus by name or number ("0", "/dev/i2c-4", "").
// The returned bus satisfies tinygo's drivers.I2C.
func OpenI2C(name string) (i2c.BusCloser, error) {
	if err := hostInit(); err != nil {
		return nil, err
	}
	b, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", name)
	}
	return b, nil
}

// OpenLED looks up an LED class device (e.g. "red:indicator"). An empty
// name returns nil, nil.
func OpenLED(name string) (*LED, error) {
	if name == "" {
		return nil, nil
	}
	if err := hostInit(); err != nil {
		return nil, err
	}
	l, err := sysfs.LEDByName(name)
	if err != nil {
		return nil, errors.Wrapf(err, "led %q", name)
	}
	return NewLED(l), nil
}

// PowerOff syncs filesystems and asks the kernel to cut power. It only
// returns on failure.
func PowerOff() error {
	unix.Sync()
	return errors.Wrap(unix.Reboot(unix.LINUX_REBOOT_CMD_POWER_OFF), "reboot(POWER_OFF)")
}
