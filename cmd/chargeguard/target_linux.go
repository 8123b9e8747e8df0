//go:build linux

package main

import (
	"github.com/sirupsen/logrus"

	"chargeguard-go/drivers/rk818"
	"chargeguard-go/platform/linux"
	"chargeguard-go/services/config"
)

func openHardware(c config.Config) (*target, error) {
	bus, err := linux.OpenI2C(c.PMIC.Bus)
	if err != nil {
		return nil, err
	}
	t := &target{
		dev:      rk818.New(bus, rk818.Config{Address: c.PMIC.Address}),
		bus:      bus.String(),
		powerOff: linux.PowerOff,
		close:    func() { _ = bus.Close() },
	}
	// Missing LEDs are not fatal; the supervisor runs without them.
	if red, err := linux.OpenLED(c.LEDs.Red); err != nil {
		logrus.WithError(err).Warn("red indicator unavailable")
	} else if red != nil {
		t.red = red
	}
	if green, err := linux.OpenLED(c.LEDs.Green); err != nil {
		logrus.WithError(err).Warn("green indicator unavailable")
	} else if green != nil {
		t.green = green
	}
	return t, nil
}
