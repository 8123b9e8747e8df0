package main

import (
	"time"

	"github.com/sirupsen/logrus"

	"chargeguard-go/drivers/rk818"
	"chargeguard-go/services/chargeguard"
	"chargeguard-go/services/config"
)

// target is an opened PMIC plus whatever indicators and power control the
// host offers.
type target struct {
	dev        *rk818.Device
	sim        *rk818.Sim
	bus        string
	red, green chargeguard.LED
	powerOff   func() error
	close      func()
}

func openTarget(c config.Config) (*target, error) {
	if simScenario != "" {
		sim, err := rk818.Scenario(simScenario)
		if err != nil {
			return nil, err
		}
		sim.Addr = c.PMIC.Address
		dev := rk818.New(sim, rk818.Config{Address: c.PMIC.Address})
		return &target{
			dev:      dev,
			sim:      sim,
			bus:      "sim:" + simScenario,
			red:      &logLED{name: "red"},
			green:    &logLED{name: "green"},
			powerOff: dev.PowerOff,
			close:    func() {},
		}, nil
	}
	return openHardware(c)
}

// logLED stands in for an indicator on hosts without one.
type logLED struct {
	name string
	on   bool
}

func (l *logLED) Set(on bool) {
	if on != l.on {
		logrus.WithField("led", l.name).Tracef("led %v", on)
	}
	l.on = on
}

func (l *logLED) Get() bool { return l.on }

// scaledSleeper runs simulated scenarios faster than real time.
type scaledSleeper struct{ div time.Duration }

func (s scaledSleeper) Sleep(d time.Duration) { time.Sleep(d / s.div) }
