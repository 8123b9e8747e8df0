//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"

	"chargeguard-go/drivers/rk818"
	"chargeguard-go/errcode"
	"chargeguard-go/platform/rp2"
	"chargeguard-go/services/chargeguard"
	"chargeguard-go/services/heartbeat"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	b, err := rp2.Open(rp2.DefaultPlan)
	if err != nil {
		println("Error: board:", err.Error())
		return
	}
	log := b.Console

	dev := rk818.New(b.I2C, rk818.Config{Address: rp2.DefaultPlan.PMICAddr})
	hw := chargeguard.Hardware{
		PMIC:     dev,
		PowerOff: dev.PowerOff,
		Log:      log,
	}
	// A nil *PinLED must not become a non-nil interface.
	if b.Red != nil {
		hw.Red = b.Red
	}
	if b.Green != nil {
		hw.Green = b.Green
	}

	outcome, err := chargeguard.New(hw, chargeguard.DefaultConfig()).Run()
	if err != nil && errcode.Of(err) != errcode.InProgress {
		log.Errorf("charge supervisor: %s (%v)", outcome, err)
	}
	log.Infof("charge supervisor: %s", outcome)

	// Periodic stats.
	hb := &heartbeat.Service{PMIC: dev, Log: log, Interval: time.Second}
	hb.Run(context.Background())
}
