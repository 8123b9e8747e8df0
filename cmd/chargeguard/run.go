package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chargeguard-go/drivers/rk818"
	"chargeguard-go/errcode"
	"chargeguard-go/services/chargeguard"
	"chargeguard-go/types"
	"chargeguard-go/x/timex"
)

func NewRunCommand() *cobra.Command {
	var (
		allowPowerOff bool
		asJSON        bool
		speed         int
	)
	cmd := &cobra.Command{
		Use:     "run",
		GroupID: gBasic,
		Short:   "Run the charge supervisor until it decides to boot or power off",
		Long: `Run the charge supervisor against the configured PMIC.

Without --allow-poweroff a power-off decision is only logged. SIGINT ends
supervision as if the battery were good enough to boot.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			t, err := openTarget(loadedConf)
			if err != nil {
				return err
			}
			defer t.close()

			log := logrus.WithFields(logrus.Fields{"bus": t.bus})
			cfg := loadedConf.Supervisor
			hw := chargeguard.Hardware{
				PMIC:     t.dev,
				Red:      t.red,
				Green:    t.green,
				PowerOff: t.powerOff,
				Halt:     func() {},
				Log:      log,
			}
			if t.sim == nil && !allowPowerOff {
				hw.PowerOff = func() error {
					log.Warn("dry run: not powering off (use --allow-poweroff)")
					return nil
				}
			}
			if t.sim != nil || !allowPowerOff {
				// Nothing will cut power; do not blink forever.
				cfg.HaltBlink.Times = 0
			}
			if t.sim != nil && speed > 1 {
				hw.Sleep = scaledSleeper{div: time.Duration(speed)}
			}

			override := make(chan chargeguard.Outcome, 1)
			cfg.Override = override
			done := make(chan struct{})
			defer close(done)
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigs)
			go func() {
				select {
				case <-sigs:
					log.Warn("interrupted, ending supervision")
					override <- chargeguard.ContinueBoot
				case <-done:
				}
			}()

			cfg.OnTick = func(s rk818.Sample, a chargeguard.Action) {
				log.WithFields(logrus.Fields{"action": a, "raw_status": s.RawStatus}).Debug("tick")
			}

			outcome, err := chargeguard.New(hw, cfg).Run()
			res := types.Outcome{Outcome: outcome.String(), TS: timex.NowMs()}
			if err != nil {
				res.Error = err.Error()
				res.Code = string(errcode.Of(err))
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			entry := log.WithField("outcome", outcome)
			if err != nil && errcode.Of(err) != errcode.InProgress {
				entry.WithError(err).Error("supervisor finished with an error")
				return nil
			}
			entry.Info("supervisor finished")
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&allowPowerOff, "allow-poweroff", false, "really power the system off when the battery is too low")
	f.BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	f.IntVar(&speed, "speed", 1, "with --sim, run delays this many times faster")
	return cmd
}
