package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chargeguard-go/types"
)

// calibrate commits the current-sense offset and reads the current once the
// front end has settled.
func calibrate(t *target, settle time.Duration) (types.Calibration, error) {
	var c types.Calibration
	if err := t.dev.Probe(); err != nil {
		return c, err
	}
	cal, err := t.dev.CalibrationPoint()
	if err != nil {
		return c, err
	}
	off, err := t.dev.Calibrate()
	if err != nil {
		return c, err
	}
	logrus.WithFields(logrus.Fields{
		"coffset": off.Committed,
		"ioffset": off.IO,
		"poffset": off.Factory,
	}).Info("current offset committed")

	time.Sleep(settle)
	cur, err := t.dev.BatteryCurrent_mA()
	if err != nil {
		return c, err
	}
	return types.Calibration{
		VCalibLow:      cal.Low,
		VCalibHigh:     cal.High,
		FactoryOffset:  off.Factory,
		IOOffset:       off.IO,
		CommittedValue: off.Committed,
		Settled_mA:     cur,
	}, nil
}

func NewCalibrateCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "calibrate",
		GroupID: gBench,
		Short:   "Commit the current-sense offset and show the calibration data",
		Long: `Derive the current-sense offset from the chip's I/O offset and the factory
offset, write it, wait for the front end to settle and read the current once.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			t, err := openTarget(loadedConf)
			if err != nil {
				return err
			}
			defer t.close()

			c, err := calibrate(t, loadedConf.Supervisor.CalibrationSettle)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(c)
			}
			fmt.Printf("%s\n", bold("Voltage calibration:"))
			fmt.Printf("  vcalib0: %d (3000 mV)\n", c.VCalibLow)
			fmt.Printf("  vcalib1: %d (4200 mV)\n", c.VCalibHigh)
			fmt.Printf("%s\n", bold("Current offset:"))
			fmt.Printf("  ioffset %d + poffset %d -> coffset %d (0x%03x)\n", c.IOOffset, c.FactoryOffset, c.CommittedValue, c.CommittedValue)
			fmt.Printf("  settled current: %+d mA\n", c.Settled_mA)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
