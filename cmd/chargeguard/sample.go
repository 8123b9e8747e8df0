package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"chargeguard-go/drivers/rk818"
	"chargeguard-go/services/chargeguard"
	"chargeguard-go/types"
	"chargeguard-go/x/timex"
)

// report reads one sample and what the supervisor would do with it.
func report(t *target, bootOCV int32) (types.PowerReport, rk818.Sample, error) {
	r := types.PowerReport{
		PMIC: types.PMICInfo{Driver: "rk818", Bus: t.bus, Addr: t.dev.Address()},
		TS:   timex.NowMs(),
	}
	if err := t.dev.Probe(); err != nil {
		return r, rk818.Sample{}, err
	}
	cal, err := t.dev.CalibrationPoint()
	if err != nil {
		return r, rk818.Sample{}, err
	}
	s := t.dev.Sample(cal)
	if !s.Valid {
		r.Error = s.Err.Error()
		return r, s, nil
	}
	r.Battery = types.BatteryValue{Voltage_mV: s.Voltage_mV, Current_mA: s.Current_mA, OCV_mV: s.OCV_mV}
	if ocv, err := t.dev.ChipOCV_mV(cal); err == nil {
		r.Battery.ChipOCV_mV = ocv
	}
	r.Charger = types.ChargerValue{
		State:             s.State.String(),
		PluggedIn:         s.PluggedIn,
		USBExist:          s.USBExist,
		USBFault:          s.USBFault,
		BatExist:          s.BatExist,
		USBCurrentLimited: s.USBCurrentLimited,
		USBVoltageLimited: s.USBVoltageLimited,
		Status:            s.RawStatus,
	}
	r.Action = chargeguard.Decide(s, bootOCV).String()
	return r, s, nil
}

func NewSampleCommand() *cobra.Command {
	var (
		asJSON bool
		dump   bool
	)
	cmd := &cobra.Command{
		Use:     "sample",
		GroupID: gBasic,
		Short:   "Read and decode one battery sample",
		RunE: func(_ *cobra.Command, _ []string) error {
			t, err := openTarget(loadedConf)
			if err != nil {
				return err
			}
			defer t.close()

			r, s, err := report(t, loadedConf.Supervisor.BootOCV_mV)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(r); err != nil {
					return err
				}
			} else {
				printSample(r, s)
			}
			if dump {
				return printDump(t.dev)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&dump, "dump", false, "also dump all PMIC registers")
	return cmd
}

func printSample(r types.PowerReport, s rk818.Sample) {
	fmt.Printf("%s %s @ 0x%02x\n", bold("PMIC:"), r.PMIC.Bus, r.PMIC.Addr)
	if !s.Valid {
		fmt.Printf("  %s\n", color.RedString("sample invalid: %s", r.Error))
		return
	}
	fmt.Printf("%s\n", bold("Battery:"))
	fmt.Printf("  Voltage: %d mV (OCV %d mV, chip OCV %d mV)\n", s.Voltage_mV, s.OCV_mV, r.Battery.ChipOCV_mV)
	fmt.Printf("  Current: %+d mA\n", s.Current_mA)
	fmt.Printf("  Present: %s\n", bool2Text(s.BatExist))
	fmt.Printf("%s\n", bold("Charger:"))
	fmt.Printf("  State: %s\n", stateText(s.State))
	fmt.Printf("  USB present: %s, usable: %s, plugged in: %s\n",
		bool2Text(s.USBExist), bool2Text(!s.USBFault), bool2Text(s.PluggedIn))
	fmt.Printf("  Status register: 0x%02x\n", s.RawStatus)
	fmt.Printf("%s %s\n", bold("Next action:"), r.Action)
}

func stateText(st rk818.ChargeState) string {
	switch {
	case st.Fault():
		return color.New(color.Bold, color.FgRed).Sprint(st)
	case st == rk818.ChargeOff:
		return color.YellowString(st.String())
	default:
		return color.GreenString(st.String())
	}
}

func printDump(d *rk818.Device) error {
	regs := make([]byte, int(rk818.RegLast)+1)
	if err := d.Dump(0, rk818.RegLast, regs); err != nil {
		return err
	}
	var b strings.Builder
	for i, v := range regs {
		if i%16 == 0 {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%02x:", i)
		}
		fmt.Fprintf(&b, " %02x", v)
	}
	fmt.Println(bold("Registers:"))
	fmt.Println(b.String())
	return nil
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
