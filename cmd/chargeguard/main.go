// Command chargeguard runs the RK818 charge supervisor from Linux userspace,
// or against a simulated chip for bench work.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chargeguard-go/errcode"
	"chargeguard-go/services/config"
)

var (
	logLevel    = ""
	configPath  = ""
	deviceID    = config.DefaultDevice
	simScenario = ""
)

var (
	gBasic     = "Basic:"
	gBench     = "Bench:"
	cmdGroups  = []string{gBasic, gBench}
	loadedConf config.Config
)

func setupLogger(level string) error {
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(lv)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.StampMilli,
		})
	}
	return nil
}

func handleCmdError(err error) {
	switch errcode.Of(err) {
	case errcode.NotFound:
		fmt.Fprintln(os.Stderr, "\nError: no RK818 answered on the configured bus")
		fmt.Fprintln(os.Stderr, "  - Check pmic.i2c_bus and pmic.address, or try --sim healthy")
	case errcode.UnknownDevice:
		fmt.Fprintln(os.Stderr, "\nError: unknown device; known devices:", config.Devices())
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chargeguard",
		Short: "chargeguard supervises RK818 battery charging before the OS boots",
		Long: `chargeguard decides whether a battery behind an RK818 PMIC can carry a boot,
waits on the charger while it cannot, and powers off when no charger is present.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			c, err := config.Load(deviceID, configPath)
			if err != nil {
				return err
			}
			if logLevel == "" {
				logLevel = c.LogLevel
			}
			if err := setupLogger(logLevel); err != nil {
				return err
			}
			loadedConf = c
			logrus.WithFields(logrus.Fields{
				"device": c.Device,
				"bus":    c.PMIC.Bus,
				"addr":   fmt.Sprintf("0x%02x", c.PMIC.Address),
				"sim":    simScenario,
			}).Debug("config loaded")
			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "", "log level (trace, debug, info, warn, error); overrides the config")
	globalFlags.StringVar(&configPath, "config", "", "YAML config file applied over the device defaults")
	globalFlags.StringVar(&deviceID, "device", deviceID, "device id selecting the embedded defaults")
	globalFlags.StringVar(&simScenario, "sim", "", "use a simulated PMIC instead of hardware")

	for _, g := range cmdGroups {
		cmd.AddGroup(&cobra.Group{ID: g, Title: g})
	}

	cmd.AddCommand(
		NewRunCommand(),
		NewSampleCommand(),
		NewCalibrateCommand(),
		NewScenariosCommand(),
	)
	return cmd
}
