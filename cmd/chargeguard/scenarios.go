package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chargeguard-go/drivers/rk818"
)

func NewScenariosCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "scenarios",
		GroupID: gBench,
		Short:   "List the simulated PMIC scenarios usable with --sim",
		Run: func(_ *cobra.Command, _ []string) {
			for _, n := range rk818.ScenarioNames() {
				fmt.Println(n)
			}
		},
	}
}
