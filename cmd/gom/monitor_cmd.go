package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/virtlab/gom/machine"
	"github.com/virtlab/gom/monitoring"
)

var (
	monitorConfigPath string
	monitorPort       int
	monitorDashboard  bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Build a machine and serve it for inspection over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := machine.Load(monitorConfigPath)
		if err != nil {
			return err
		}

		m, err := machine.Build(cfg)
		if err != nil {
			return err
		}

		monitor := monitoring.NewMonitor().WithPortNumber(monitorPort)
		monitor.RegisterMachine(m)

		if err := monitor.StartServer(); err != nil {
			return err
		}

		if monitorDashboard {
			if err := monitor.StartDashboard(); err != nil {
				cmd.PrintErrln("opening dashboard:", err)
			}
		}

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		<-interrupt

		return nil
	},
}

func init() {
	monitorCmd.Flags().StringVarP(&monitorConfigPath, "config", "c", "",
		"machine configuration file")
	monitorCmd.Flags().IntVarP(&monitorPort, "port", "p", 0,
		"port to listen on (0 picks a free port)")
	monitorCmd.Flags().BoolVar(&monitorDashboard, "dashboard", false,
		"open the device view in the default browser")
	_ = monitorCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(monitorCmd)
}
