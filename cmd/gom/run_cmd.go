package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/virtlab/gom/datarecording"
	"github.com/virtlab/gom/machine"
	"github.com/virtlab/gom/resettable"
	"github.com/virtlab/gom/tracing"
)

var (
	runConfigPath string
	runTrace      bool
	runRecordPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a machine from a configuration, realize it, and cold-reset it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := machine.Load(runConfigPath)
		if err != nil {
			return err
		}

		m, err := machine.Build(cfg)
		if err != nil {
			return err
		}

		if runTrace {
			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			m.AttachHook(tracing.NewLifecycleTracer(logger))
		}

		if runRecordPath != "" {
			backend := datarecording.New(runRecordPath)
			defer backend.Flush()

			m.AttachHook(datarecording.NewLifecycleRecorder(backend))
		}

		m.Reset(resettable.ColdReset)

		cmd.Printf("machine %s: %d device(s) realized and reset\n",
			m.Name(), len(m.Devices()))

		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "",
		"machine configuration file")
	runCmd.Flags().BoolVar(&runTrace, "trace", false,
		"log lifecycle events")
	runCmd.Flags().StringVar(&runRecordPath, "record", "",
		"record lifecycle events into the given SQLite database")
	_ = runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
}
