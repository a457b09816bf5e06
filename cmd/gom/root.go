package main

import (
	"os"

	"github.com/spf13/cobra"

	// Registers the demo device type.
	_ "github.com/virtlab/gom/devices/clkcounter"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gom",
	Short: "GOM CLI inspects device types and runs machine configurations.",
	Long: `GOM CLI can perform common tasks related to developing devices with ` +
		`the GOM object model: listing registered device types and their ` +
		`properties (types), building and resetting a machine from a ` +
		`configuration file (run), and serving a machine for inspection ` +
		`over HTTP (monitor).`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
