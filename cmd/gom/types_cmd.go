package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/virtlab/gom/device"
	"github.com/virtlab/gom/object"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered types and their properties",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range object.TypeNames() {
			t, _ := object.Lookup(name)

			line := name
			if t.Parent != "" {
				line += " (" + t.Parent + ")"
			}
			if t.Abstract {
				line += " [abstract]"
			}
			cmd.Println(line)

			dc, ok := object.ClassFor(name).(*device.Class)
			if !ok {
				continue
			}

			for _, p := range dc.Props.All() {
				detail := p.Info.Name
				if p.SetDefault {
					detail += ", has default"
				}
				cmd.Println(fmt.Sprintf("\t%s (%s)", p.Name, detail))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
