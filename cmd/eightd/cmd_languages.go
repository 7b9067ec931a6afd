package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the report languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		for _, l := range catalog.All() {
			mark := ""
			if l.Native {
				mark = " (native)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s%s\n", l.Tag, l.Label, mark)
		}
		return nil
	},
}
