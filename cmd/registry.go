package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"promptcraft_server/internal/registry"
)

var showContracts bool

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "List the components the renderer knows how to draw",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.New()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if showContracts {
			for _, c := range reg.Components() {
				fmt.Fprintf(out, "# %s\n%s\n\n", c.Name, c.Contract())
			}
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tDESCRIPTION")
		for _, c := range reg.Components() {
			fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Description)
		}
		return tw.Flush()
	},
}

func init() {
	registryCmd.Flags().BoolVar(&showContracts, "contracts", false, "print each component's props contract")
}
