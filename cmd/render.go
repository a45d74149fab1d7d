package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"promptcraft_server/internal/registry"
	"promptcraft_server/internal/render"
	"promptcraft_server/internal/schema"
)

var renderFragment bool

var renderCmd = &cobra.Command{
	Use:   "render <schema.json|->",
	Short: "Render a saved layout schema to HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		var s schema.LayoutSchema
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid schema in %s: %w", args[0], err)
		}
		reg, err := registry.New()
		if err != nil {
			return err
		}
		r := render.New(reg)
		if renderFragment {
			return r.RenderHTML(cmd.OutOrStdout(), s.Components)
		}
		return r.Document(cmd.OutOrStdout(), s)
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderFragment, "fragment", false, "emit only the component tree, without the page wrapper")
}

// readInput reads a file, or stdin when name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", name, err)
	}
	return data, nil
}
