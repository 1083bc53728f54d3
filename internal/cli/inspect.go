package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archweave/archweave/pkg/model"
)

// layerOrder fixes the display order of layer statistics.
var layerOrder = []model.Layer{
	model.LayerStrategy,
	model.LayerBusiness,
	model.LayerApplication,
	model.LayerTechnology,
	model.LayerPhysical,
	model.LayerMotivation,
	model.LayerImplementation,
	model.LayerJunction,
	model.LayerOther,
}

// newInspectCmd creates the inspect command. It reads a model in any
// supported dialect and prints its identity, statistics and import
// diagnostics without writing anything.
func newInspectCmd() *cobra.Command {
	opts := loadOpts{}

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Print model statistics and import diagnostics",
		Long: `Inspect a model file: print its identity, element counts per layer,
view statistics and any records skipped during import.

Examples:
  archweave inspect model.xml
  archweave inspect export.xml --from aris --typemap custom.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInspect(c, args[0], opts)
		},
	}

	addLoadFlags(cmd, &opts)

	return cmd
}

// runInspect loads the input model and prints a summary.
func runInspect(c *cobra.Command, input string, opts loadOpts) error {
	m, report, err := load(c.Context(), input, opts)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(m.Name))
	printKeyValue("Identifier", m.ID)
	if m.Documentation != "" {
		printKeyValue("Documentation", m.Documentation)
	}
	printKeyValue("Elements", fmt.Sprintf("%d", len(m.Elements())))
	printKeyValue("Relationships", fmt.Sprintf("%d", len(m.Relationships())))
	printKeyValue("Views", fmt.Sprintf("%d", len(m.Views())))

	byLayer := map[model.Layer]int{}
	for _, e := range m.Elements() {
		byLayer[e.Type.Layer()]++
	}
	if len(byLayer) > 0 {
		fmt.Println()
		printInfo("Elements by layer")
		for _, layer := range layerOrder {
			if n := byLayer[layer]; n > 0 {
				printDetail("%-16s %d", string(layer), n)
			}
		}
	}

	for _, v := range m.Views() {
		printDetail("view %q: %d nodes, %d connections", v.Name, len(v.Nodes()), len(v.Connections()))
	}

	if len(report.Skipped) > 0 {
		fmt.Println()
		reportSkipped(report)
	}
	return nil
}
