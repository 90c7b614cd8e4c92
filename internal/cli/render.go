package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowmetric/flowmetric/pkg/render"
	"github.com/flowmetric/flowmetric/pkg/workflow"
)

// renderCommand creates the "render" command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format     string
		outputPath string
		detailed   bool
		wrapAt     int
	)

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a workflow graph to DOT, SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := workflow.ReadGraphFile(args[0])
			if err != nil {
				return err
			}

			dot := render.ToDOT(g, render.Options{Detailed: detailed, WrapAt: wrapAt})

			if outputPath == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				outputPath = base + "." + format
			}

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = render.RenderSVG(dot)
			case "png":
				data, err = render.RenderPNG(dot)
			default:
				return fmt.Errorf("unknown format %q (want dot, svg, or png)", format)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered %d node(s)", len(g.Nodes))
			printFile(outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, or png")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default derived from input)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "prefix node labels with their index")
	cmd.Flags().IntVar(&wrapAt, "wrap", 18, "wrap node labels at this width, 0 to disable")

	return cmd
}
