package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/renato0307/ktopo/internal/topology"
)

func newDumpCmd(c *cli) *cobra.Command {
	var (
		output string
		model  bool
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the topology once and exit",
		Long: `Print the topology once and exit.

By default the full transform result is printed: the graph (nodes, edges,
groups) and the topology map with every contributing resource. With --model
the layout model is printed instead: one node per workload, one per group and
the edges between them.`,
		Example: `  ktopo dump --dummy -o yaml
  ktopo dump -n my-app --model | jq '.nodes[].label'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output format %q (use json or yaml)", output)
			}

			src, err := c.openSource(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer src.close()

			result := c.pipeline(src, nil).Run()

			var v any = result.Data
			if model {
				v = topology.ModelFromData(result.Data)
			}
			return render(cmd, v, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&model, "model", false, "Print the layout model instead of the full topology")
	return cmd
}

// render writes v to the command output as JSON or YAML
func render(cmd *cobra.Command, v any, format string) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "json":
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported output format %q (use json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(out)
	return err
}
