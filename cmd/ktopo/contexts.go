package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/printers"

	"github.com/renato0307/ktopo/internal/k8s"
)

func newContextsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "contexts",
		Short: "List kubeconfig contexts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfg.Kubeconfig
			if path == "" {
				var err error
				if path, err = k8s.DefaultKubeconfigPath(); err != nil {
					return err
				}
			}

			contexts, err := k8s.ListContexts(path)
			if err != nil {
				return err
			}

			w := printers.GetNewTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "CURRENT\tNAME\tCLUSTER\tAUTHINFO\tNAMESPACE")
			for _, ctx := range contexts {
				current := ""
				if ctx.Current {
					current = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", current, ctx.Name, ctx.Cluster, ctx.User, ctx.Namespace)
			}
			return w.Flush()
		},
	}
}

func newConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
