package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renato0307/ktopo/internal/logging"
	"github.com/renato0307/ktopo/internal/topology"
)

func newConnectCmd(c *cli) *cobra.Command {
	var (
		replace        string
		serviceBinding bool
	)

	cmd := &cobra.Command{
		Use:   "connect SOURCE TARGET",
		Short: "Connect two workloads",
		Long: `Connect two workloads, referenced by name or UID.

The target is added to the app.openshift.io/connects-to annotation of the
source. With --replace an existing connection is moved to the new target.
With --service-binding a ServiceBindingRequest binding the source to the
target backing service is created instead.`,
		Example: `  ktopo connect analytics-deployment wit-deployment
  ktopo connect analytics-deployment couchbase-operator --replace wit-deployment`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.dummy {
				return errors.New("connect needs a cluster and cannot run with --dummy")
			}

			src, err := c.openSource(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer src.close()

			data := c.pipeline(src, nil).Run().Data
			source, err := lookup(data, args[0])
			if err != nil {
				return err
			}
			target, err := lookup(data, args[1])
			if err != nil {
				return err
			}
			var replaceTarget *topology.Node
			if replace != "" {
				if replaceTarget, err = lookup(data, replace); err != nil {
					return err
				}
			}

			obj, err := topology.CreateConnection(cmd.Context(), src.manager.GetRuntimeClient(), source, target, replaceTarget, serviceBinding)
			if err != nil {
				return err
			}

			logging.Info("connection created", "source", source.Name, "target", target.Name, "serviceBinding", serviceBinding)
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s connected to %s\n", obj.GetKind(), obj.GetName(), target.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&replace, "replace", "", "Existing target to replace")
	cmd.Flags().BoolVar(&serviceBinding, "service-binding", false, "Create a ServiceBindingRequest instead of annotating")
	return cmd
}

func lookup(data *topology.Data, ref string) (*topology.Node, error) {
	node, ok := data.FindNode(ref)
	if !ok {
		return nil, fmt.Errorf("node %q not found", ref)
	}
	return node, nil
}
