// Command ktopo shows the application topology of a Kubernetes namespace as a
// terminal UI, a JSON dump or an HTTP API.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/renato0307/ktopo/internal/config"
	"github.com/renato0307/ktopo/internal/logging"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

// cli carries the loaded settings from PersistentPreRunE to the commands
type cli struct {
	cfg   *config.Config
	dummy bool
}

// annotationLogStderr marks commands that log to stderr when no log file is
// configured. Others stay silent so the TUI owns the terminal.
const annotationLogStderr = "ktopo/log-stderr"

func main() {
	silenceKlog()
	defer klog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "ktopo",
		Short: "Browse the application topology of a namespace",
		Long: `ktopo - application topology for Kubernetes and OpenShift

ktopo groups the workloads of a namespace with their pods, services, routes
and Knative resources, rolls up pod status and draws the connections declared
through the app.openshift.io/connects-to annotation.

Settings are read from $XDG_CONFIG_HOME/ktopo/config.yaml, then KTOPO_*
environment variables, then flags.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Shutdown()
		},
		RunE: c.runTUI,
	}

	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&c.dummy, "dummy", false, "Use built-in sample data instead of connecting to a cluster")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "ktopo version %s (built %s)\n", BuildTag, BuildDate)
			},
		},
		newDumpCmd(c),
		newServeCmd(c),
		newConnectCmd(c),
		newContextsCmd(c),
		newConfigCmd(c),
	)
	return root
}

// load resolves the configuration and starts logging
func (c *cli) load(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	logCfg := cfg.Logging()
	if logCfg.FilePath == "" && cmd.Annotations[annotationLogStderr] == "true" {
		logCfg.Writer = cmd.ErrOrStderr()
	}
	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if logging.IsEnabled() {
		klog.SetSlogLogger(logging.Get().Slog())
	}

	logging.Debug("configuration loaded", "command", cmd.Name(), "namespace", cfg.Namespace, "dummy", c.dummy)
	return nil
}

// silenceKlog keeps client-go (e.g. RBAC errors during watch) off the terminal
func silenceKlog() {
	fs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Set("logtostderr", "false")
	_ = fs.Set("stderrthreshold", "FATAL")
	_ = fs.Set("v", "0")
}
