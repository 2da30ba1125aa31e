// Command koi demonstrates template definition, extension, capability plugins,
// scoped hooks and state machines, and inspects YAML template files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"koi/internal/config"
	"koi/pkg/koi"
	"koi/plugins/player"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "koi: %v\n", err)
		return 1
	}
	return 0
}

// app carries the engine built from the environment through a command run.
type app struct {
	engine  *koi.Engine
	runtime *config.Runtime
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}
	var dumpMetrics bool
	cmd := &cobra.Command{
		Use:           "koi",
		Short:         "Compose objects from templates, capabilities and scoped hooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dumpMetrics {
				cfg.Metrics = config.MetricsPrometheus
			}
			rt, err := config.Build(cfg, stderr)
			if err != nil {
				return err
			}
			a.runtime = rt
			a.engine = koi.NewEngine(rt.Options...)
			return a.engine.InstallPlugin(player.New())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !dumpMetrics || a.runtime == nil || a.runtime.Prometheus == nil {
				return nil
			}
			return writeMetrics(cmd.OutOrStdout(), a.runtime)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().BoolVar(&dumpMetrics, "dump-metrics", false, "Print Prometheus metrics after the command")
	cmd.AddCommand(
		newCharactersCmd(a),
		newHooksCmd(a),
		newChainCmd(a),
		newStateCmd(a),
		newInspectCmd(a),
	)
	return cmd
}

func writeMetrics(w io.Writer, rt *config.Runtime) error {
	families, err := rt.Prometheus.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// printMembers writes name=value lines in name order. Methods print as
// <method>.
func printMembers(w io.Writer, indent string, inst *koi.Instance) {
	for _, name := range inst.Names() {
		if name == koi.PluginsMember {
			continue
		}
		v, _ := inst.Get(name)
		if _, ok := inst.Method(name); ok {
			v = "<method>"
		}
		fmt.Fprintf(w, "%s%s=%v\n", indent, name, v)
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func joinArgs(args []string, fallback string) string {
	if len(args) == 0 {
		return fallback
	}
	return strings.Join(args, " ")
}
