package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/frudas24/dualhead/internal/config"
	"github.com/frudas24/dualhead/internal/layout"
	dlog "github.com/frudas24/dualhead/internal/log"
	"github.com/frudas24/dualhead/internal/topology"
	"github.com/frudas24/dualhead/internal/x11randr"
	"github.com/frudas24/dualhead/internal/xrandr"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

const (
	exitOK          = 0
	exitFailed      = 1
	exitApplyFailed = 2
)

// display bundles the query and apply boundaries for one backend.
type display struct {
	Querier topology.Querier
	Applier topology.Applier
	// Command renders the apply call for dry runs.
	Command func(layout.Plan) (string, error)
}

// env is everything execute touches outside the process.
type env struct {
	stdout io.Writer
	stderr io.Writer
	load   func() (config.Config, error)
	open   func(config.Config, zerolog.Logger) display
}

// defaultEnv wires the real environment, xrandr and X server.
func defaultEnv() env {
	return env{
		stdout: os.Stdout,
		stderr: os.Stderr,
		load:   config.Load,
		open:   openDisplay,
	}
}

// openDisplay selects the query backend; apply always goes through xrandr.
func openDisplay(cfg config.Config, logger zerolog.Logger) display {
	client := xrandr.NewClient(cfg.XrandrPath, cfg.Timeout, logger.With().Str("component", "xrandr").Logger())
	d := display{Querier: client, Applier: client, Command: client.ApplyCommand}
	if cfg.Backend == config.BackendX11 {
		d.Querier = x11randr.New(cfg.Display, cfg.Timeout)
	}
	return d
}

type options struct {
	dryRun bool
	rule   string
	debug  bool
}

// execute runs the command tree and maps the outcome to an exit code.
func execute(args []string, e env) int {
	root := newRootCmd(e)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(e.stderr, "dualhead: %v\n", err)
	var ae *topology.ApplyError
	if errors.As(err, &ae) {
		return exitApplyFailed
	}
	return exitFailed
}

// newRootCmd builds the dualhead command tree.
func newRootCmd(e env) *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:   "dualhead",
		Short: "Apply the two-monitor layout when the secondary output is connected",
		Long: "dualhead queries the display server once and, if the known secondary output is\n" +
			"connected, applies the fixed primary-left/secondary-right layout in a single call.\n" +
			"Concurrent runs against the same display are not serialised; the last apply wins.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reconcile(cmd.Context(), e, opts)
		},
	}
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable verbose debug logging")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the layout command instead of applying it")
	root.Flags().StringVar(&opts.rule, "rule", "", "Use the named layout rule instead of probing output names")

	root.AddCommand(
		newOutputsCmd(e, &opts),
		newRulesCmd(e),
		newVersionCmd(e),
	)
	return root
}

// setup loads configuration and configures logging.
func setup(e env, opts options) (config.Config, zerolog.Logger, error) {
	cfg, err := e.load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}
	level := cfg.LogLevel
	if opts.debug {
		level = "debug"
	}
	dlog.Configure(dlog.Config{Level: level, Output: e.stderr, Console: true})
	logger := dlog.WithComponent("dualhead")
	logger.Debug().Str("backend", cfg.Backend).Str("xrandr", cfg.XrandrPath).Dur("timeout", cfg.Timeout).Msg("config: loaded")
	return cfg, logger, nil
}

// reconcile runs one reconcile pass.
func reconcile(ctx context.Context, e env, opts options) error {
	cfg, logger, err := setup(e, opts)
	if err != nil {
		return err
	}
	d := e.open(cfg, logger)

	c := topology.New(d.Querier, d.Applier, dlog.WithComponent("topology"))
	c.Rule = opts.rule
	c.DryRun = opts.dryRun

	res, err := c.Reconcile(ctx)
	if err != nil {
		return err
	}
	if res.Action == topology.ActionPlanned && d.Command != nil {
		line, err := d.Command(res.Plan)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, line)
	}
	return nil
}

// newOutputsCmd lists the outputs the display server reports.
func newOutputsCmd(e env, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "List outputs and their connection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(e, *opts)
			if err != nil {
				return err
			}
			outputs, err := e.open(cfg, logger).Querier.Outputs(cmd.Context())
			if err != nil {
				return &topology.QueryError{Err: err}
			}
			for _, o := range outputs {
				fmt.Fprintln(e.stdout, o.String())
			}
			return nil
		},
	}
}

// newRulesCmd prints the compiled-in layout rules.
func newRulesCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the compiled-in layout rules as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := layout.Marshal(layout.Rules())
			if err != nil {
				return err
			}
			_, err = e.stdout.Write(data)
			return err
		},
	}
}

// newVersionCmd prints the build version.
func newVersionCmd(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.stdout, "dualhead %s\n", version)
		},
	}
}
