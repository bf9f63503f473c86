package xrandr

import (
	"bytes"
	"context"
	"time"

	"github.com/frudas24/dualhead/internal/layout"
	"github.com/frudas24/dualhead/internal/monitor"
	"github.com/rs/zerolog"
)

const defaultPath = "xrandr"

// Client implements the query and apply boundaries over the xrandr binary.
type Client struct {
	Path    string
	Runner  Runner
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewClient returns a Client running path through os/exec.
func NewClient(path string, timeout time.Duration, logger zerolog.Logger) *Client {
	if path == "" {
		path = defaultPath
	}
	return &Client{
		Path:    path,
		Runner:  NewExecRunner(),
		Timeout: timeout,
		Logger:  logger,
	}
}

// Outputs lists outputs with their connection state.
func (c *Client) Outputs(ctx context.Context) ([]monitor.Output, error) {
	out, err := c.run(ctx, BuildQueryArgs())
	if err != nil {
		return nil, err
	}
	return ParseQuery(bytes.NewReader(out))
}

// Apply sends the whole plan as one xrandr invocation.
func (c *Client) Apply(ctx context.Context, plan layout.Plan) error {
	args, err := BuildApplyArgs(plan)
	if err != nil {
		return err
	}
	_, err = c.run(ctx, args)
	return err
}

// ApplyCommand returns the command line Apply would run.
func (c *Client) ApplyCommand(plan layout.Plan) (string, error) {
	args, err := BuildApplyArgs(plan)
	if err != nil {
		return "", err
	}
	return CommandLine(c.path(), args), nil
}

// run executes xrandr with the configured timeout and returns stdout.
// Stderr from a successful run is logged as a warning.
func (c *Client) run(ctx context.Context, args []string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	line := CommandLine(c.path(), args)
	c.Logger.Debug().Str("cmd", line).Msg("xrandr: run")
	runner := c.Runner
	if runner == nil {
		runner = NewExecRunner()
	}
	out, err := runner.Run(ctx, c.path(), args)
	if err != nil {
		return nil, err
	}
	if out.Stderr != "" {
		c.Logger.Warn().Str("cmd", line).Str("stderr", out.Stderr).Msg("xrandr: warnings on success")
	}
	return out.Stdout, nil
}

// path returns the binary to run.
func (c *Client) path() string {
	if c.Path == "" {
		return defaultPath
	}
	return c.Path
}
