package topology

import (
	"context"
	"errors"
	"testing"

	"github.com/frudas24/dualhead/internal/layout"
	"github.com/frudas24/dualhead/internal/monitor"
	"github.com/frudas24/dualhead/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConfigurator returns a Configurator using fake for both boundaries.
func newTestConfigurator(fake *testutil.FakeDisplay) *Configurator {
	return New(fake, fake, zerolog.Nop())
}

// wantPlan is the expected 2560x1440 right-of plan for a rule.
func wantPlan(rule, primary, secondary string) layout.Plan {
	res := layout.Resolution{Width: 2560, Height: 1440}
	return layout.Plan{
		Rule: rule,
		Directives: []layout.Directive{
			{Output: primary, Primary: true, Resolution: res, Rotation: layout.RotateNormal, Position: layout.At(0, 0)},
			{Output: secondary, Resolution: res, Rotation: layout.RotateNormal, Position: layout.RelativeTo(layout.RightOf, primary)},
		},
	}
}

// TestReconcile_SecondaryConnected_Applies covers both outputs connected.
func TestReconcile_SecondaryConnected_Applies(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"), testutil.Connected("DP2"))
	c := newTestConfigurator(fake)

	res, err := c.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionApplied, res.Action)
	assert.Equal(t, "legacy", res.Rule)
	require.Len(t, fake.Applied, 1)
	if diff := cmp.Diff(wantPlan("legacy", "DP1", "DP2"), fake.Applied[0]); diff != "" {
		t.Fatalf("applied plan mismatch (-want +got):\n%s", diff)
	}
}

// TestReconcile_SecondaryMissing_NoOp covers a query without the trigger.
func TestReconcile_SecondaryMissing_NoOp(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"))
	c := newTestConfigurator(fake)

	res, err := c.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.Empty(t, fake.Applied)
}

// TestReconcile_QueryFails covers an unreachable display server.
func TestReconcile_QueryFails(t *testing.T) {
	cause := errors.New("Can't open display")
	fake := testutil.NewFakeDisplay()
	fake.QueryErr = cause
	c := newTestConfigurator(fake)

	_, err := c.Reconcile(context.Background())
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "query outputs: Can't open display", err.Error())
	assert.Empty(t, fake.Applied)
	assert.Equal(t, 1, fake.Queries)
}

// TestReconcile_HyphenatedDisconnected_NoOp covers a trigger reported disconnected.
func TestReconcile_HyphenatedDisconnected_NoOp(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Disconnected("DP-2"))
	c := newTestConfigurator(fake)

	res, err := c.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, "hyphenated", res.Rule)
	assert.Empty(t, fake.Applied)
}

// TestReconcile_UnknownState_NoOp verifies unknown connection state is unavailable.
func TestReconcile_UnknownState_NoOp(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP-1"), monitor.Output{Name: "DP-2", State: monitor.Unknown})
	c := newTestConfigurator(fake)

	res, err := c.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.Empty(t, fake.Applied)
}

// TestReconcile_OrderIndependent verifies the plan ignores query ordering.
func TestReconcile_OrderIndependent(t *testing.T) {
	orders := [][]monitor.Output{
		{testutil.Connected("DP-1"), testutil.Connected("DP-2"), testutil.Disconnected("HDMI-1")},
		{testutil.Connected("DP-2"), testutil.Disconnected("HDMI-1"), testutil.Connected("DP-1")},
		{testutil.Disconnected("HDMI-1"), testutil.Connected("DP-2")},
	}
	for _, outputs := range orders {
		fake := testutil.NewFakeDisplay(outputs...)
		_, err := newTestConfigurator(fake).Reconcile(context.Background())
		require.NoError(t, err)
		require.Len(t, fake.Applied, 1)
		if diff := cmp.Diff(wantPlan("hyphenated", "DP-1", "DP-2"), fake.Applied[0]); diff != "" {
			t.Fatalf("applied plan mismatch for %v (-want +got):\n%s", outputs, diff)
		}
	}
}

// TestReconcile_Idempotent verifies repeated runs issue the same call.
func TestReconcile_Idempotent(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"), testutil.Connected("DP2"))
	c := newTestConfigurator(fake)

	first, err1 := c.Reconcile(context.Background())
	second, err2 := c.Reconcile(context.Background())
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	require.Len(t, fake.Applied, 2)
	assert.Equal(t, fake.Applied[0], fake.Applied[1])
	assert.Equal(t, 2, fake.Queries)
}

// TestReconcile_IdempotentNoOp verifies repeated no-op runs stay no-ops.
func TestReconcile_IdempotentNoOp(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"))
	c := newTestConfigurator(fake)

	for i := 0; i < 2; i++ {
		res, err := c.Reconcile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ActionNone, res.Action)
	}
	assert.Empty(t, fake.Applied)
}

// TestReconcile_RequeriesEachRun verifies no state carries across runs.
func TestReconcile_RequeriesEachRun(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"), testutil.Connected("DP2"))
	c := newTestConfigurator(fake)

	_, err := c.Reconcile(context.Background())
	require.NoError(t, err)

	fake.Reported = []monitor.Output{testutil.Connected("DP1"), testutil.Disconnected("DP2")}
	res, err := c.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.Len(t, fake.Applied, 1)
}

// TestReconcile_ApplyFails_NamesOutput verifies apply errors carry output and mode.
func TestReconcile_ApplyFails_NamesOutput(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"), testutil.Connected("DP2"))
	fake.ApplyErr = errors.New("warning: output DP1 cannot use mode 2560x1440")
	c := newTestConfigurator(fake)

	res, err := c.Reconcile(context.Background())
	var ae *ApplyError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "DP1", ae.Output)
	assert.Equal(t, layout.Resolution{Width: 2560, Height: 1440}, ae.Mode)
	assert.Equal(t, layout.RotateNormal, ae.Rotation)
	assert.Equal(t, ActionNone, res.Action)
	assert.Contains(t, err.Error(), "output DP1 mode 2560x1440 rotation normal")
}

// TestReconcile_ApplyFails_DefaultsToTrigger verifies unattributed failures name the trigger.
func TestReconcile_ApplyFails_DefaultsToTrigger(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP-1"), testutil.Connected("DP-2"))
	fake.ApplyErr = errors.New("X Error of failed request: BadMatch")
	c := newTestConfigurator(fake)

	_, err := c.Reconcile(context.Background())
	var ae *ApplyError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "DP-2", ae.Output)
}

// TestReconcile_ApplyFails_IgnoresLongerNames verifies a longer connector name is not read as a plan output.
func TestReconcile_ApplyFails_IgnoresLongerNames(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"), testutil.Connected("DP2"))
	fake.ApplyErr = errors.New("xrandr: exit status 1: output eDP1 cannot use crtc 0")
	c := newTestConfigurator(fake)

	_, err := c.Reconcile(context.Background())
	var ae *ApplyError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "DP2", ae.Output)
}

// TestReconcile_ApplyFails_NameAtSentenceEnd verifies punctuation around a name still attributes it.
func TestReconcile_ApplyFails_NameAtSentenceEnd(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP-1"), testutil.Connected("DP-2"))
	fake.ApplyErr = errors.New("xrandr: cannot find mode 2560x1440 for DP-1.")
	c := newTestConfigurator(fake)

	_, err := c.Reconcile(context.Background())
	var ae *ApplyError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "DP-1", ae.Output)
}

// TestReconcile_EmptyOutputs_NoOp verifies a successful query listing nothing is a no-op.
func TestReconcile_EmptyOutputs_NoOp(t *testing.T) {
	fake := testutil.NewFakeDisplay()
	c := newTestConfigurator(fake)

	res, err := c.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionNone, res.Action)
	assert.Equal(t, "legacy", res.Rule)
	assert.Empty(t, fake.Applied)
	assert.Equal(t, 1, fake.Queries)
}

// TestReconcile_DryRun verifies dry runs plan without applying.
func TestReconcile_DryRun(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"), testutil.Connected("DP2"))
	c := newTestConfigurator(fake)
	c.DryRun = true

	res, err := c.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ActionPlanned, res.Action)
	assert.Equal(t, wantPlan("legacy", "DP1", "DP2"), res.Plan)
	assert.Empty(t, fake.Applied)
}

// TestReconcile_ForcedRule verifies a named rule skips the naming probe.
func TestReconcile_ForcedRule(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"), testutil.Connected("DP2"))
	c := newTestConfigurator(fake)
	c.Rule = "hyphenated"

	res, err := c.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hyphenated", res.Rule)
	assert.Equal(t, ActionNone, res.Action)
	assert.Empty(t, fake.Applied)
}

// TestReconcile_UnknownForcedRule verifies a bad rule name fails before querying.
func TestReconcile_UnknownForcedRule(t *testing.T) {
	fake := testutil.NewFakeDisplay(testutil.Connected("DP1"))
	c := newTestConfigurator(fake)
	c.Rule = "triple"

	_, err := c.Reconcile(context.Background())
	require.Error(t, err)
	var qe *QueryError
	assert.False(t, errors.As(err, &qe))
	assert.Zero(t, fake.Queries)
}
