package workflows

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

type fakeSweeper struct {
	calls atomic.Int32
	last  atomic.Value
	err   error
}

func (f *fakeSweeper) Sweep(_ context.Context, now time.Time) (int, error) {
	f.calls.Add(1)
	f.last.Store(now)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func TestSettlementWorkflow_SweepsThenContinuesAsNew(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	sw := &fakeSweeper{}
	env.RegisterWorkflowWithOptions(SettlementWorkflow, workflow.RegisterOptions{Name: SettlementWorkflowName})
	env.RegisterActivity(NewSettlementActivities(sw, clock.NewMock(), logger.Nop()))

	env.ExecuteWorkflow(SettlementWorkflow, SettlementParams{Interval: time.Minute, Iterations: 3})

	require.True(t, env.IsWorkflowCompleted())
	require.True(t, workflow.IsContinueAsNewError(env.GetWorkflowError()))
	require.EqualValues(t, 3, sw.calls.Load())
}

func TestSettlementWorkflow_ActivityFailureDoesNotStopLoop(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	sw := &fakeSweeper{err: errors.New("db down")}
	env.RegisterWorkflowWithOptions(SettlementWorkflow, workflow.RegisterOptions{Name: SettlementWorkflowName})
	env.RegisterActivity(NewSettlementActivities(sw, clock.NewMock(), logger.Nop()))

	env.ExecuteWorkflow(SettlementWorkflow, SettlementParams{Interval: time.Minute, Iterations: 2})

	require.True(t, env.IsWorkflowCompleted())
	require.True(t, workflow.IsContinueAsNewError(env.GetWorkflowError()))
	require.GreaterOrEqual(t, sw.calls.Load(), int32(2))
}

func TestSettlementWorkflow_RejectsZeroInterval(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterActivity(NewSettlementActivities(&fakeSweeper{}, clock.NewMock(), logger.Nop()))

	env.ExecuteWorkflow(SettlementWorkflow, SettlementParams{})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	require.False(t, workflow.IsContinueAsNewError(err))
}

func TestSettlementActivities_SweepUsesClock(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()

	clk := clock.NewMock()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clk.Add(at.Sub(clk.Now()))

	sw := &fakeSweeper{}
	acts := NewSettlementActivities(sw, clk, logger.Nop())
	env.RegisterActivity(acts)

	val, err := env.ExecuteActivity(acts.Sweep)
	require.NoError(t, err)

	var n int
	require.NoError(t, val.Get(&n))
	require.Equal(t, 1, n)
	require.True(t, sw.last.Load().(time.Time).Equal(at))
}
