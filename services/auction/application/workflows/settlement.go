// Package workflows drives the settlement sweep as a long-running Temporal
// workflow, an alternative to the in-process cron scheduler.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/auctionhouse/pkg/logger"
)

const (
	// SettlementWorkflowName is the registered workflow type.
	SettlementWorkflowName = "AuctionSettlement"

	// SettlementWorkflowID is fixed so only one settlement loop runs per namespace.
	SettlementWorkflowID = "auction-settlement"

	defaultIterations = 100
)

// Sweeper settles closed auctions as of now.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// SettlementParams configures one run of the settlement loop. After
// Iterations sweeps the workflow continues as new to bound its history.
type SettlementParams struct {
	Interval   time.Duration
	Iterations int
}

// SettlementActivities holds the activity implementations.
type SettlementActivities struct {
	sweeper Sweeper
	clock   clock.Clock
	log     logger.Logger
}

// NewSettlementActivities returns activities that sweep at clk.Now().
func NewSettlementActivities(sweeper Sweeper, clk clock.Clock, log logger.Logger) *SettlementActivities {
	return &SettlementActivities{sweeper: sweeper, clock: clk, log: log}
}

// Sweep runs one settlement pass and returns the number of winners notified.
func (a *SettlementActivities) Sweep(ctx context.Context) (int, error) {
	n, err := a.sweeper.Sweep(ctx, a.clock.Now())
	if err != nil {
		return n, fmt.Errorf("settlement sweep: %w", err)
	}
	if n > 0 {
		a.log.InfoContext(ctx, "settlement activity finished", "notified", n)
	}
	return n, nil
}

// SettlementWorkflow sweeps every Interval. Activity failures are logged and
// the loop keeps going; the next tick picks up whatever was missed.
func SettlementWorkflow(ctx workflow.Context, p SettlementParams) error {
	if p.Interval <= 0 {
		return temporal.NewNonRetryableApplicationError("interval must be positive", "InvalidParams", nil)
	}
	iterations := p.Iterations
	if iterations <= 0 {
		iterations = defaultIterations
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: p.Interval,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})
	log := workflow.GetLogger(ctx)

	var a *SettlementActivities
	for i := 0; i < iterations; i++ {
		var notified int
		if err := workflow.ExecuteActivity(ctx, a.Sweep).Get(ctx, &notified); err != nil {
			log.Error("settlement activity failed", "error", err)
		}
		if err := workflow.Sleep(ctx, p.Interval); err != nil {
			return err
		}
	}

	return workflow.NewContinueAsNewError(ctx, SettlementWorkflowName, p)
}

// Register adds the settlement workflow and activities to w.
func Register(w worker.Registry, acts *SettlementActivities) {
	w.RegisterWorkflowWithOptions(SettlementWorkflow, workflow.RegisterOptions{Name: SettlementWorkflowName})
	w.RegisterActivity(acts)
}

// StartSettlement starts the settlement loop, or attaches to it when a run
// with SettlementWorkflowID is already open.
func StartSettlement(ctx context.Context, c client.Client, taskQueue string, interval time.Duration) (client.WorkflowRun, error) {
	if c == nil {
		return nil, errors.New("nil temporal client")
	}
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       SettlementWorkflowID,
		TaskQueue:                taskQueue,
		WorkflowIDConflictPolicy: enumspb.WORKFLOW_ID_CONFLICT_POLICY_USE_EXISTING,
	}, SettlementWorkflowName, SettlementParams{Interval: interval, Iterations: defaultIterations})
	if err != nil {
		return nil, fmt.Errorf("start settlement workflow: %w", err)
	}
	return run, nil
}
