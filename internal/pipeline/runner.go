package pipeline

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kurswerk/transkriptor/internal/checkpoint"
	"github.com/kurswerk/transkriptor/internal/model"
)

// maxErrorLen bounds the failure message stored in the checkpoint.
const maxErrorLen = 200

// Counters summarizes one phase run. Logged for operators, never persisted.
type Counters struct {
	Completed int
	Skipped   int
	Failed    int
}

// Outcome applies the result of one collaborator invocation to the
// snapshot. Outcomes are built outside the writer lock and applied under it.
type Outcome func(*checkpoint.Snapshot)

// Task adapts one phase for the Runner: the skip decision, the collaborator
// invocation, and how a failure is recorded.
type Task interface {
	Name() string

	// Done reports whether the item already completed this phase and its
	// artifact is intact.
	Done(snap *checkpoint.Snapshot, item model.WorkItem) bool

	// Attempt invokes the phase's collaborator exactly once for the item.
	// Failures are returned as errors, never allowed to unwind further.
	Attempt(ctx context.Context, item model.WorkItem) (Outcome, error)

	// Fail builds the outcome recording msg as the item's error state.
	Fail(item model.WorkItem, msg string) Outcome
}

// Runner executes one phase across the work items in first-seen order,
// checkpointing after every single item. One poisoned item never stops the
// rest of the batch; only a checkpoint write failure aborts the run.
type Runner struct {
	Store *checkpoint.Store

	// Workers bounds concurrent items; values < 1 mean sequential. Snapshot
	// mutation and saving stay serialized through a single mutex regardless.
	Workers int
}

// Run processes items against snap, mutating it in place and returning the
// phase counters. Cancellation stops before the next item; the in-flight
// item finishes or fails and is still checkpointed.
func (r *Runner) Run(ctx context.Context, snap *checkpoint.Snapshot, items []model.WorkItem, task Task) (Counters, error) {
	log := zap.L().With(zap.String("phase", task.Name()))
	log.Info("phase starting", zap.Int("items", len(items)))

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu       sync.Mutex
		counters Counters
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx, item := range items {
		if gctx.Err() != nil {
			break
		}

		pos := idx + 1
		g.Go(func() error {
			ilog := log.With(zap.String("item", string(item.Key)), zap.Int("pos", pos), zap.Int("total", len(items)))

			mu.Lock()
			done := task.Done(snap, item)
			if done {
				counters.Skipped++
			}
			mu.Unlock()
			if done {
				ilog.Info("already complete, skipped")
				return nil
			}

			outcome, err := task.Attempt(gctx, item)
			if err != nil {
				msg := truncate(err.Error(), maxErrorLen)
				outcome = task.Fail(item, msg)
				ilog.Warn("item failed", zap.String("error", msg))
			} else {
				ilog.Info("item complete")
			}

			mu.Lock()
			outcome(snap)
			if err != nil {
				counters.Failed++
			} else {
				counters.Completed++
			}
			saveErr := r.Store.Save(snap)
			mu.Unlock()

			if saveErr != nil {
				// Without durable state the resume guarantee is gone.
				return eris.Wrap(saveErr, "runner: checkpoint save")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return counters, err
	}

	log.Info("phase finished",
		zap.Int("completed", counters.Completed),
		zap.Int("skipped", counters.Skipped),
		zap.Int("failed", counters.Failed),
	)
	return counters, ctx.Err()
}

// truncate limits s to n runes, keeping checkpoint entries readable.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
