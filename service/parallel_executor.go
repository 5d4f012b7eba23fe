package service

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/treediff/domain"
)

// ParallelExecutorImpl implements the ParallelExecutor interface. It holds
// no state and is safe for concurrent use.
type ParallelExecutorImpl struct{}

// NewParallelExecutor creates a new parallel executor
func NewParallelExecutor() domain.ParallelExecutor {
	return &ParallelExecutorImpl{}
}

// Execute runs tasks with at most limits.MaxConcurrency in flight. The first
// task error cancels the context of the remaining tasks and is returned.
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask, limits domain.ExecutionLimits) error {
	if len(tasks) == 0 {
		return nil
	}

	if limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limits.Timeout)
		defer cancel()
	}

	limit := limits.MaxConcurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("task %s cancelled: %w", task.Name(), err)
			}
			if err := task.Execute(gctx); err != nil {
				return fmt.Errorf("task %s failed: %w", task.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// SimpleTask is a basic implementation of ExecutableTask
type SimpleTask struct {
	name    string
	execute func(context.Context) error
}

// NewSimpleTask creates a new simple task
func NewSimpleTask(name string, execute func(context.Context) error) domain.ExecutableTask {
	return &SimpleTask{
		name:    name,
		execute: execute,
	}
}

// Name returns the name of the task
func (t *SimpleTask) Name() string {
	return t.name
}

// Execute runs the task
func (t *SimpleTask) Execute(ctx context.Context) error {
	if t.execute == nil {
		return fmt.Errorf("task %s has no execute function", t.name)
	}
	return t.execute(ctx)
}
