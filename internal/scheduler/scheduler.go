package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Task is one step of a report run
type Task interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler runs its tasks one after another in the order they were added
type Scheduler struct {
	tasks []Task
}

// New creates an empty scheduler
func New() *Scheduler {
	return &Scheduler{
		tasks: make([]Task, 0),
	}
}

// AddTask appends a task to the run
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Tasks returns the task names in run order
func (s *Scheduler) Tasks() []string {
	names := make([]string, len(s.tasks))
	for i, task := range s.tasks {
		names[i] = task.Name()
	}
	return names
}

// Run executes every task in order and stops at the first failure or when
// ctx is canceled. Later tasks never run after a failure.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("Starting run", "task_count", len(s.tasks))
	started := time.Now()

	for _, task := range s.tasks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run canceled before %s: %w", task.Name(), err)
		}

		taskStarted := time.Now()
		if err := task.Run(ctx); err != nil {
			slog.Error("Error running task", "task", task.Name(), "error", err)
			return fmt.Errorf("task %s failed: %w", task.Name(), err)
		}
		slog.Debug("Task finished", "task", task.Name(), "duration", time.Since(taskStarted))
	}

	slog.Info("Run finished", "task_count", len(s.tasks), "duration", time.Since(started))
	return nil
}
