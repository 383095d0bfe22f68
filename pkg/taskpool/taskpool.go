package taskpool

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Task is one unit of work. It receives the pool's context and returns a
// value or an error. Tasks run on exactly one lane each.
type Task[T any] func(ctx context.Context) (T, error)

// Result pairs a completed task's value with its error, if any.
type Result[T any] struct {
	// Index is the claim order of the task (0-based). Results arrive in
	// completion order, which may differ from claim order.
	Index int

	// Value is the task's return value. Zero when Err is set.
	Value T

	// Err is the task's error, or a *SourceError if the source failed.
	Err error
}

// SourceError reports a failure of the task source itself, as opposed to a
// failure of an individual task. It indicates a defect in the source and
// stops the pool.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("taskpool: source failed: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Run executes tasks from next with at most workers running concurrently.
// It returns a channel of results, one per claimed task, in completion
// order. The channel is closed once the source is exhausted and every
// claimed task has completed, or once ctx is cancelled.
//
// workers values below 1 are treated as 1.
func Run[T any](ctx context.Context, workers int, next func(ctx context.Context) (Task[T], error)) <-chan Result[T] {
	if workers < 1 {
		workers = 1
	}

	out := make(chan Result[T])

	// Source failures cancel the remaining lanes.
	poolCtx, cancel := context.WithCancel(ctx)

	var (
		mu    sync.Mutex
		index int
	)

	// claim pulls the next unclaimed task. The mutex is the only point of
	// mutual exclusion in the pool: each task is handed to exactly one lane.
	claim := func() (Task[T], int, error) {
		mu.Lock()
		defer mu.Unlock()
		task, err := next(poolCtx)
		if err != nil {
			return nil, 0, err
		}
		i := index
		index++
		return task, i, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if poolCtx.Err() != nil {
					return
				}

				task, idx, err := claim()
				if err == io.EOF {
					return
				}
				if err != nil {
					select {
					case out <- Result[T]{Index: idx, Err: &SourceError{Err: err}}:
					case <-poolCtx.Done():
					}
					cancel()
					return
				}

				value, err := runTask(poolCtx, task)

				select {
				case out <- Result[T]{Index: idx, Value: value, Err: err}:
				case <-poolCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()

	return out
}

// runTask runs a single task, converting a panic into an error so one
// misbehaving task cannot take down its lane and starve the source.
func runTask[T any](ctx context.Context, task Task[T]) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("taskpool: task panicked: %v", r)
		}
	}()
	return task(ctx)
}

// FromSlice adapts a slice of tasks into a lazy source for Run. The
// returned function is not safe for concurrent use on its own; Run
// serializes calls to it.
func FromSlice[T any](tasks []Task[T]) func(ctx context.Context) (Task[T], error) {
	var i int
	return func(ctx context.Context) (Task[T], error) {
		if i >= len(tasks) {
			return nil, io.EOF
		}
		task := tasks[i]
		i++
		return task, nil
	}
}

// Collect drains Run into a slice. The slice is in completion order.
func Collect[T any](ctx context.Context, workers int, next func(ctx context.Context) (Task[T], error)) []Result[T] {
	var results []Result[T]
	for res := range Run(ctx, workers, next) {
		results = append(results, res)
	}
	return results
}
