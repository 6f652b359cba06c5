package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DefaultWorkers is the pool size used when Options.Workers is unset.
const DefaultWorkers = 10

// Mode selects how items are dispatched.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
)

// ParseMode accepts "sequential"/"serial" and "parallel"/"pool". Empty means parallel.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "parallel", "pool":
		return ModeParallel, nil
	case "sequential", "serial":
		return ModeSequential, nil
	default:
		return "", fmt.Errorf("unknown dispatch mode %q (want sequential or parallel)", raw)
	}
}

type Options struct {
	Mode    Mode
	Workers int
}

// Result holds the output for one input item.
type Result[In any, Out any] struct {
	Index  int
	Input  In
	Output Out
	Err    error
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Mode == "" {
		o.Mode = ModeParallel
	}
	return o
}

// Run dispatches items using the configured mode.
func Run[In any, Out any](
	ctx context.Context,
	items []In,
	processor func(context.Context, In) (Out, error),
	onResult func(Result[In, Out]) error,
	opts Options,
) ([]Result[In, Out], error) {
	opts = opts.withDefaults()
	if opts.Mode == ModeSequential {
		return ProcessSequential(ctx, items, processor, onResult)
	}
	return ProcessAllWithCallback(ctx, items, processor, onResult, opts)
}

// ProcessAll runs the processor over all input items.
func ProcessAll[In any, Out any](
	ctx context.Context,
	items []In,
	processor func(context.Context, In) (Out, error),
	opts Options,
) ([]Result[In, Out], error) {
	return ProcessAllWithCallback(ctx, items, processor, nil, opts)
}

// ProcessAllWithCallback runs the processor over all input items on a fixed pool and invokes
// onResult as each item completes. The callback receives completion-order results and always
// runs on the calling goroutine. The returned slice is in input order.
//
// A processor error is recorded on that item only; siblings keep running. Only a callback
// error or context cancellation stops the run.
func ProcessAllWithCallback[In any, Out any](
	ctx context.Context,
	items []In,
	processor func(context.Context, In) (Out, error),
	onResult func(Result[In, Out]) error,
	opts Options,
) ([]Result[In, Out], error) {
	opts = opts.withDefaults()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]Result[In, Out], len(items))

	type job struct {
		idx int
		in  In
	}

	jobs := make(chan job, len(items))
	done := make(chan Result[In, Out], opts.Workers)

	// Everything is enqueued up front; workers drain the buffer.
	for i, item := range items {
		jobs <- job{idx: i, in: item}
	}
	close(jobs)

	var wg sync.WaitGroup
	workerFn := func() {
		defer wg.Done()
		for j := range jobs {
			if runCtx.Err() != nil {
				return
			}
			res := processOne(runCtx, j.idx, j.in, processor)
			select {
			case done <- res:
			case <-runCtx.Done():
				return
			}
		}
	}

	workers := min(opts.Workers, max(len(items), 1))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go workerFn()
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	var firstErr error
	for res := range done {
		out[res.Index] = res
		if onResult != nil && firstErr == nil {
			if err := onResult(res); err != nil {
				firstErr = err
				cancel()
			}
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessSequential runs items one at a time on the calling goroutine, invoking onResult
// after each completion.
func ProcessSequential[In any, Out any](
	ctx context.Context,
	items []In,
	processor func(context.Context, In) (Out, error),
	onResult func(Result[In, Out]) error,
) ([]Result[In, Out], error) {
	out := make([]Result[In, Out], 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := processOne(ctx, i, item, processor)
		out = append(out, res)
		if onResult != nil {
			if err := onResult(res); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func processOne[In any, Out any](
	ctx context.Context,
	idx int,
	item In,
	processor func(context.Context, In) (Out, error),
) Result[In, Out] {
	res, err := processor(ctx, item)
	return Result[In, Out]{
		Index:  idx,
		Input:  item,
		Output: res,
		Err:    err,
	}
}
