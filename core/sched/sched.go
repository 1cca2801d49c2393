/*
Package sched runs batches of independent jobs concurrently.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sched

import (
	"runtime"
	"sync"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontpress.sched'
func tracer() tracing.Trace {
	return tracing.Select("fontpress.sched")
}

// Fanout runs a batch of independent tasks concurrently and collects their
// results in submission order. Concurrency is bounded by GOMAXPROCS.
//
// Every task runs to completion; a failing task does not cancel its
// siblings. If any task failed, Fanout returns the error of the
// earliest-submitted failing task, together with the partial results.
// Tasks must not share mutable state.
func Fanout[T any](tasks []func() (T, error)) ([]T, error) {
	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task func() (T, error)) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = task()
		}(i, task)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			tracer().Errorf("job %d of %d failed: %v", i+1, len(tasks), err)
			return results, err
		}
	}
	return results, nil
}
