package md2site

import "runtime"

// MaxWorkers caps parallel document processing. Past this point workers
// contend on I/O instead of helping.
const MaxWorkers = 32

// ResolveWorkers clamps a requested worker count to [1, MaxWorkers].
// Zero or negative requests auto-size from the CPU count, which
// automaxprocs has already aligned with any container quota.
func ResolveWorkers(requested int) int {
	n := requested
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	return n
}
