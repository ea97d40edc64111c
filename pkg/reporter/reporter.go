// Copyright 2025 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package reporter implements the thread-safe result aggregator described
// in spec §4.2: a mutex-guarded result map, atomic progress counters, and a
// countdown latch that WaitFor blocks on.
package reporter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jimmy-src/kudu/internal/logutil"
)

// Result is the outcome of one (tablet, replica) checksum scan.
type Result struct {
	// Err is nil on success. A non-nil Err means the scan failed; Checksum
	// is meaningless in that case.
	Err      error
	Checksum uint64
}

// TabletResultMap is a snapshot of all results reported so far, keyed by
// tablet-id at the outer level and replica server-uuid at the inner level,
// per spec invariant I4.
type TabletResultMap map[string]map[string]Result

// progressTickInterval bounds how long WaitFor can go without emitting a
// progress line, per spec §4.2 ("implementation must wake periodically
// (<=5s)").
const progressTickInterval = 5 * time.Second

// Reporter aggregates progress and results from many concurrent checksum
// workers and exposes a latch that drains to zero as responses arrive.
type Reporter struct {
	mu      sync.Mutex
	results TabletResultMap

	rows  atomic.Uint64
	bytes atomic.Uint64

	outstanding atomic.Int64
	done        chan struct{}
	closeDone   sync.Once
}

// New constructs a Reporter expecting expectedResponses (tablet, replica)
// results before its latch drains.
func New(expectedResponses int) *Reporter {
	r := &Reporter{
		results: make(TabletResultMap),
		done:    make(chan struct{}),
	}
	r.outstanding.Store(int64(expectedResponses))
	if expectedResponses <= 0 {
		r.closeDone.Do(func() { close(r.done) })
	}
	return r
}

// ReportProgress is a non-blocking monotonic add to the rows/bytes
// counters, satisfying P6 (progress counters never decrease).
func (r *Reporter) ReportProgress(rows, bytes uint64) {
	r.rows.Add(rows)
	r.bytes.Add(bytes)
}

// ReportResult records the terminal result for one (tabletID, replicaUUID)
// pair and counts down the outstanding latch by one. Reporting the same
// pair twice is a programming error (spec §9 open question: "undefined;
// implementations should assert") and panics rather than silently
// overwriting.
func (r *Reporter) ReportResult(tabletID, replicaUUID string, result Result) {
	r.mu.Lock()
	byReplica, ok := r.results[tabletID]
	if !ok {
		byReplica = make(map[string]Result)
		r.results[tabletID] = byReplica
	}
	if _, dup := byReplica[replicaUUID]; dup {
		r.mu.Unlock()
		panic("reporter: duplicate result for tablet " + tabletID + " replica " + replicaUUID)
	}
	byReplica[replicaUUID] = result
	r.mu.Unlock()

	if r.outstanding.Add(-1) == 0 {
		r.closeDone.Do(func() { close(r.done) })
	}
}

// WaitFor blocks until the latch reaches zero or timeout elapses, returning
// true iff the latch drained. While waiting it wakes at least every 5
// seconds to log a human-readable progress line.
func (r *Reporter) WaitFor(ctx context.Context, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	start := time.Now()
	ticker := time.NewTicker(progressTickInterval)
	defer ticker.Stop()

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			select {
			case <-r.done:
				return true
			default:
				return false
			}
		}
		wait := remaining
		if wait > progressTickInterval {
			wait = progressTickInterval
		}
		timer := time.NewTimer(wait)
		select {
		case <-r.done:
			timer.Stop()
			return true
		case <-timer.C:
			r.logProgress(ctx, start)
		}
	}
}

func (r *Reporter) logProgress(ctx context.Context, start time.Time) {
	logutil.Infof(ctx, "elapsed %.0fs: %d replicas remaining, %d bytes, %d rows summed",
		time.Since(start).Seconds(), r.outstanding.Load(), r.bytes.Load(), r.rows.Load())
}

// Snapshot returns a consistent copy of the result map accumulated so far.
func (r *Reporter) Snapshot() TabletResultMap {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(TabletResultMap, len(r.results))
	for tabletID, byReplica := range r.results {
		inner := make(map[string]Result, len(byReplica))
		for uuid, res := range byReplica {
			inner[uuid] = res
		}
		out[tabletID] = inner
	}
	return out
}

// Outstanding returns the number of (tablet, replica) pairs not yet
// reported, satisfying invariant I5.
func (r *Reporter) Outstanding() int64 {
	return r.outstanding.Load()
}

// Progress returns the current summed rows and bytes counters.
func (r *Reporter) Progress() (rows, bytes uint64) {
	return r.rows.Load(), r.bytes.Load()
}
