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

// Package checksum implements the fan-out/fan-in checksum-verification
// engine of spec §4.4: it builds per-server work queues, picks a snapshot
// timestamp, drives bounded-concurrency scans across every replica of every
// selected tablet, and reduces the results into a mismatch report.
package checksum

import (
	"context"
	"io"
	"os"

	"github.com/jimmy-src/kudu/internal/logutil"
	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/ksckfilter"
	"github.com/jimmy-src/kudu/pkg/reporter"
	"github.com/jimmy-src/kudu/pkg/status"
	"github.com/jimmy-src/kudu/pkg/tserver"
	"github.com/jimmy-src/kudu/pkg/workqueue"
)

// Options is an alias for the tablet-server proxy's ChecksumOptions, which
// already carries every field the scheduler needs (spec §3's ChecksumOptions
// entity); keeping it defined once in pkg/tserver avoids an import cycle
// between the scheduler and the proxy contract it drives.
type Options = tserver.ChecksumOptions

// selected pairs a tablet with its owning table, the unit the scheduler
// fans out over.
type selected struct {
	table  *cluster.Table
	tablet *cluster.Tablet
}

// Scheduler builds the per-server queues, runs the bounded-concurrency scan
// phase, and reduces the results via Compare.
type Scheduler struct {
	Cluster       *cluster.Cluster
	TableFilters  []string
	TabletFilters []string
	Options       Options
	// Out receives the human-readable comparator output; defaults to
	// os.Stdout.
	Out io.Writer
}

// Run executes one checksum-verification pass and returns the aggregate
// outcome, per the precedence in spec §7: timed-out > corruption > aborted > ok.
func (s *Scheduler) Run(ctx context.Context) *status.Status {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	sel, numTabletReplicas := s.selectTablets()
	if numTabletReplicas == 0 {
		return status.New(status.NotFound,
			"no tablet replicas found matching table filters %v and tablet filters %v",
			s.TableFilters, s.TabletFilters)
	}

	rep := reporter.New(numTabletReplicas)
	queues, participating, err := s.buildQueues(sel)
	if err != nil {
		return status.New(status.InternalAssertion, "%s", err)
	}

	opts := s.Options
	if opts.UseSnapshot && opts.SnapshotTimestamp == tserver.CurrentTimestamp {
		ts, ok := pickSnapshotTimestamp(participating)
		if !ok {
			return status.New(status.ServiceUnavailable,
				"no healthy tablet server available to pick a snapshot timestamp")
		}
		opts.SnapshotTimestamp = ts
	}

	s.launchWorkers(ctx, queues, participating, opts, rep)

	timedOut := !rep.WaitFor(ctx, opts.Timeout)
	snapshot := rep.Snapshot()

	return Compare(out, s.Cluster, sel, snapshot, numTabletReplicas, timedOut)
}

// selectTablets builds the tablet_table_map of spec §4.4: every (tablet,
// table) pair whose table name and tablet id both match the configured
// filters, plus the total replica count across the selection.
func (s *Scheduler) selectTablets() ([]selected, int) {
	var sel []selected
	total := 0
	for _, table := range s.Cluster.Tables {
		if !ksckfilter.MatchesAny(s.TableFilters, table.Name) {
			continue
		}
		for _, tablet := range table.Tablets {
			if !ksckfilter.MatchesAny(s.TabletFilters, tablet.ID) {
				continue
			}
			sel = append(sel, selected{table: table, tablet: tablet})
			total += len(tablet.Replicas)
		}
	}
	return sel, total
}

// buildQueues assembles one bounded queue per participating tablet server,
// per spec §4.4 "Queue assembly".
func (s *Scheduler) buildQueues(
	sel []selected,
) (map[string]*workqueue.Queue, map[string]tserver.Proxy, error) {
	queues := make(map[string]*workqueue.Queue)
	participating := make(map[string]tserver.Proxy)

	totalReplicas := 0
	for _, e := range sel {
		totalReplicas += len(e.tablet.Replicas)
	}

	for _, e := range sel {
		for _, replica := range e.tablet.Replicas {
			server, ok := s.Cluster.Server(replica.ServerUUID)
			if !ok {
				return nil, nil, status.New(status.InternalAssertion,
					"replica of tablet %s references unknown tablet server %s",
					e.tablet.ID, replica.ServerUUID)
			}
			participating[replica.ServerUUID] = server
			q, ok := queues[replica.ServerUUID]
			if !ok {
				q = workqueue.New(totalReplicas)
				queues[replica.ServerUUID] = q
			}
			q.Put(workqueue.Item{Schema: e.table.Schema, TabletID: e.tablet.ID})
		}
	}
	return queues, participating, nil
}

// pickSnapshotTimestamp returns the current timestamp of the first healthy
// server it finds among participating, in unspecified order (spec §4.4,
// §9 open question: timestamp-dependent but all servers' clocks are
// monotonic cluster time and near-equal).
func pickSnapshotTimestamp(participating map[string]tserver.Proxy) (uint64, bool) {
	for _, server := range participating {
		if server.IsHealthy() {
			return server.CurrentTimestamp(), true
		}
	}
	return 0, false
}

// launchWorkers shuts down every per-server queue (so subsequent Gets never
// block) and starts up to opts.ScanConcurrency persistent worker slots per
// server. Each slot pops one item, runs it to completion, and loops until
// its server's queue drains -- the re-architected form of spec §9's
// self-refilling callback: the callback's ownership of (reporter, server,
// queue, tablet-id) moves from one launch to the next via the slot's loop
// body instead of via self-deletion.
func (s *Scheduler) launchWorkers(
	ctx context.Context,
	queues map[string]*workqueue.Queue,
	participating map[string]tserver.Proxy,
	opts Options,
	rep *reporter.Reporter,
) {
	for uuid, q := range queues {
		q.Shutdown()
		server := participating[uuid]

		concurrency := opts.ScanConcurrency
		if concurrency <= 0 {
			concurrency = 1
		}
		if q.Len() < concurrency {
			concurrency = q.Len()
		}
		for i := 0; i < concurrency; i++ {
			go runSlot(ctx, server, q, opts, rep)
		}
	}
}

// runSlot is one persistent worker: it keeps at most one scan in flight
// against server, chaining to the next queued item as soon as the previous
// one finishes.
func runSlot(
	ctx context.Context, server tserver.Proxy, q *workqueue.Queue, opts Options, rep *reporter.Reporter,
) {
	for {
		item, ok := q.BlockingGet()
		if !ok {
			return
		}
		tabletID := item.TabletID
		done := make(chan struct{})
		cb := &slotCallback{rep: rep, server: server, tabletID: tabletID, done: done}
		server.RunTabletChecksumScanAsync(ctx, tabletID, item.Schema, opts, cb)
		<-done
	}
}

// slotCallback is the per-launch closure-and-state pair described in spec
// §9: it owns exactly the (reporter, server, tabletID) needed to record one
// scan's outcome, and is discarded once Finished fires.
type slotCallback struct {
	rep      *reporter.Reporter
	server   tserver.Proxy
	tabletID string
	done     chan struct{}
}

func (c *slotCallback) Progress(rows, bytes uint64) {
	c.rep.ReportProgress(rows, bytes)
}

func (c *slotCallback) Finished(err error, checksum uint64) {
	if err != nil {
		logutil.Warningf(context.Background(), "checksum scan of tablet %s on %s failed: %s",
			c.tabletID, c.server.String(), err)
	}
	c.rep.ReportResult(c.tabletID, c.server.UUID(), reporter.Result{Err: err, Checksum: checksum})
	close(c.done)
}
