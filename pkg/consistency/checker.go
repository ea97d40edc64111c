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

// Package consistency cross-checks the master's view of each tablet against
// each hosting tablet server's view, per spec §4.5. The verdict is a pure
// function of the Cluster snapshot and the filter patterns (spec P5).
package consistency

import (
	"fmt"

	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/ksckfilter"
	"github.com/jimmy-src/kudu/pkg/tserver"
)

// Severity classifies a Finding.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Finding is one diagnostic line attached to a tablet.
type Finding struct {
	Severity Severity
	Message  string
}

// TabletResult is the per-tablet verdict: its findings and whether any of
// them are warning/error level (spec: "a tablet is bad iff it produced any
// warning or error").
type TabletResult struct {
	TabletID string
	Findings []Finding
}

// Bad reports whether this tablet produced any warning- or error-level
// finding.
func (r TabletResult) Bad() bool {
	for _, f := range r.Findings {
		if f.Severity != Info {
			return true
		}
	}
	return false
}

// TableResult is the per-table verdict: bad iff any of its tablets is bad.
type TableResult struct {
	TableName string
	Tablets   []TabletResult
}

// Bad reports whether any tablet in this table is bad.
func (r TableResult) Bad() bool {
	for _, t := range r.Tablets {
		if t.Bad() {
			return true
		}
	}
	return false
}

// Options configures which checks CheckCluster runs.
type Options struct {
	CheckReplicaCount bool
	TableFilters      []string
	TabletFilters     []string
}

// CheckCluster evaluates every selected tablet and returns one TableResult
// per matching table, in table order. It performs no I/O: it only reads the
// immutable Cluster snapshot.
func CheckCluster(c *cluster.Cluster, opts Options) []TableResult {
	var out []TableResult
	for _, table := range c.Tables {
		if !ksckfilter.MatchesAny(opts.TableFilters, table.Name) {
			continue
		}
		tr := TableResult{TableName: table.Name}
		for _, tablet := range table.Tablets {
			if !ksckfilter.MatchesAny(opts.TabletFilters, tablet.ID) {
				continue
			}
			tr.Tablets = append(tr.Tablets, checkTablet(c, table, tablet, opts))
		}
		if tr.Tablets != nil {
			out = append(out, tr)
		}
	}
	return out
}

// checkTablet implements spec §4.5's per-tablet predicate evaluation.
func checkTablet(c *cluster.Cluster, table *cluster.Table, tablet *cluster.Tablet, opts Options) TabletResult {
	res := TabletResult{TabletID: tablet.ID}
	add := func(sev Severity, format string, args ...interface{}) {
		res.Findings = append(res.Findings, Finding{Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if opts.CheckReplicaCount && len(tablet.Replicas) != table.ReplicationFactor {
		add(Warning, "tablet %s has %d instead of %d replicas",
			tablet.ID, len(tablet.Replicas), table.ReplicationFactor)
	}

	var aliveCount, runningCount, leadersCount, followersCount int
	for _, replica := range tablet.Replicas {
		server, ok := c.Server(replica.ServerUUID)
		if !ok || !server.IsHealthy() {
			name := replica.ServerUUID
			if ok {
				name = server.String()
			}
			add(Warning, "tablet %s should have a replica on tablet server %s, but it is unavailable",
				tablet.ID, name)
		} else {
			aliveCount++
			state := server.ReplicaState(tablet.ID)
			switch state {
			case tserver.StateRunning:
				runningCount++
				add(Info, "tablet %s replica on %s is RUNNING", tablet.ID, server.String())
			case tserver.StateUnknown:
				add(Warning, "missing replica of tablet %s on tablet server %s", tablet.ID, server.String())
			default:
				tabletStatus := server.TabletStatusMap()[tablet.ID]
				add(Warning, "bad state on tablet server %s for tablet %s: %s (last status: %q, data state: %q)",
					server.String(), tablet.ID, state, tabletStatus.LastStatus, tabletStatus.DataState)
			}
		}

		switch replica.Role {
		case cluster.RoleLeader:
			leadersCount++
		case cluster.RoleFollower:
			followersCount++
		}
	}

	if leadersCount == 0 {
		add(Error, "no leader detected for tablet %s", tablet.ID)
	}
	add(Info, "tablet %s has %d leader and %d followers", tablet.ID, leadersCount, followersCount)

	majority := table.ReplicationFactor/2 + 1
	if aliveCount < majority {
		add(Error, "tablet %s does not have a majority of replicas on live tablet servers", tablet.ID)
	} else if runningCount < majority {
		add(Error, "tablet %s does not have a majority of replicas in RUNNING state", tablet.ID)
	}

	return res
}
