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

package checksum_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jimmy-src/kudu/pkg/checksum"
	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/status"
	"github.com/jimmy-src/kudu/pkg/tserver"
	"github.com/jimmy-src/kudu/pkg/tserver/tservertest"
	"github.com/stretchr/testify/require"
)

// threeReplicaCluster builds the scenario-1-style cluster: one table "t",
// one tablet "tb", replication factor 3, three servers s1/s2/s3.
func threeReplicaCluster() (*cluster.Cluster, map[string]*tservertest.FakeProxy) {
	s1 := tservertest.New("s1", "s1:7050")
	s2 := tservertest.New("s2", "s2:7050")
	s3 := tservertest.New("s3", "s3:7050")
	for _, s := range []*tservertest.FakeProxy{s1, s2, s3} {
		s.SetTimestamp(100)
	}

	table := &cluster.Table{Name: "t", ReplicationFactor: 3}
	tablet := &cluster.Tablet{
		ID:    "tb",
		Table: table,
		Replicas: []cluster.Replica{
			{ServerUUID: "s1", Role: cluster.RoleLeader},
			{ServerUUID: "s2", Role: cluster.RoleFollower},
			{ServerUUID: "s3", Role: cluster.RoleFollower},
		},
	}
	table.Tablets = []*cluster.Tablet{tablet}

	servers := map[string]tserver.Proxy{"s1": s1, "s2": s2, "s3": s3}
	clus := cluster.New([]*cluster.Table{table}, servers)
	return clus, map[string]*tservertest.FakeProxy{"s1": s1, "s2": s2, "s3": s3}
}

func TestScheduler_HealthyClusterNoMismatches(t *testing.T) {
	clus, servers := threeReplicaCluster()
	for _, s := range servers {
		s.Scans["tb"] = tservertest.ScanResult{Checksum: 0xDEAD}
	}

	var out bytes.Buffer
	sched := checksum.Scheduler{Cluster: clus, Options: checksum.DefaultOptions(), Out: &out}
	sched.Options.Timeout = 2 * time.Second
	result := sched.Run(context.Background())

	require.True(t, result.Ok(), "%v", result)
	require.Contains(t, out.String(), "Checksum: 57005")
	require.Equal(t, 3, countLines(out.String(), "Checksum:"))
}

func TestScheduler_ChecksumMismatch(t *testing.T) {
	clus, servers := threeReplicaCluster()
	servers["s1"].Scans["tb"] = tservertest.ScanResult{Checksum: 0xDEAD}
	servers["s2"].Scans["tb"] = tservertest.ScanResult{Checksum: 0xDEAD}
	servers["s3"].Scans["tb"] = tservertest.ScanResult{Checksum: 0xBEEF}

	var out bytes.Buffer
	sched := checksum.Scheduler{Cluster: clus, Options: checksum.DefaultOptions(), Out: &out}
	sched.Options.Timeout = 2 * time.Second
	result := sched.Run(context.Background())

	require.Equal(t, status.Corruption, result.Kind)
	require.Contains(t, out.String(), ">> Mismatch found in table t tablet tb")
}

func TestScheduler_OneReplicaErrors(t *testing.T) {
	clus, servers := threeReplicaCluster()
	servers["s1"].Scans["tb"] = tservertest.ScanResult{Checksum: 0xDEAD}
	servers["s2"].Scans["tb"] = tservertest.ScanResult{Err: errors.New("io")}
	servers["s3"].Scans["tb"] = tservertest.ScanResult{Checksum: 0xDEAD}

	var out bytes.Buffer
	sched := checksum.Scheduler{Cluster: clus, Options: checksum.DefaultOptions(), Out: &out}
	sched.Options.Timeout = 2 * time.Second
	result := sched.Run(context.Background())

	require.Equal(t, status.Aborted, result.Kind)
	require.Contains(t, out.String(), "Error: io")
}

func TestScheduler_Timeout(t *testing.T) {
	clus, servers := threeReplicaCluster()
	servers["s1"].Scans["tb"] = tservertest.ScanResult{Checksum: 0xDEAD}
	servers["s2"].Scans["tb"] = tservertest.ScanResult{Checksum: 0xDEAD}
	servers["s3"].Scans["tb"] = tservertest.ScanResult{Hang: true}

	var out bytes.Buffer
	sched := checksum.Scheduler{Cluster: clus, Options: checksum.DefaultOptions(), Out: &out}
	sched.Options.Timeout = 100 * time.Millisecond
	result := sched.Run(context.Background())

	require.Equal(t, status.TimedOut, result.Kind)
	require.Contains(t, result.Error(), "2 out of 3")
}

func TestScheduler_NoMatchingFilters(t *testing.T) {
	clus, _ := threeReplicaCluster()
	var out bytes.Buffer
	sched := checksum.Scheduler{
		Cluster:      clus,
		TableFilters: []string{"nope"},
		Options:      checksum.DefaultOptions(),
		Out:          &out,
	}
	result := sched.Run(context.Background())
	require.Equal(t, status.NotFound, result.Kind)
}

func countLines(s, substr string) int {
	n := 0
	for _, line := range bytes.Split([]byte(s), []byte("\n")) {
		if bytes.Contains(line, []byte(substr)) {
			n++
		}
	}
	return n
}
