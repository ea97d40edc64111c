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

package consistency_test

import (
	"testing"

	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/consistency"
	"github.com/jimmy-src/kudu/pkg/status"
	"github.com/jimmy-src/kudu/pkg/tserver"
	"github.com/jimmy-src/kudu/pkg/tserver/tservertest"
	"github.com/stretchr/testify/require"
)

func clusterWithReplicas(roles ...cluster.Role) (*cluster.Cluster, []*tservertest.FakeProxy) {
	table := &cluster.Table{Name: "t", ReplicationFactor: len(roles)}
	tablet := &cluster.Tablet{ID: "tb", Table: table}
	servers := map[string]tserver.Proxy{}
	var fakes []*tservertest.FakeProxy

	for i, role := range roles {
		uuid := string(rune('a' + i))
		f := tservertest.New(uuid, uuid+":7050")
		f.SetTabletStatus("tb", tserver.TabletStatus{State: tserver.StateRunning})
		fakes = append(fakes, f)
		servers[uuid] = f
		tablet.Replicas = append(tablet.Replicas, cluster.Replica{ServerUUID: uuid, Role: role})
	}
	table.Tablets = []*cluster.Tablet{tablet}
	return cluster.New([]*cluster.Table{table}, servers), fakes
}

func TestConsistency_HealthyCluster(t *testing.T) {
	clus, _ := clusterWithReplicas(cluster.RoleLeader, cluster.RoleFollower, cluster.RoleFollower)
	results := consistency.CheckCluster(clus, consistency.Options{CheckReplicaCount: true})
	require.Len(t, results, 1)
	require.False(t, results[0].Bad())
	require.Equal(t, status.OK, consistency.Verdict(results, false).Kind)
}

func TestConsistency_NoLeaderIsError(t *testing.T) {
	clus, _ := clusterWithReplicas(cluster.RoleFollower, cluster.RoleFollower, cluster.RoleFollower)
	results := consistency.CheckCluster(clus, consistency.Options{CheckReplicaCount: true})
	require.True(t, results[0].Bad())
	require.Equal(t, status.Corruption, consistency.Verdict(results, false).Kind)

	foundNoLeader := false
	for _, f := range results[0].Tablets[0].Findings {
		if f.Severity == consistency.Error {
			foundNoLeader = true
		}
	}
	require.True(t, foundNoLeader)
}

func TestConsistency_NoMatchingTablesIsNotFound(t *testing.T) {
	clus, _ := clusterWithReplicas(cluster.RoleLeader, cluster.RoleFollower, cluster.RoleFollower)
	results := consistency.CheckCluster(clus, consistency.Options{TableFilters: []string{"nope"}})
	require.Empty(t, results)
	require.Equal(t, status.NotFound, consistency.Verdict(results, false).Kind)
}

func TestConsistency_UnavailableServerIsWarning(t *testing.T) {
	clus, fakes := clusterWithReplicas(cluster.RoleLeader, cluster.RoleFollower, cluster.RoleFollower)
	fakes[2].SetHealthy(false)

	results := consistency.CheckCluster(clus, consistency.Options{CheckReplicaCount: true})
	require.True(t, results[0].Bad())
	// Majority of 3 is 2; one unavailable server still leaves a majority
	// alive, so this should be a warning, not an error-level finding.
	for _, f := range results[0].Tablets[0].Findings {
		if f.Severity == consistency.Error {
			t.Fatalf("unexpected error-level finding: %s", f.Message)
		}
	}
}

func TestConsistency_BelowMajorityAliveIsError(t *testing.T) {
	clus, fakes := clusterWithReplicas(cluster.RoleLeader, cluster.RoleFollower, cluster.RoleFollower)
	fakes[1].SetHealthy(false)
	fakes[2].SetHealthy(false)

	results := consistency.CheckCluster(clus, consistency.Options{CheckReplicaCount: true})
	require.Equal(t, status.Corruption, consistency.Verdict(results, false).Kind)
}
