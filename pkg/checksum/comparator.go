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

package checksum

import (
	"fmt"
	"io"

	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/reporter"
	"github.com/jimmy-src/kudu/pkg/status"
)

const tableDelimiter = "-----------------------"

// Compare reduces the reporter's snapshot into the human-readable report
// described in spec §4.4 "Comparator" and returns the aggregate outcome.
// It must not assume any ordering between replicas, tablets, or servers
// (spec §5): correctness here follows from set-valued aggregation.
func Compare(
	w io.Writer,
	clus *cluster.Cluster,
	sel []selected,
	snapshot reporter.TabletResultMap,
	numTabletReplicas int,
	timedOut bool,
) *status.Status {
	numResults := 0
	numErrors := 0
	numMismatches := 0

	lastTable := ""
	for _, e := range sel {
		byReplica, ok := snapshot[e.tablet.ID]
		if !ok {
			continue
		}
		if e.table.Name != lastTable {
			fmt.Fprintln(w, tableDelimiter)
			fmt.Fprintln(w, e.table.Name)
			fmt.Fprintln(w, tableDelimiter)
			lastTable = e.table.Name
		}

		var firstChecksum uint64
		haveFirst := false
		for serverUUID, res := range byReplica {
			numResults++
			address := serverUUID
			if server, ok := clus.Server(serverUUID); ok {
				address = server.Address()
			}

			if res.Err != nil {
				numErrors++
				fmt.Fprintf(w, "T %s P %s (%s): Error: %s\n", e.tablet.ID, serverUUID, address, res.Err)
				continue
			}

			fmt.Fprintf(w, "T %s P %s (%s): Checksum: %d\n", e.tablet.ID, serverUUID, address, res.Checksum)
			if !haveFirst {
				firstChecksum = res.Checksum
				haveFirst = true
				continue
			}
			if res.Checksum != firstChecksum {
				numMismatches++
				fmt.Fprintf(w, ">> Mismatch found in table %s tablet %s\n", e.table.Name, e.tablet.ID)
			}
		}
	}

	if numResults != numTabletReplicas {
		if !timedOut {
			return status.New(status.InternalAssertion,
				"received %d results but expected %d, and the scan did not time out",
				numResults, numTabletReplicas)
		}
		return status.New(status.TimedOut,
			"checksum scan did not complete within the deadline: received %d out of %d expected responses",
			numResults, numTabletReplicas)
	}
	if numMismatches > 0 {
		return status.New(status.Corruption, "%d checksum mismatches were detected", numMismatches)
	}
	if numErrors > 0 {
		return status.New(status.Aborted, "%d errors were detected", numErrors)
	}
	return status.OKStatus()
}
