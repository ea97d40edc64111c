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

package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/jimmy-src/kudu/internal/logutil"
	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/consistency"
	"github.com/jimmy-src/kudu/pkg/status"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listServers bool

var consistencyCmd = &cobra.Command{
	Use:   "consistency",
	Short: "cross-check the master's view of each tablet against its tablet servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := runConsistency(cmd.Context())
		lastExitCode = s.Kind.ExitCode()
		if !s.Ok() {
			return s
		}
		return nil
	},
}

func init() {
	consistencyCmd.Flags().BoolVar(&listServers, "list-servers", false,
		"print the tablet server roster before running checks (SPEC_FULL.md §12.1)")
}

func runConsistency(ctx context.Context) *status.Status {
	master, err := MasterClientFactory(cfg)
	if err != nil {
		return status.New(status.NetworkError, "%s", err)
	}
	clus, s := BuildCluster(ctx, master, cfg)
	if !s.Ok() {
		return s
	}

	if listServers {
		printServerRoster(os.Stdout, clus)
	}

	results := consistency.CheckCluster(clus, cfg.ConsistencyOptions())
	printConsistencyTable(os.Stdout, results)

	for _, tr := range results {
		for _, t := range tr.Tablets {
			for _, f := range t.Findings {
				switch f.Severity {
				case consistency.Error:
					logutil.Errorf(ctx, "%s", f.Message)
				case consistency.Warning:
					logutil.Warningf(ctx, "%s", f.Message)
				default:
					logutil.Infof(ctx, "%s", f.Message)
				}
			}
		}
	}

	return consistency.Verdict(results, cfg.ErrorOnWarnings)
}

// printServerRoster renders the tablet-server listing the original ksck.cc
// prints via PrintServerTableAndUuid before running checks (SPEC_FULL.md §12.1).
func printServerRoster(w *os.File, clus *cluster.Cluster) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"uuid", "address", "healthy"})
	for uuid, server := range clus.Servers() {
		healthy := "false"
		if server.IsHealthy() {
			healthy = "true"
		}
		table.Append([]string{uuid, server.Address(), healthy})
	}
	table.Render()
}

// printConsistencyTable renders one row per table with its bad/healthy
// verdict and finding count, the per-table granularity the original ksck.cc
// exposes but spec.md's distillation compresses into a single aggregate
// (SPEC_FULL.md §12.2).
func printConsistencyTable(w *os.File, results []consistency.TableResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"table", "tablets", "status", "findings"})
	for _, tr := range results {
		findingCount := 0
		for _, t := range tr.Tablets {
			findingCount += len(t.Findings)
		}
		verdict := "HEALTHY"
		if tr.Bad() {
			verdict = "NOT HEALTHY"
		}
		table.Append([]string{
			tr.TableName,
			strconv.Itoa(len(tr.Tablets)),
			verdict,
			strconv.Itoa(findingCount),
		})
	}
	table.Render()
}
