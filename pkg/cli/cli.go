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

// Package cli is the command-line glue around the checksum scheduler and
// consistency checker. It is, by spec §1, a thin external collaborator: the
// core logic lives in pkg/checksum, pkg/consistency, and pkg/cluster.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jimmy-src/kudu/internal/logutil"
	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/status"
	"github.com/spf13/cobra"
)

var cfg = NewConfig()

// ksckCmd is the root command, in the shape of the teacher's cockroachCmd
// in pkg/cli/cli.go.
var ksckCmd = &cobra.Command{
	Use:   "ksck [command] (flags)",
	Short: "cluster health-check and data-integrity tool",
	Long: `
ksck cross-checks a tablet-based storage cluster's master against its
tablet servers (consistency) and drives full-tablet checksum scans across
every replica of every tablet to detect divergence (checksum).
`,
	// The leaf commands' RunE returns a *status.Status for outcomes like
	// "corruption" or "timed-out" that are expected, reported findings, not
	// malformed command-line usage; each has already logged/printed its own
	// human-readable report by the time RunE returns, so cobra's default
	// "Error: ...plus usage" printing would only duplicate it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.EnableCommandSorting = false
	cfg.BindFlags(ksckCmd.PersistentFlags())
	ksckCmd.AddCommand(checksumCmd, consistencyCmd)
}

// Run executes the ksck command line, returning the process exit code.
func Run(args []string) int {
	ksckCmd.SetArgs(args)
	if err := ksckCmd.Execute(); err != nil {
		if s, ok := status.FromError(err); ok {
			return s.Kind.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return lastExitCode
}

// lastExitCode is set by each leaf command's RunE after computing its
// status.Status, since cobra's own Execute only distinguishes error/no-error.
var lastExitCode int

// BuildCluster fetches membership from master and populates replica info
// from every tablet server, the two steps that precede either check (spec
// §2 step 1 and §5's metadata fan-out pool).
func BuildCluster(ctx context.Context, master cluster.MasterClient, c *Config) (*cluster.Cluster, *status.Status) {
	// The master connection is only needed to build cluster membership; once
	// Build returns, replica info comes from the tablet servers themselves, so
	// release it here rather than holding it for the lifetime of the command.
	if closer, ok := master.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logutil.Warningf(ctx, "closing master connection: %s", err)
			}
		}()
	}
	clus, err := cluster.Build(ctx, master)
	if err != nil {
		return nil, status.New(status.NetworkError, "%s", err)
	}
	if s := cluster.FetchReplicaInfo(ctx, clus, c.FetchReplicaInfoConcurrency); !s.Ok() {
		return clus, s
	}
	return clus, status.OKStatus()
}
