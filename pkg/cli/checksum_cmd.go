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
	"fmt"
	"os"

	"github.com/jimmy-src/kudu/pkg/checksum"
	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/status"
	"github.com/spf13/cobra"
)

// MasterClientFactory builds the out-of-scope master RPC client from the
// bound Config; main.go sets it to a factory returning a
// cluster.GRPCMasterClient whose master and tablet-server RPCs are the
// placeholders defined in main.go (spec §1).
var MasterClientFactory func(c *Config) (cluster.MasterClient, error)

var checksumCmd = &cobra.Command{
	Use:   "checksum",
	Short: "verify that every replica of every selected tablet checksums identically",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := runChecksum(cmd.Context())
		lastExitCode = s.Kind.ExitCode()
		if !s.Ok() {
			return s
		}
		return nil
	},
}

func runChecksum(ctx context.Context) *status.Status {
	master, err := MasterClientFactory(cfg)
	if err != nil {
		return status.New(status.NetworkError, "%s", err)
	}
	clus, s := BuildCluster(ctx, master, cfg)
	if !s.Ok() {
		return s
	}

	sched := checksum.Scheduler{
		Cluster:       clus,
		TableFilters:  cfg.TableFilters,
		TabletFilters: cfg.TabletFilters,
		Options:       cfg.ChecksumOptions(),
		Out:           os.Stdout,
	}
	result := sched.Run(ctx)
	fmt.Fprintln(os.Stderr, result)
	return result
}
