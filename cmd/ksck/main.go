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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jimmy-src/kudu/pkg/cli"
	"github.com/jimmy-src/kudu/pkg/cluster"
	"github.com/jimmy-src/kudu/pkg/tserver"
	"google.golang.org/grpc"
)

func main() {
	cli.MasterClientFactory = newMasterClient
	os.Exit(cli.Run(os.Args[1:]))
}

// newMasterClient wires a real master connection. The actual list-tables /
// list-tablet-servers RPCs are out of scope for this tool (spec §1); a
// deployment wires generated protobuf stubs into unimplementedLister below.
func newMasterClient(c *cli.Config) (cluster.MasterClient, error) {
	if c.MasterAddr == "" {
		return nil, errors.New("--master is required")
	}
	return &cluster.GRPCMasterClient{
		Address: c.MasterAddr,
		Lister:  unimplementedLister{},
		NewProxy: func(uuid, address string) tserver.Proxy {
			return tserver.NewGRPCClient(uuid, address, unimplementedScanRunner{})
		},
	}, nil
}

// unimplementedLister and unimplementedScanRunner are placeholders for the
// generated protobuf stubs a real Kudu-style deployment would supply; the
// wire format they'd speak is explicitly out of scope (spec §1, §4.3, §6).
type unimplementedLister struct{}

func (unimplementedLister) ListTables(ctx context.Context, conn *grpc.ClientConn) ([]cluster.MasterTable, error) {
	return nil, fmt.Errorf("master RPC wire format not wired in this build")
}

func (unimplementedLister) ListTabletServers(ctx context.Context, conn *grpc.ClientConn) ([]cluster.MasterServerInfo, error) {
	return nil, fmt.Errorf("master RPC wire format not wired in this build")
}

type unimplementedScanRunner struct{}

func (unimplementedScanRunner) FetchInfo(
	ctx context.Context, conn *grpc.ClientConn,
) (bool, uint64, map[string]tserver.TabletStatus, error) {
	return false, 0, nil, fmt.Errorf("tablet server RPC wire format not wired in this build")
}

func (unimplementedScanRunner) RunChecksumScan(
	ctx context.Context, conn *grpc.ClientConn, tabletID string, schema []byte, opts tserver.ChecksumOptions, cb tserver.Callbacks,
) {
	cb.Finished(fmt.Errorf("tablet server RPC wire format not wired in this build"), 0)
}
