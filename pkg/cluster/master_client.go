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

package cluster

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/jimmy-src/kudu/pkg/tserver"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// MasterLister is the seam between GRPCMasterClient and the actual master
// RPCs (ListTables, ListTabletServers). The wire format is out of scope
// (spec §1); production code wires generated protobuf stubs here.
type MasterLister interface {
	ListTables(ctx context.Context, conn *grpc.ClientConn) ([]MasterTable, error)
	ListTabletServers(ctx context.Context, conn *grpc.ClientConn) ([]MasterServerInfo, error)
}

// MasterServerInfo is what the master reports about one tablet server:
// enough to build a tserver.Proxy for it.
type MasterServerInfo struct {
	UUID    string
	Address string
}

// GRPCMasterClient is a MasterClient backed by a real gRPC connection to
// the cluster coordinator, following the teacher's getAdminClient pattern
// in pkg/cli/rpc_client.go: the connection is dialed once and reused, and
// the caller is expected to invoke Close once it is done with the client,
// mirroring the teacher's "finish func()" convention. NewProxy builds the
// tserver.Proxy used for each reported server; production code supplies
// one backed by tserver.GRPCClient.
type GRPCMasterClient struct {
	Address  string
	Lister   MasterLister
	NewProxy func(uuid, address string) tserver.Proxy

	mu   sync.Mutex
	conn *grpc.ClientConn
}

// ListTables dials the master (if not already connected) and lists tables.
func (m *GRPCMasterClient) ListTables(ctx context.Context) ([]MasterTable, error) {
	conn, err := m.dial(ctx)
	if err != nil {
		return nil, err
	}
	return m.Lister.ListTables(ctx, conn)
}

// ListTabletServers dials the master and returns a Proxy per reported
// server, built via NewProxy.
func (m *GRPCMasterClient) ListTabletServers(ctx context.Context) ([]tserver.Proxy, error) {
	conn, err := m.dial(ctx)
	if err != nil {
		return nil, err
	}
	infos, err := m.Lister.ListTabletServers(ctx, conn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tablet servers")
	}
	proxies := make([]tserver.Proxy, 0, len(infos))
	for _, info := range infos {
		proxies = append(proxies, m.NewProxy(info.UUID, info.Address))
	}
	return proxies, nil
}

// dial returns the cached connection to the master, establishing it on the
// first call. Reusing the connection across ListTables/ListTabletServers
// avoids leaking one gRPC connection per call.
func (m *GRPCMasterClient) dial(ctx context.Context) (*grpc.ClientConn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		return m.conn, nil
	}
	conn, err := grpc.DialContext(ctx, m.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing master at %s", m.Address)
	}
	m.conn = conn
	return conn, nil
}

// Close releases the connection to the master, if one was established. It
// is the caller's responsibility to invoke it once the client is no longer
// needed, the same contract the teacher's getClientGRPCConn "finish func()"
// return value carries.
func (m *GRPCMasterClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}
