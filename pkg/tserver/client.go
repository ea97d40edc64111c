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

package tserver

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/jimmy-src/kudu/internal/logutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCClient is a Proxy backed by a real gRPC connection, following the
// teacher's getClientGRPCConn/getStatusClient pattern in pkg/cli/rpc_client.go.
// The checksum-scan and fetch-info RPCs themselves are out of scope (spec
// §1); GRPCClient wires real connection establishment and health reporting,
// and expects a ScanRunner to actually drive scans over that connection.
type GRPCClient struct {
	uuid    string
	address string

	mu struct {
		sync.Mutex
		conn      *grpc.ClientConn
		healthy   bool
		timestamp uint64
		tablets   map[string]TabletStatus
	}

	// Runner performs the actual RPCs once connected; tests substitute a
	// fake. In production this wraps generated protobuf stubs over mu.conn.
	Runner ScanRunner
}

// ScanRunner is the seam between GRPCClient and the actual tablet-server
// RPCs, kept separate so the wire format (out of scope) never leaks into
// the Proxy contract itself.
type ScanRunner interface {
	FetchInfo(ctx context.Context, conn *grpc.ClientConn) (healthy bool, timestamp uint64, tablets map[string]TabletStatus, err error)
	RunChecksumScan(ctx context.Context, conn *grpc.ClientConn, tabletID string, schema []byte, opts ChecksumOptions, cb Callbacks)
}

// NewGRPCClient builds a Proxy for the tablet server at address, identified
// by uuid. The connection is not established until Connect is called.
func NewGRPCClient(uuid, address string, runner ScanRunner) *GRPCClient {
	c := &GRPCClient{uuid: uuid, address: address, Runner: runner}
	c.mu.tablets = make(map[string]TabletStatus)
	return c
}

func (c *GRPCClient) UUID() string    { return c.uuid }
func (c *GRPCClient) Address() string { return c.address }
func (c *GRPCClient) String() string  { return c.uuid + " (" + c.address + ")" }

// Connect establishes the gRPC session. It is idempotent: calling it again
// on an already-connected client is a no-op.
func (c *GRPCClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mu.conn != nil {
		return nil
	}
	conn, err := grpc.DialContext(ctx, c.address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "dialing %s: %s", c.address, err)
	}
	c.mu.conn = conn
	return nil
}

// FetchInfo populates health, the tablet-state map, and the server's
// current timestamp. After it returns successfully, those are observable
// via IsHealthy/TabletStatusMap/CurrentTimestamp.
func (c *GRPCClient) FetchInfo(ctx context.Context) error {
	c.mu.Lock()
	conn := c.mu.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.Wrap(ErrUnavailable, "FetchInfo called before Connect")
	}

	healthy, ts, tablets, err := c.Runner.FetchInfo(ctx, conn)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.mu.healthy = false
		logutil.Warningf(ctx, "failed to fetch info from %s: %s", c.String(), err)
		return errors.Wrapf(ErrUnavailable, "fetching info from %s: %s", c.String(), err)
	}
	c.mu.healthy = healthy
	c.mu.timestamp = ts
	c.mu.tablets = tablets
	return nil
}

// IsHealthy reports whether the last FetchInfo succeeded and reported the
// server healthy, and the connection (if any) is in grpc's
// connectivity.Ready or connectivity.Idle state.
func (c *GRPCClient) IsHealthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mu.conn != nil && c.mu.conn.GetState() != connectivity.Ready && c.mu.conn.GetState() != connectivity.Idle {
		return false
	}
	return c.mu.healthy
}

func (c *GRPCClient) CurrentTimestamp() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.timestamp
}

func (c *GRPCClient) ReplicaState(tabletID string) ReplicaState {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.mu.tablets[tabletID]
	if !ok {
		return StateUnknown
	}
	return ts.State
}

func (c *GRPCClient) TabletStatusMap() map[string]TabletStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]TabletStatus, len(c.mu.tablets))
	for k, v := range c.mu.tablets {
		out[k] = v
	}
	return out
}

// RunTabletChecksumScanAsync fires off the scan via Runner and returns
// immediately; Runner is responsible for invoking cb exactly once with a
// terminal Finished call, per the Proxy contract.
func (c *GRPCClient) RunTabletChecksumScanAsync(
	ctx context.Context, tabletID string, schema []byte, opts ChecksumOptions, cb Callbacks,
) {
	c.mu.Lock()
	conn := c.mu.conn
	c.mu.Unlock()
	if conn == nil {
		cb.Finished(errors.Wrap(ErrUnavailable, "RunTabletChecksumScanAsync called before Connect"), 0)
		return
	}
	c.Runner.RunChecksumScan(ctx, conn, tabletID, schema, opts, cb)
}
