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

// Package tservertest provides an in-memory tserver.Proxy double for tests,
// in the style of the teacher's various testutils packages (fakes rather
// than mocks generated off an interface).
package tservertest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jimmy-src/kudu/pkg/tserver"
)

// ScanResult is what a fake tablet server returns for one checksum scan.
type ScanResult struct {
	Checksum uint64
	Err      error
	// Rows/Bytes are reported via a single Progress call before Finished,
	// if non-zero.
	Rows, Bytes uint64
	// Hang, if true, never calls Finished -- used to simulate scenario 4
	// (timeout) from spec §8.
	Hang bool
	// Delay, if set, defers Finished by this long, simulating a slow scan
	// without blocking forever.
	Delay time.Duration
}

// FakeProxy is a tserver.Proxy double driven entirely by test-supplied
// data: no real network I/O happens.
type FakeProxy struct {
	uuid, address string

	mu struct {
		sync.Mutex
		healthy   bool
		timestamp uint64
		tablets   map[string]tserver.TabletStatus
	}

	// Scans maps tablet id to the canned result RunTabletChecksumScanAsync
	// should produce for it. Missing entries default to a successful scan
	// with checksum 0.
	Scans map[string]ScanResult

	// ConnectErr and FetchInfoErr, if set, are returned by Connect/FetchInfo
	// instead of nil, simulating a server unreachable during the metadata
	// fan-out pool (spec §5.1).
	ConnectErr, FetchInfoErr error
}

// New returns a healthy FakeProxy with no cached tablet state.
func New(serverUUID, address string) *FakeProxy {
	p := &FakeProxy{uuid: serverUUID, address: address, Scans: map[string]ScanResult{}}
	p.mu.healthy = true
	p.mu.tablets = map[string]tserver.TabletStatus{}
	return p
}

// NewWithRandomUUID returns a healthy FakeProxy identified by a freshly
// generated uuid, for tests that need a realistic, cluster.Build-validated
// identifier rather than a short literal like "s1".
func NewWithRandomUUID(address string) *FakeProxy {
	return New(uuid.NewString(), address)
}

func (p *FakeProxy) UUID() string    { return p.uuid }
func (p *FakeProxy) Address() string { return p.address }
func (p *FakeProxy) String() string  { return p.uuid + " (" + p.address + ")" }

func (p *FakeProxy) Connect(ctx context.Context) error   { return p.ConnectErr }
func (p *FakeProxy) FetchInfo(ctx context.Context) error { return p.FetchInfoErr }

// SetHealthy controls what IsHealthy reports.
func (p *FakeProxy) SetHealthy(healthy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mu.healthy = healthy
}

// SetTimestamp controls what CurrentTimestamp reports.
func (p *FakeProxy) SetTimestamp(ts uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mu.timestamp = ts
}

// SetTabletStatus seeds the cached per-tablet state FetchInfo would
// normally populate from a real server.
func (p *FakeProxy) SetTabletStatus(tabletID string, status tserver.TabletStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mu.tablets[tabletID] = status
}

func (p *FakeProxy) IsHealthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mu.healthy
}

func (p *FakeProxy) CurrentTimestamp() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mu.timestamp
}

func (p *FakeProxy) ReplicaState(tabletID string) tserver.ReplicaState {
	p.mu.Lock()
	defer p.mu.Unlock()
	ts, ok := p.mu.tablets[tabletID]
	if !ok {
		return tserver.StateUnknown
	}
	return ts.State
}

func (p *FakeProxy) TabletStatusMap() map[string]tserver.TabletStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]tserver.TabletStatus, len(p.mu.tablets))
	for k, v := range p.mu.tablets {
		out[k] = v
	}
	return out
}

// RunTabletChecksumScanAsync looks up the canned ScanResult for tabletID
// and invokes cb accordingly, always on a separate goroutine to exercise
// the same concurrency the real async RPC would.
func (p *FakeProxy) RunTabletChecksumScanAsync(
	ctx context.Context, tabletID string, schema []byte, opts tserver.ChecksumOptions, cb tserver.Callbacks,
) {
	res := p.Scans[tabletID]
	go func() {
		if res.Rows != 0 || res.Bytes != 0 {
			cb.Progress(res.Rows, res.Bytes)
		}
		if res.Hang {
			return
		}
		if res.Delay > 0 {
			time.Sleep(res.Delay)
		}
		cb.Finished(res.Err, res.Checksum)
	}()
}

var _ tserver.Proxy = (*FakeProxy)(nil)
