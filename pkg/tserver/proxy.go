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

// Package tserver defines the tablet-server proxy contract the checksum
// scheduler and consistency checker depend on (spec §4.3). The wire format
// used to satisfy this contract is out of scope; only the semantics are.
package tserver

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// ReplicaState is the server's local view of one tablet replica.
type ReplicaState int

const (
	StateUnknown ReplicaState = iota
	StateRunning
	StateBootstrapping
	StateFailed
	StateStopped
	StateTombstoned
)

func (s ReplicaState) String() string {
	switch s {
	case StateRunning:
		return "RUNNING"
	case StateBootstrapping:
		return "BOOTSTRAPPING"
	case StateFailed:
		return "FAILED"
	case StateStopped:
		return "STOPPED"
	case StateTombstoned:
		return "TOMBSTONED"
	default:
		return "UNKNOWN"
	}
}

// TabletStatus is the per-tablet detail a tablet server reports about a
// replica it hosts, consumed by the consistency checker.
type TabletStatus struct {
	State      ReplicaState
	LastStatus string
	DataState  string
}

// ChecksumOptions configures a checksum scan. It is a value type, cloned per
// invocation so concurrent scheduler runs never share mutable state.
type ChecksumOptions struct {
	// Timeout bounds the whole scan phase; see reporter.WaitFor.
	Timeout time.Duration
	// ScanConcurrency is the number of in-flight scans allowed per server.
	ScanConcurrency int
	// UseSnapshot selects a snapshot (consistent point-in-time) scan.
	UseSnapshot bool
	// SnapshotTimestamp is the timestamp to scan at; 0 means "pick the
	// current timestamp of a healthy participating server".
	SnapshotTimestamp uint64
}

// CurrentTimestamp is the sentinel SnapshotTimestamp meaning "current".
const CurrentTimestamp uint64 = 0

// Callbacks is implemented by the checksum scheduler's per-slot worker and
// passed to RunTabletChecksumScanAsync. The tablet server guarantees exactly
// one terminal Finished call per invocation, optionally preceded by zero or
// more Progress calls. Both may be invoked on arbitrary goroutines.
type Callbacks interface {
	Progress(rows, bytes uint64)
	Finished(err error, checksum uint64)
}

// Proxy is a handle to one tablet server: its identity, address, liveness,
// cached per-tablet state, and the ability to kick off an asynchronous
// checksum scan.
type Proxy interface {
	Connect(ctx context.Context) error
	FetchInfo(ctx context.Context) error

	UUID() string
	Address() string
	String() string

	IsHealthy() bool
	CurrentTimestamp() uint64
	ReplicaState(tabletID string) ReplicaState
	TabletStatusMap() map[string]TabletStatus

	RunTabletChecksumScanAsync(
		ctx context.Context,
		tabletID string,
		schema []byte,
		opts ChecksumOptions,
		cb Callbacks,
	)
}

// ErrUnavailable is returned by FetchInfo/Connect when a server cannot be
// reached; callers treat it as a per-server failure, not fatal unless every
// server fails (spec §7).
var ErrUnavailable = errors.New("tablet server unavailable")
