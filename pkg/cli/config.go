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
	"time"

	"github.com/jimmy-src/kudu/pkg/checksum"
	"github.com/jimmy-src/kudu/pkg/consistency"
	"github.com/spf13/pflag"
)

// Config is the set of knobs enumerated in spec §6, bound to flags the way
// the teacher binds flags in pkg/cli/flags.go. Loading these from a config
// file is out of scope; only flag/default binding is.
type Config struct {
	MasterAddr string

	ChecksumTimeoutSec          int
	ChecksumScanConcurrency     int
	ChecksumSnapshot            bool
	ChecksumSnapshotTimestamp   uint64
	FetchReplicaInfoConcurrency int

	TableFilters  []string
	TabletFilters []string

	CheckReplicaCount bool
	ErrorOnWarnings   bool
}

// NewConfig returns a Config populated with spec §6's defaults.
func NewConfig() *Config {
	return &Config{
		ChecksumTimeoutSec:          3600,
		ChecksumScanConcurrency:     4,
		ChecksumSnapshot:            true,
		ChecksumSnapshotTimestamp:   0,
		FetchReplicaInfoConcurrency: 20,
		CheckReplicaCount:           true,
	}
}

// BindFlags registers c's fields on fs, mirroring the teacher's
// pflag.FlagSet convention in pkg/cli/flags.go.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.MasterAddr, "master", c.MasterAddr, "address of the cluster master")

	fs.IntVar(&c.ChecksumTimeoutSec, "checksum_timeout_sec", c.ChecksumTimeoutSec,
		"maximum total seconds to wait for a checksum scan to complete before timing out")
	fs.IntVar(&c.ChecksumScanConcurrency, "checksum_scan_concurrency", c.ChecksumScanConcurrency,
		"number of concurrent checksum scans to execute per tablet server")
	fs.BoolVar(&c.ChecksumSnapshot, "checksum_snapshot", c.ChecksumSnapshot,
		"whether the checksum scanner should use a snapshot scan")
	fs.Uint64Var(&c.ChecksumSnapshotTimestamp, "checksum_snapshot_timestamp", c.ChecksumSnapshotTimestamp,
		"timestamp to use for snapshot checksum scans; 0 uses the current timestamp of a healthy tablet server")
	fs.IntVar(&c.FetchReplicaInfoConcurrency, "fetch_replica_info_concurrency", c.FetchReplicaInfoConcurrency,
		"maximum number of tablet servers to fetch metadata from concurrently")

	fs.StringSliceVar(&c.TableFilters, "tables", c.TableFilters, "glob patterns selecting tables to check; empty matches all")
	fs.StringSliceVar(&c.TabletFilters, "tablets", c.TabletFilters, "glob patterns selecting tablet ids to check; empty matches all")

	fs.BoolVar(&c.CheckReplicaCount, "check_replica_count", c.CheckReplicaCount,
		"warn when a tablet's replica count does not match its table's declared replication factor")
	fs.BoolVar(&c.ErrorOnWarnings, "error-on-warnings", c.ErrorOnWarnings,
		"treat warning-level consistency findings as failing the run, not just error-level ones")
}

// ChecksumOptions converts the timeout/concurrency/snapshot knobs into a
// checksum.Options value, cloned fresh for each invocation.
func (c *Config) ChecksumOptions() checksum.Options {
	return checksum.Options{
		Timeout:           time.Duration(c.ChecksumTimeoutSec) * time.Second,
		ScanConcurrency:   c.ChecksumScanConcurrency,
		UseSnapshot:       c.ChecksumSnapshot,
		SnapshotTimestamp: c.ChecksumSnapshotTimestamp,
	}
}

// ConsistencyOptions converts the relevant knobs into consistency.Options.
func (c *Config) ConsistencyOptions() consistency.Options {
	return consistency.Options{
		CheckReplicaCount: c.CheckReplicaCount,
		TableFilters:      c.TableFilters,
		TabletFilters:     c.TabletFilters,
	}
}
