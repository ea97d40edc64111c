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

import "time"

// DefaultOptions returns the spec §6 defaults: a one-hour deadline, four
// in-flight scans per server, and snapshot reads at the current timestamp.
func DefaultOptions() Options {
	return Options{
		Timeout:           3600 * time.Second,
		ScanConcurrency:   4,
		UseSnapshot:       true,
		SnapshotTimestamp: 0,
	}
}
