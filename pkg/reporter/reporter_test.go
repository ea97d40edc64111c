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

package reporter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jimmy-src/kudu/pkg/reporter"
	"github.com/stretchr/testify/require"
)

func TestWaitForDrainsWhenAllResultsArrive(t *testing.T) {
	r := reporter.New(3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.ReportResult("tablet", string(rune('a'+i)), reporter.Result{Checksum: uint64(i)})
		}(i)
	}
	require.True(t, r.WaitFor(context.Background(), time.Second))
	wg.Wait()

	snap := r.Snapshot()
	require.Len(t, snap["tablet"], 3)
}

func TestWaitForTimesOutWhenIncomplete(t *testing.T) {
	r := reporter.New(2)
	r.ReportResult("tablet", "a", reporter.Result{Checksum: 1})
	require.False(t, r.WaitFor(context.Background(), 50*time.Millisecond))
	require.Equal(t, int64(1), r.Outstanding())
}

func TestWaitForZeroExpectedReturnsImmediately(t *testing.T) {
	r := reporter.New(0)
	require.True(t, r.WaitFor(context.Background(), time.Millisecond))
}

func TestReportProgressIsMonotonic(t *testing.T) {
	r := reporter.New(1)
	r.ReportProgress(10, 100)
	r.ReportProgress(5, 50)
	rows, bytes := r.Progress()
	require.Equal(t, uint64(15), rows)
	require.Equal(t, uint64(150), bytes)
}

func TestDuplicateResultPanics(t *testing.T) {
	r := reporter.New(2)
	r.ReportResult("tablet", "a", reporter.Result{Checksum: 1})
	require.Panics(t, func() {
		r.ReportResult("tablet", "a", reporter.Result{Checksum: 2})
	})
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	r := reporter.New(1)
	r.ReportResult("tablet", "a", reporter.Result{Checksum: 42})
	snap := r.Snapshot()
	snap["tablet"]["a"] = reporter.Result{Checksum: 0}

	snap2 := r.Snapshot()
	require.Equal(t, uint64(42), snap2["tablet"]["a"].Checksum)
}
