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

package workqueue_test

import (
	"testing"

	"github.com/jimmy-src/kudu/pkg/workqueue"
	"github.com/stretchr/testify/require"
)

func TestPutThenGetFIFOOrder(t *testing.T) {
	q := workqueue.New(2)
	q.Put(workqueue.Item{TabletID: "t1"})
	q.Put(workqueue.Item{TabletID: "t2"})

	item, ok := q.BlockingGet()
	require.True(t, ok)
	require.Equal(t, "t1", item.TabletID)

	item, ok = q.BlockingGet()
	require.True(t, ok)
	require.Equal(t, "t2", item.TabletID)
}

func TestGetNeverBlocksAfterShutdown(t *testing.T) {
	q := workqueue.New(1)
	q.Put(workqueue.Item{TabletID: "t1"})
	q.Shutdown()

	item, ok := q.BlockingGet()
	require.True(t, ok)
	require.Equal(t, "t1", item.TabletID)

	_, ok = q.BlockingGet()
	require.False(t, ok)

	// Repeated gets on a drained, shut-down queue keep returning false
	// rather than blocking -- this is the guarantee the scheduler relies
	// on to poll from worker callbacks.
	_, ok = q.BlockingGet()
	require.False(t, ok)
}

func TestShutdownThenEmptyGetReturnsFalse(t *testing.T) {
	q := workqueue.New(0)
	q.Shutdown()
	_, ok := q.BlockingGet()
	require.False(t, ok)
}

func TestPutAfterShutdownPanics(t *testing.T) {
	q := workqueue.New(1)
	q.Shutdown()
	require.Panics(t, func() { q.Put(workqueue.Item{TabletID: "t1"}) })
}

func TestLen(t *testing.T) {
	q := workqueue.New(2)
	require.Equal(t, 0, q.Len())
	q.Put(workqueue.Item{TabletID: "t1"})
	q.Put(workqueue.Item{TabletID: "t2"})
	require.Equal(t, 2, q.Len())
	_, _ = q.BlockingGet()
	require.Equal(t, 1, q.Len())
}
