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
	"sync/atomic"

	"github.com/jimmy-src/kudu/internal/logutil"
	"github.com/jimmy-src/kudu/pkg/status"
	"golang.org/x/sync/errgroup"
)

// FetchReplicaInfo runs the metadata fan-out pool of spec §5.1: one task per
// tablet server, each calling Connect then FetchInfo, bounded to
// concurrency in-flight tasks. Per-server failures are logged and counted,
// not propagated, unless every server fails, in which case the aggregate
// NetworkError is returned.
func FetchReplicaInfo(ctx context.Context, c *Cluster, concurrency int) *status.Status {
	servers := c.Servers()
	if len(servers) == 0 {
		return status.New(status.NotFound, "no tablet servers found")
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	var failed atomic.Int64
	for _, server := range servers {
		server := server
		g.Go(func() error {
			tagged := logutil.WithTag(ctx, "ts", server.UUID())
			if err := server.Connect(tagged); err != nil {
				failed.Add(1)
				logutil.Warningf(tagged, "could not connect: %s", err)
				return nil
			}
			if err := server.FetchInfo(tagged); err != nil {
				failed.Add(1)
				logutil.Warningf(tagged, "could not fetch info: %s", err)
				return nil
			}
			return nil
		})
	}
	// Tasks never return an error themselves (failures are counted, not
	// propagated), and a plain errgroup.Group has no context, so Wait
	// returns nil; the check below is defensive.
	if err := g.Wait(); err != nil {
		return status.New(status.NetworkError, "%s", err)
	}

	if int(failed.Load()) == len(servers) {
		return status.New(status.NetworkError, "failed to fetch info from all %d tablet servers", len(servers))
	}
	return status.OKStatus()
}
