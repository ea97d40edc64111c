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

// Package cluster holds the immutable snapshot of tables, tablets, replicas
// and tablet servers loaded from the master at the start of a ksck run.
package cluster

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jimmy-src/kudu/pkg/tserver"
)

// Replica is one copy of a tablet, living on the tablet server identified by
// ServerUUID. Role is the replica's role in the tablet's consensus group as
// the master last observed it.
type Replica struct {
	ServerUUID string
	Role       Role
}

// Role is a replica's role in its tablet's consensus group.
type Role int

const (
	RoleUnknown Role = iota
	RoleLeader
	RoleFollower
)

func (r Role) String() string {
	switch r {
	case RoleLeader:
		return "LEADER"
	case RoleFollower:
		return "FOLLOWER"
	default:
		return "UNKNOWN"
	}
}

// Tablet is one horizontal partition of a Table.
type Tablet struct {
	ID       string
	Table    *Table
	Replicas []Replica
}

// Table is a named collection of Tablets with a declared replication factor
// and an opaque schema payload handed unmodified to checksum scans.
type Table struct {
	Name              string
	ReplicationFactor int
	Tablets           []*Tablet
	Schema            []byte
}

// Cluster is the immutable snapshot of cluster membership built once at
// startup. It is safe for concurrent, lock-free reads once constructed.
type Cluster struct {
	Tables  []*Table
	servers map[string]tserver.Proxy
}

// New builds a Cluster directly from already-constructed tables and
// servers, bypassing the master client. Tests and embedders that already
// have their own membership source use this instead of Build.
func New(tables []*Table, servers map[string]tserver.Proxy) *Cluster {
	return &Cluster{Tables: tables, servers: servers}
}

// Servers returns the tablet servers that make up this cluster snapshot.
func (c *Cluster) Servers() map[string]tserver.Proxy {
	return c.servers
}

// Server looks up a tablet server by uuid. Per invariant I1, every
// Replica's ServerUUID must resolve via this method.
func (c *Cluster) Server(uuid string) (tserver.Proxy, bool) {
	s, ok := c.servers[uuid]
	return s, ok
}

// MasterTable mirrors the wire shape the out-of-scope master RPC client
// returns for a single table: its name, replication factor, schema, and the
// tablet-id -> replica-server-uuid/role mapping the master knows about.
type MasterTable struct {
	Name              string
	ReplicationFactor int
	Schema            []byte
	Tablets           []MasterTablet
}

// MasterTablet mirrors the master's view of one tablet.
type MasterTablet struct {
	ID       string
	Replicas []Replica
}

// MasterClient is the out-of-scope collaborator that lists tables, tablets,
// and tablet servers. Its wire format is not part of this spec; only this
// semantic contract is.
type MasterClient interface {
	ListTables(ctx context.Context) ([]MasterTable, error)
	ListTabletServers(ctx context.Context) ([]tserver.Proxy, error)
}

// Build fetches membership from master and constructs an immutable Cluster
// snapshot. It does not contact tablet servers; see FetchReplicaInfo for
// that.
func Build(ctx context.Context, master MasterClient) (*Cluster, error) {
	servers, err := master.ListTabletServers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tablet servers from master")
	}
	byUUID := make(map[string]tserver.Proxy, len(servers))
	for _, s := range servers {
		if _, err := uuid.Parse(s.UUID()); err != nil {
			return nil, errors.Wrapf(err, "tablet server %s reported a malformed uuid", s.Address())
		}
		byUUID[s.UUID()] = s
	}

	mts, err := master.ListTables(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables from master")
	}

	tables := make([]*Table, 0, len(mts))
	for _, mt := range mts {
		table := &Table{
			Name:              mt.Name,
			ReplicationFactor: mt.ReplicationFactor,
			Schema:            mt.Schema,
		}
		for _, mtab := range mt.Tablets {
			table.Tablets = append(table.Tablets, &Tablet{
				ID:       mtab.ID,
				Table:    table,
				Replicas: mtab.Replicas,
			})
		}
		tables = append(tables, table)
	}

	return &Cluster{Tables: tables, servers: byUUID}, nil
}
