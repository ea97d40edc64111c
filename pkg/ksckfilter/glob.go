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

// Package ksckfilter matches table and tablet-id filters against glob
// patterns (*, ?). It is an edge collaborator (spec §1: "filter-pattern
// parsing" is out of scope for the core), so it leans on the standard
// library's path.Match rather than pulling in a dedicated glob dependency.
package ksckfilter

import "path"

// MatchesAny reports whether name matches any of patterns. An empty
// patterns list is a wildcard: everything matches, per spec §6.
func MatchesAny(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := path.Match(p, name); ok && err == nil {
			return true
		}
	}
	return false
}
