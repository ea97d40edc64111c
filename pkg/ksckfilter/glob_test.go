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

package ksckfilter_test

import (
	"testing"

	"github.com/jimmy-src/kudu/pkg/ksckfilter"
	"github.com/stretchr/testify/require"
)

func TestMatchesAnyEmptyIsWildcard(t *testing.T) {
	require.True(t, ksckfilter.MatchesAny(nil, "anything"))
}

func TestMatchesAnyGlob(t *testing.T) {
	require.True(t, ksckfilter.MatchesAny([]string{"foo*"}, "foobar"))
	require.False(t, ksckfilter.MatchesAny([]string{"foo*"}, "barfoo"))
	require.True(t, ksckfilter.MatchesAny([]string{"a", "b*"}, "bcd"))
}

func TestMatchesAnyNoMatch(t *testing.T) {
	require.False(t, ksckfilter.MatchesAny([]string{"nope"}, "tablet1"))
}
