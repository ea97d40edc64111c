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

package status_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/jimmy-src/kudu/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestOkStatusIsOk(t *testing.T) {
	require.True(t, status.OKStatus().Ok())
}

func TestNonOkStatusIsNotOk(t *testing.T) {
	s := status.New(status.Corruption, "%d mismatches", 3)
	require.False(t, s.Ok())
	require.Equal(t, status.Corruption, s.Kind)
	require.Contains(t, s.Error(), "3 mismatches")
}

func TestExitCodesAreDistinct(t *testing.T) {
	seen := map[int]status.Kind{}
	for k := status.OK; k <= status.InternalAssertion; k++ {
		code := k.ExitCode()
		if prev, ok := seen[code]; ok {
			t.Fatalf("exit code %d used by both %s and %s", code, prev, k)
		}
		seen[code] = k
	}
}

func TestFromErrorUnwrapsWrappedStatus(t *testing.T) {
	s := status.New(status.TimedOut, "deadline exceeded")
	wrapped := errors.Wrap(s, "checksum scan")

	got, ok := status.FromError(wrapped)
	require.True(t, ok)
	require.Equal(t, status.TimedOut, got.Kind)
}
