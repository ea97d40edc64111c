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

package consistency

import "github.com/jimmy-src/kudu/pkg/status"

// Verdict reduces a set of TableResults into the cluster-level outcome of
// spec §4.5: "not found" (success) when no table matched the filters,
// "corruption" iff >=1 table is bad, else ok.
//
// errorOnWarnings implements the supplemented --error-on-warnings flag
// (SPEC_FULL.md §12.3): by default only error-level findings make a table
// "bad" for the purpose of the process exit code, while the display-level
// TableResult.Bad() still flags warnings too so operators can see them. This is a
// deliberate divergence from ksck.cc's VerifyTablet, which always treats a
// warning-only tablet as bad; spec §7 ("warnings never abort; only errors
// do") is followed here instead, with the flag as an opt-in back to the
// original's stricter behavior.
func Verdict(results []TableResult, errorOnWarnings bool) *status.Status {
	if len(results) == 0 {
		return status.New(status.NotFound, "no tables matched the configured filters")
	}

	badTables := 0
	for _, tr := range results {
		if tableFailsRun(tr, errorOnWarnings) {
			badTables++
		}
	}
	if badTables > 0 {
		return status.New(status.Corruption, "%d of %d tables are bad", badTables, len(results))
	}
	return status.OKStatus()
}

func tableFailsRun(tr TableResult, errorOnWarnings bool) bool {
	for _, t := range tr.Tablets {
		for _, f := range t.Findings {
			if f.Severity == Error {
				return true
			}
			if errorOnWarnings && f.Severity == Warning {
				return true
			}
		}
	}
	return false
}
