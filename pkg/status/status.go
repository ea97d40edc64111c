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

// Package status carries the small set of outcome kinds ksck's checks can
// produce, and the exit codes the command-line glue maps them to.
package status

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind enumerates the terminal outcomes of a ksck run or sub-check.
type Kind int

const (
	// OK means the check found nothing wrong.
	OK Kind = iota
	// NotFound means the configured filters matched nothing, or there were
	// no tablet servers to check.
	NotFound
	// ServiceUnavailable means no healthy tablet server was available to
	// supply a snapshot timestamp.
	ServiceUnavailable
	// NetworkError means the master could not be reached or listed, or every
	// tablet server failed the metadata fetch.
	NetworkError
	// TimedOut means the checksum scan phase exceeded its deadline.
	TimedOut
	// Aborted means per-replica scan errors occurred but no checksum
	// mismatches were found.
	Aborted
	// Corruption means replica checksums disagree, or the consistency
	// checker found an error-level finding.
	Corruption
	// InternalAssertion means an invariant the implementation relies on was
	// violated; this only happens on a programming error.
	InternalAssertion
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case NotFound:
		return "not-found"
	case ServiceUnavailable:
		return "service-unavailable"
	case NetworkError:
		return "network-error"
	case TimedOut:
		return "timed-out"
	case Aborted:
		return "aborted"
	case Corruption:
		return "corruption"
	case InternalAssertion:
		return "internal-assertion"
	default:
		return fmt.Sprintf("status.Kind(%d)", int(k))
	}
}

// ExitCode is the process exit status the enclosing command line maps each
// Kind to. OK is 0; every other kind is a distinct small positive integer so
// scripts driving ksck can distinguish them.
func (k Kind) ExitCode() int {
	switch k {
	case OK:
		return 0
	case NotFound:
		return 2
	case ServiceUnavailable:
		return 3
	case NetworkError:
		return 4
	case TimedOut:
		return 5
	case Aborted:
		return 6
	case Corruption:
		return 7
	case InternalAssertion:
		return 8
	default:
		return 1
	}
}

// Status is a ksck outcome: a Kind plus a human-readable explanation. It
// satisfies the error interface so it can be returned, wrapped, and matched
// with errors.As like any other error produced via github.com/cockroachdb/errors.
type Status struct {
	Kind Kind
	msg  string
}

// New constructs a Status with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Status {
	return &Status{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// OKStatus is the canonical success value.
func OKStatus() *Status {
	return &Status{Kind: OK, msg: "OK"}
}

func (s *Status) Error() string {
	if s == nil {
		return OKStatus().Error()
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.msg)
}

// Ok reports whether the status is the success kind.
func (s *Status) Ok() bool {
	return s == nil || s.Kind == OK
}

// As allows errors.As(err, &s), with s a *status.Status, to unwrap a Status
// out of a chain built with errors.Wrap.
func (s *Status) As(target interface{}) bool {
	t, ok := target.(**Status)
	if !ok {
		return false
	}
	*t = s
	return true
}

// Wrap attaches additional context to a Status's message while preserving
// its Kind, mirroring errors.Wrap's call convention.
func Wrap(s *Status, msg string) *Status {
	if s == nil {
		return nil
	}
	return &Status{Kind: s.Kind, msg: msg + ": " + s.msg}
}

// FromError extracts a *Status from any error chain, or reports false if
// none is present.
func FromError(err error) (*Status, bool) {
	var s *Status
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}
