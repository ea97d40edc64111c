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

// Package logutil is a small, context-aware logger in the style of the
// teacher's pkg/util/log: call sites pass a context.Context so that tags
// attached earlier (server uuid, tablet id, ...) are rendered into every
// line, and severities map onto the INFO:/WARNING:/ERROR: prefixes ksck's
// output format requires.
package logutil

import (
	"context"
	"fmt"

	"github.com/cockroachdb/logtags"
	"go.uber.org/zap"
)

// WithTag returns a derived context carrying an additional log tag,
// mirroring the teacher's logtags.AddTag(ctx, key, value) call convention
// (e.g. tagging a context with the tablet server uuid a callback runs
// against).
func WithTag(ctx context.Context, key string, value interface{}) context.Context {
	return logtags.AddTag(ctx, key, value)
}

func tagsOf(ctx context.Context) string {
	buf := logtags.FromContext(ctx)
	if buf == nil {
		return ""
	}
	s := fmt.Sprint(buf)
	if s == "" {
		return ""
	}
	return "[" + s + "] "
}

// Logger is the concrete sink; a single process-wide instance is used via
// the package-level helpers below, matching the teacher's global log.Infof
// convention.
type Logger struct {
	zap *zap.SugaredLogger
}

var std = New()

// New builds a Logger backed by a production zap config writing to stderr.
func New() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.LevelKey = ""
	cfg.EncoderConfig.CallerKey = ""
	l, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger; logging must never crash the tool.
		l = zap.NewNop()
	}
	return &Logger{zap: l.Sugar()}
}

// SetStd replaces the package-level logger, used by tests to capture output.
func SetStd(l *Logger) { std = l }

func (l *Logger) Infof(ctx context.Context, format string, args ...interface{}) {
	l.zap.Infof("INFO: %s%s", tagsOf(ctx), fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(ctx context.Context, format string, args ...interface{}) {
	l.zap.Warnf("WARNING: %s%s", tagsOf(ctx), fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(ctx context.Context, format string, args ...interface{}) {
	l.zap.Errorf("ERROR: %s%s", tagsOf(ctx), fmt.Sprintf(format, args...))
}

// Infof logs at INFO severity through the package-level logger.
func Infof(ctx context.Context, format string, args ...interface{}) { std.Infof(ctx, format, args...) }

// Warningf logs at WARNING severity through the package-level logger.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	std.Warningf(ctx, format, args...)
}

// Errorf logs at ERROR severity through the package-level logger.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	std.Errorf(ctx, format, args...)
}
