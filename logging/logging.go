// Copyright 2021 The Board of Trustees of the Leland Stanford Junior University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-logr/logr"
)

// New returns a slog.Logger writing to stdout.
func New(level slog.Level, outputJSON bool) *slog.Logger {
	return newWithWriter(os.Stdout, level, outputJSON)
}

func newWithWriter(w io.Writer, level slog.Level, outputJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if outputJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("component", "archon")
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logr adapts a logr.Logger to the Debug/Error logger the client factory takes.
type Logr struct {
	logr.Logger
}

// FromLogr wraps l. Debug lines are emitted at verbosity 1.
func FromLogr(l logr.Logger) Logr {
	return Logr{l}
}

func (l Logr) Debug(msg string, args ...any) {
	l.Logger.V(1).Info(msg, args...)
}

// Error logs at error level. An "error" key in args is lifted into the
// logr error argument.
func (l Logr) Error(msg string, args ...any) {
	var err error
	rest := make([]any, 0, len(args))
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			if key, ok := args[i].(string); ok && key == "error" {
				if e, ok := args[i+1].(error); ok {
					err = e
					continue
				}
			}
			rest = append(rest, args[i], args[i+1])
		} else {
			rest = append(rest, args[i])
		}
	}
	l.Logger.Error(err, msg, rest...)
}
