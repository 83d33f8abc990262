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

// Package metrics holds the prometheus counters of the archon tools. The
// tools are one-shot, so the registry is dumped to a node-exporter textfile
// instead of being scraped.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var Registry = prometheus.NewRegistry()

var (
	TokensSigned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archon",
		Name:      "tokens_signed_total",
		Help:      "Number of role tokens signed.",
	}, []string{"role"})

	ClientConstructions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archon",
		Name:      "client_constructions_total",
		Help:      "Number of database client constructions by mode and result.",
	}, []string{"mode", "result"})
)

func init() {
	Registry.MustRegister(TokensSigned, ClientConstructions)
}

// WriteTextfile writes the registry to path. An empty path is a no-op.
func WriteTextfile(path string) error {
	if len(path) == 0 {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
