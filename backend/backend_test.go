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
package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"archon-postgrest/config"
)

// TestIntegration runs a backend command against the configured gateway.
func TestIntegration(t *testing.T) {
	if os.Getenv("ENABLE_INTEGRATION") != "true" {
		log.Printf("Skipp non-integration test")
		return
	}

	args := strings.Split(os.Getenv("INTEGRATION_ARGS"), " ")

	err := config.InitGatewayConfig()
	require.Nil(t, err)

	require.GreaterOrEqual(t, len(args), 1)
	require.Equal(t, 0, dispatch(args[0], args[1:]))
}

func TestDispatchUnknownCommand(t *testing.T) {
	require.Equal(t, 1, dispatch("dbproxy", nil))
}

func TestDispatchWritesMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archon.prom")
	t.Setenv(config.EnvMetricsTextfile, path)
	t.Setenv(config.EnvConfigDir, t.TempDir())
	require.NoError(t, config.InitGatewayConfig())

	require.Equal(t, 0, dispatch("generate-jwt-tokens", []string{"s3cr3t"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `archon_tokens_signed_total{role="anon"}`)
}
