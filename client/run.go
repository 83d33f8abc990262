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
package client

import (
	"flag"
	"fmt"
	"io"
	"os"

	"archon-postgrest/config"
	"archon-postgrest/logging"
)

func newFlagSet(output io.Writer) (*flag.FlagSet, *string, *string) {
	flagSet := flag.NewFlagSet("client", flag.ContinueOnError)
	flagSet.SetOutput(output)
	mode := flagSet.String("mode", "", "client mode: local or cloud (default: inferred from -marker)")
	marker := flagSet.String("marker", "", "substring of SUPABASE_URL identifying the local gateway")
	return flagSet, mode, marker
}

func Usage(w io.Writer) {
	fmt.Fprintf(w, "Usage of %s client:\n", os.Args[0])
	flagSet, _, _ := newFlagSet(w)
	flagSet.PrintDefaults()
}

// Run builds a client from the loaded gateway config and reports which
// variant was selected. Returns the process exit status.
func Run(args []string, stdout io.Writer) int {
	cfg := *config.GetGatewayConfig()
	log := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogJSON)
	return run(&cfg, log, args, stdout)
}

func run(cfg *config.GatewayConfig, log Logger, args []string, stdout io.Writer) int {
	flagSet, mode, marker := newFlagSet(stdout)
	if err := flagSet.Parse(args); err != nil {
		return 1
	}
	if len(*mode) > 0 {
		cfg.ClientMode = *mode
	}
	if len(*marker) > 0 {
		cfg.LocalGatewayMarker = *marker
	}

	h, err := FromConfig(cfg, log)
	if err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "mode: %s\n", h.Mode)
	if len(h.ProjectID) > 0 {
		fmt.Fprintf(stdout, "project_id: %s\n", h.ProjectID)
	}
	return 0
}
