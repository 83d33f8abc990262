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
	"archon-postgrest/client"
	"archon-postgrest/config"
	"archon-postgrest/metrics"
	"archon-postgrest/tokens"
	"fmt"

	"log"
	"os"
)

func main() {
	config.LoadDotEnv()

	err := config.InitGatewayConfig()
	if err != nil {
		log.Printf("Warning: failed to initialize gateway config: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	os.Exit(dispatch(os.Args[1], os.Args[2:]))
}

func dispatch(command string, args []string) int {
	var code int
	switch command {
	case "generate-jwt-tokens":
		code = tokens.Run(args, os.Stdout)
	case "client":
		code = client.Run(args, os.Stdout)
	default:
		usage()
		return 1
	}

	if err := metrics.WriteTextfile(config.GetGatewayConfig().MetricsTextfile); err != nil {
		log.Printf("Warning: failed to write metrics: %v", err)
	}
	return code
}

func usage() {
	fmt.Printf("Usage of %s <command>\n", os.Args[0])
	fmt.Println("commands: generate-jwt-tokens, client")
	tokens.Usage(os.Stdout)
	client.Usage(os.Stdout)
}
