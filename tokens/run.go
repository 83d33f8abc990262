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
package tokens

import (
	"fmt"
	"io"
	"os"
)

const usageLine = "Usage: generate-jwt-tokens <JWT_SECRET>"

// Usage prints the command line usage to w.
func Usage(w io.Writer) {
	fmt.Fprintln(w, usageLine)
}

// Run generates and prints both role tokens. args must hold exactly the
// secret. Returns the process exit status.
func Run(args []string, stdout io.Writer) int {
	return run(&Generator{}, args, stdout, os.Stderr)
}

func run(g *Generator, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		Usage(stdout)
		return 1
	}

	pair, err := g.GeneratePair(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if err := Write(stdout, pair); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
