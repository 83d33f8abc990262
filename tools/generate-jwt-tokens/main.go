// Command generate-jwt-tokens prints the anon and service_role tokens
// PostgREST accepts for a given JWT secret.
package main

import (
	"archon-postgrest/tokens"
	"os"
)

func main() {
	os.Exit(tokens.Run(os.Args[1:], os.Stdout))
}
