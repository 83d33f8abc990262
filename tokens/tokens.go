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

// Package tokens mints and verifies the role tokens PostgREST expects.
package tokens

import (
	"errors"
	"fmt"
	"io"
	"time"

	"archon-postgrest/metrics"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the database role a token grants.
type Role string

const (
	RoleAnon        Role = "anon"
	RoleServiceRole Role = "service_role"
)

// Roles in output order.
var Roles = []Role{RoleAnon, RoleServiceRole}

// Lifetime of a generated token. Effectively permanent for a local deployment.
const Lifetime = 3650 * 24 * time.Hour

var ErrUnknownRole = errors.New("unknown role")

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Claims is the token payload: {"role": ..., "exp": ...} and nothing else.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Pair holds the tokens produced for one secret.
type Pair struct {
	Anon        string
	ServiceRole string
}

// Generator signs tokens. Now defaults to time.Now.
type Generator struct {
	Now func() time.Time
}

func (g *Generator) now() time.Time {
	if g == nil || g.Now == nil {
		return time.Now().UTC()
	}
	return g.Now().UTC()
}

// Generate signs a token for role with secret.
func (g *Generator) Generate(secret string, role Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(g.now().Add(Lifetime)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", role, err)
	}
	metrics.TokensSigned.WithLabelValues(string(role)).Inc()
	return token, nil
}

// GeneratePair signs one token per role.
func (g *Generator) GeneratePair(secret string) (Pair, error) {
	anon, err := g.Generate(secret, RoleAnon)
	if err != nil {
		return Pair{}, err
	}
	service, err := g.Generate(secret, RoleServiceRole)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Anon: anon, ServiceRole: service}, nil
}

// Generate signs a token for role using the wall clock.
func Generate(secret string, role Role) (string, error) {
	return (&Generator{}).Generate(secret, role)
}

// GeneratePair signs both role tokens using the wall clock.
func GeneratePair(secret string) (Pair, error) {
	return (&Generator{}).GeneratePair(secret)
}

// Write prints the pair in the labeled layout the setup scripts parse.
func Write(w io.Writer, p Pair) error {
	_, err := fmt.Fprintf(w, "ANON_TOKEN:\n%s\n\nSERVICE_ROLE_TOKEN:\n%s\n", p.Anon, p.ServiceRole)
	return err
}
