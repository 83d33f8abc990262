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

// Package client builds the database REST client used by the server: a
// direct PostgREST client for the local gateway, or a Supabase client for a
// cloud project.
package client

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"archon-postgrest/config"
	"archon-postgrest/metrics"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// Mode selects the client variant.
type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

// Schema exposed by the local gateway.
const Schema = "public"

var (
	ErrMissingConfig = errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set in environment variables")
	ErrUnknownMode   = errors.New("unknown client mode")
)

// Logger is the logging capability the factory needs. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Options for New. Mode must be resolved by the caller.
type Options struct {
	URL    string
	Key    string
	Mode   Mode
	Logger Logger
}

// Handle is the constructed client. Exactly one of REST and Cloud is set,
// according to Mode. The caller owns it; there is nothing to close.
type Handle struct {
	Mode  Mode
	REST  *postgrest.Client
	Cloud *supabase.Client

	// Settings the local client was built with.
	BaseURL string
	Schema  string
	Headers map[string]string

	// ProjectID of a cloud project, when the URL has the usual shape.
	ProjectID string
}

var (
	newRESTClient  = postgrest.NewClient
	newCloudClient = supabase.NewClient
)

var projectIDRegexp *regexp.Regexp

func init() {
	projectIDRegexp = regexp.MustCompile(`^https://([^.]+)\.supabase\.co`)
}

// ProjectID extracts the project id from a https://<id>.supabase.co URL.
func ProjectID(url string) (string, bool) {
	match := projectIDRegexp.FindStringSubmatch(url)
	if match == nil || len(match) < 2 {
		return "", false
	}
	return match[1], true
}

// ResolveMode picks local mode when url contains marker, cloud otherwise.
// An empty marker never matches.
func ResolveMode(url string, marker string) Mode {
	if len(marker) > 0 && strings.Contains(url, marker) {
		return ModeLocal
	}
	return ModeCloud
}

// ParseMode parses an explicit mode setting. The empty string is returned
// as is and means the mode is not set.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return "", nil
	case ModeLocal:
		return ModeLocal, nil
	case ModeCloud:
		return ModeCloud, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func checkConfig(url string, key string) error {
	if len(url) == 0 || len(key) == 0 {
		return ErrMissingConfig
	}
	return nil
}

// New constructs the client selected by opts.Mode. Construction errors are
// logged and returned unchanged.
func New(opts Options) (*Handle, error) {
	if err := checkConfig(opts.URL, opts.Key); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	var (
		h   *Handle
		err error
	)
	switch opts.Mode {
	case ModeLocal:
		h, err = newLocal(opts.URL, opts.Key, log)
	case ModeCloud:
		h, err = newCloud(opts.URL, opts.Key, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, opts.Mode)
	}
	if err != nil {
		metrics.ClientConstructions.WithLabelValues(string(opts.Mode), "error").Inc()
		log.Error("failed to create Supabase client", "error", err)
		return nil, err
	}
	metrics.ClientConstructions.WithLabelValues(string(opts.Mode), "ok").Inc()
	return h, nil
}

func newLocal(url string, key string, log Logger) (*Handle, error) {
	log.Debug("local PostgREST detected", "url", url)

	headers := map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	}
	clientHeaders := make(map[string]string, len(headers))
	for k, v := range headers {
		clientHeaders[k] = v
	}
	rest := newRESTClient(url, Schema, clientHeaders)
	if rest == nil {
		return nil, errors.New("postgrest client is nil")
	}
	if rest.ClientError != nil {
		return nil, rest.ClientError
	}

	log.Debug("PostgREST client initialized for local database")
	return &Handle{
		Mode:    ModeLocal,
		REST:    rest,
		BaseURL: url,
		Schema:  Schema,
		Headers: headers,
	}, nil
}

func newCloud(url string, key string, log Logger) (*Handle, error) {
	cloud, err := newCloudClient(url, key, &supabase.ClientOptions{Schema: Schema})
	if err != nil {
		return nil, err
	}

	h := &Handle{Mode: ModeCloud, Cloud: cloud}
	if projectID, ok := ProjectID(url); ok {
		h.ProjectID = projectID
		log.Debug("Supabase client initialized", "project_id", projectID)
	}
	return h, nil
}

// FromEnv reads SUPABASE_URL and SUPABASE_SERVICE_KEY on every call and
// builds the client, using local mode when the URL contains marker.
func FromEnv(log Logger, marker string) (*Handle, error) {
	url := os.Getenv(config.EnvSupabaseURL)
	key := os.Getenv(config.EnvSupabaseServiceKey)
	if err := checkConfig(url, key); err != nil {
		return nil, err
	}
	return New(Options{
		URL:    url,
		Key:    key,
		Mode:   ResolveMode(url, marker),
		Logger: log,
	})
}

// FromConfig builds the client from cfg. An explicit CLIENT_MODE wins over
// the gateway marker.
func FromConfig(cfg *config.GatewayConfig, log Logger) (*Handle, error) {
	if err := checkConfig(cfg.SupabaseURL, cfg.SupabaseServiceKey); err != nil {
		return nil, err
	}
	mode, err := ParseMode(cfg.ClientMode)
	if err != nil {
		return nil, err
	}
	if len(mode) == 0 {
		mode = ResolveMode(cfg.SupabaseURL, cfg.LocalGatewayMarker)
	}
	return New(Options{
		URL:    cfg.SupabaseURL,
		Key:    cfg.SupabaseServiceKey,
		Mode:   mode,
		Logger: log,
	})
}
