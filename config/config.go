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
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvSupabaseURL        = "SUPABASE_URL"
	EnvSupabaseServiceKey = "SUPABASE_SERVICE_KEY"
	EnvClientMode         = "CLIENT_MODE"
	EnvLocalGatewayMarker = "LOCAL_GATEWAY_MARKER"
	EnvJWTSecret          = "JWT_SECRET"
	EnvLogLevel           = "LOG_LEVEL"
	EnvLogJSON            = "LOG_JSON"
	EnvMetricsTextfile    = "METRICS_TEXTFILE"
	EnvConfigDir          = "ARCHON_CONFIG_DIR"
)

// DefaultLocalGatewayMarker is the compose service name of the local PostgREST.
const DefaultLocalGatewayMarker = "archon-postgrest"

const defaultConfigDir = "/etc/archon"

// GatewayConfig with database gateway settings and secrets
type GatewayConfig struct {
	SupabaseURL        string `yaml:"SUPABASE_URL"         json:"SUPABASE_URL"`
	SupabaseServiceKey string `yaml:"SUPABASE_SERVICE_KEY" json:"SUPABASE_SERVICE_KEY"`
	// ClientMode is "local", "cloud" or empty to infer it from LocalGatewayMarker.
	ClientMode         string `yaml:"CLIENT_MODE"          json:"CLIENT_MODE"`
	LocalGatewayMarker string `yaml:"LOCAL_GATEWAY_MARKER" json:"LOCAL_GATEWAY_MARKER"`
	JWTSecret          string `yaml:"JWT_SECRET"           json:"JWT_SECRET"`
	LogLevel           string `yaml:"LOG_LEVEL"            json:"LOG_LEVEL"`
	LogJSON            bool   `yaml:"LOG_JSON"             json:"LOG_JSON"`
	MetricsTextfile    string `yaml:"METRICS_TEXTFILE"     json:"METRICS_TEXTFILE"`
}

var gatewayConfig *GatewayConfig

// NewFromEnv returns a GatewayConfig filled from the process environment.
func NewFromEnv() *GatewayConfig {
	return &GatewayConfig{
		SupabaseURL:        os.Getenv(EnvSupabaseURL),
		SupabaseServiceKey: os.Getenv(EnvSupabaseServiceKey),
		ClientMode:         os.Getenv(EnvClientMode),
		LocalGatewayMarker: getEnv(EnvLocalGatewayMarker, DefaultLocalGatewayMarker),
		JWTSecret:          os.Getenv(EnvJWTSecret),
		LogLevel:           getEnv(EnvLogLevel, "info"),
		LogJSON:            os.Getenv(EnvLogJSON) == "true",
		MetricsTextfile:    os.Getenv(EnvMetricsTextfile),
	}
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); len(v) > 0 {
		return v
	}
	return fallback
}

func init() {
	gatewayConfig = NewFromEnv()
}

// GetGatewayConfig returns GatewayConfig singleton
func GetGatewayConfig() *GatewayConfig {
	return gatewayConfig
}

// LoadDotEnv loads .env files into the environment. Missing files are
// reported but not fatal. Variables already set are not overridden.
func LoadDotEnv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil {
		log.Printf("Warning: failed to load .env file: %v", err)
	}
}

// InitGatewayConfig resets the singleton from the environment and merges
// config files from $ARCHON_CONFIG_DIR/config.d on top of it.
func InitGatewayConfig() error {
	gatewayConfig = NewFromEnv()
	configDir := getEnv(EnvConfigDir, defaultConfigDir)
	err := ParseGatewayConfig(filepath.Join(configDir, "config.d"), gatewayConfig)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ParseGatewayConfig from a directory. Every *.yaml file is applied, then every *.json file.
func ParseGatewayConfig(dirPath string, gatewayConfig *GatewayConfig) error {
	if _, err := os.Stat(dirPath); err != nil {
		return err
	}
	matches, err := filepath.Glob(path.Join(dirPath, "*.yaml"))
	if err != nil {
		return err
	}
	for _, f := range matches {
		if err := ParseYAML(f, gatewayConfig); err != nil {
			return err
		}
	}
	matches, err = filepath.Glob(path.Join(dirPath, "*.json"))
	if err != nil {
		return err
	}
	for _, f := range matches {
		if err := ParseJSON(f, gatewayConfig); err != nil {
			return err
		}
	}
	return nil
}

// ParseYAML from a file path
func ParseYAML(path string, config *GatewayConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}

// ParseJSON from a file path
func ParseJSON(path string, config *GatewayConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, config)
}
