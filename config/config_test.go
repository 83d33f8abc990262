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
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	tmpDir string
}

var testSecret = `
SUPABASE_SERVICE_KEY: "service key"
JWT_SECRET: "jwt secret"
OTHER_SECRET: "other secret"
`
var testConfig = `
SUPABASE_URL: http://archon-postgrest:3000
LOG_JSON: true
OTHER_CONFIG: "other config"
`
var testOverride = `{"CLIENT_MODE": "local", "LOG_LEVEL": "debug"}`

func (s *ConfigSuite) SetupSuite() {
	s.tmpDir = s.T().TempDir()
	configDir := path.Join(s.tmpDir, "config.d")
	require.NoError(s.T(), os.Mkdir(configDir, 0755))
	require.NoError(s.T(), os.WriteFile(path.Join(configDir, "config.yaml"), []byte(testConfig), 0644))
	require.NoError(s.T(), os.WriteFile(path.Join(configDir, "secret.yaml"), []byte(testSecret), 0644))
	require.NoError(s.T(), os.WriteFile(path.Join(configDir, "override.json"), []byte(testOverride), 0644))
}

func (s *ConfigSuite) SetupTest() {
	for _, key := range []string{EnvSupabaseURL, EnvSupabaseServiceKey, EnvClientMode,
		EnvLocalGatewayMarker, EnvJWTSecret, EnvLogLevel, EnvLogJSON, EnvMetricsTextfile} {
		s.T().Setenv(key, "")
	}
}

func TestGatewayConfig(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestNewFromEnvDefaults() {
	c := NewFromEnv()
	require.Equal(s.T(), DefaultLocalGatewayMarker, c.LocalGatewayMarker)
	require.Equal(s.T(), "info", c.LogLevel)
	require.False(s.T(), c.LogJSON)
	require.Equal(s.T(), "", c.SupabaseURL)
}

func (s *ConfigSuite) TestNewFromEnv() {
	s.T().Setenv(EnvSupabaseURL, "https://abc.supabase.co")
	s.T().Setenv(EnvSupabaseServiceKey, "key")
	s.T().Setenv(EnvLocalGatewayMarker, "my-postgrest")
	s.T().Setenv(EnvLogJSON, "true")
	c := NewFromEnv()
	require.Equal(s.T(), "https://abc.supabase.co", c.SupabaseURL)
	require.Equal(s.T(), "key", c.SupabaseServiceKey)
	require.Equal(s.T(), "my-postgrest", c.LocalGatewayMarker)
	require.True(s.T(), c.LogJSON)
}

func (s *ConfigSuite) TestParseGatewayConfig() {
	c := NewFromEnv()
	err := ParseGatewayConfig(path.Join(s.tmpDir, "config.d"), c)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "http://archon-postgrest:3000", c.SupabaseURL)
	require.Equal(s.T(), "service key", c.SupabaseServiceKey)
	require.Equal(s.T(), "jwt secret", c.JWTSecret)
	require.Equal(s.T(), "local", c.ClientMode)
	require.Equal(s.T(), "debug", c.LogLevel)
	require.True(s.T(), c.LogJSON)
	require.Equal(s.T(), DefaultLocalGatewayMarker, c.LocalGatewayMarker)
}

func (s *ConfigSuite) TestParseGatewayConfigMissingDir() {
	err := ParseGatewayConfig(path.Join(s.tmpDir, "missing"), NewFromEnv())
	require.True(s.T(), os.IsNotExist(err))
}

func (s *ConfigSuite) TestParseYAMLInvalid() {
	f := path.Join(s.tmpDir, "broken.yaml")
	require.NoError(s.T(), os.WriteFile(f, []byte("SUPABASE_URL: [unterminated"), 0644))
	require.Error(s.T(), ParseYAML(f, NewFromEnv()))
}

func (s *ConfigSuite) TestInitGatewayConfig() {
	s.T().Setenv(EnvConfigDir, path.Join(s.tmpDir, "missing"))
	s.T().Setenv(EnvSupabaseURL, "https://abc.supabase.co")
	require.NoError(s.T(), InitGatewayConfig())
	require.Equal(s.T(), "https://abc.supabase.co", GetGatewayConfig().SupabaseURL)

	s.T().Setenv(EnvConfigDir, s.tmpDir)
	require.NoError(s.T(), InitGatewayConfig())
	c := GetGatewayConfig()
	require.Equal(s.T(), "http://archon-postgrest:3000", c.SupabaseURL)
	require.Equal(s.T(), "service key", c.SupabaseServiceKey)
}

func (s *ConfigSuite) TestLoadDotEnv() {
	f := path.Join(s.T().TempDir(), ".env")
	require.NoError(s.T(), os.WriteFile(f, []byte("ARCHON_DOTENV_TEST=from-dotenv\n"), 0644))
	s.T().Cleanup(func() { os.Unsetenv("ARCHON_DOTENV_TEST") })

	LoadDotEnv(f)
	require.Equal(s.T(), "from-dotenv", os.Getenv("ARCHON_DOTENV_TEST"))

	LoadDotEnv(path.Join(s.tmpDir, "no-such.env"))
}
