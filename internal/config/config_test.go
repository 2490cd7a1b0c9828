package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t, "localhost:8090", cfg.Server.Addr)
	require.Equal(t, "go", cfg.Server.Runtime)
	require.Empty(t, cfg.CORS.Origins)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		expected    *Config
		expectError string
	}{
		{
			name: "full config",
			content: `
[server]
addr = "0.0.0.0:9000"
runtime = "go-tip"

[cors]
origins = ["http://localhost:3000"]
`,
			expected: &Config{
				Server: ServerConfig{Addr: "0.0.0.0:9000", Runtime: "go-tip"},
				CORS:   CORSConfig{Origins: []string{"http://localhost:3000"}},
			},
		},
		{
			name: "partial config keeps defaults",
			content: `
[server]
addr = "localhost:9999"
`,
			expected: &Config{
				Server: ServerConfig{Addr: "localhost:9999", Runtime: "go"},
			},
		},
		{
			name:        "malformed toml",
			content:     "[server\naddr = ",
			expectError: "failed to decode config",
		},
		{
			name: "empty addr rejected",
			content: `
[server]
addr = "  "
`,
			expectError: "server.addr cannot be empty",
		},
		{
			name: "empty runtime rejected",
			content: `
[server]
runtime = ""
`,
			expectError: "server.runtime cannot be empty",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfigFile(t, tc.content)
			cfg, err := Load(path)
			if tc.expectError != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.expectError)
				require.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, cfg)
		})
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()

	cfg, err := Load("  ")
	require.Error(t, err)
	require.Nil(t, cfg)
}
