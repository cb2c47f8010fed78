package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/autotyper/internal/cmd"
	"github.com/Alia5/autotyper/internal/config"
)

func TestConfigInitRoundTrip(t *testing.T) {
	tests := []struct {
		format      string
		loader      kong.ConfigurationLoader
		unsupported string
	}{
		{format: "json", loader: kong.JSON, unsupported: `"show_unsupported": false`},
		{format: "yaml", loader: kongyaml.Loader, unsupported: "show-unsupported: false"},
		{format: "toml", loader: kongtoml.Loader, unsupported: "show-unsupported = false"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "autotyper."+tt.format)
			require.NoError(t, (&cmd.ConfigInit{Format: tt.format, Output: path}).Run())

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			edited := string(data)
			for old, repl := range map[string]string{
				"0.25":         "1.5",
				"0.06":         "0.5",
				tt.unsupported: strings.Replace(tt.unsupported, "false", "true", 1),
				"info":         "debug",
			} {
				require.Contains(t, edited, old)
				edited = strings.Replace(edited, old, repl, 1)
			}
			require.NoError(t, os.WriteFile(path, []byte(edited), 0o600))

			var cli config.CLI
			parser, err := kong.New(&cli, kong.Configuration(tt.loader, path))
			require.NoError(t, err)
			_, err = parser.Parse([]string{"type"})
			require.NoError(t, err)

			assert.Equal(t, 1.5, cli.Type.PrimeDelay)
			assert.Equal(t, 0.5, cli.Type.Rate)
			assert.True(t, cli.Type.ShowUnsupported)
			assert.Equal(t, 5.0, cli.Type.Wait)
			assert.Equal(t, "auto", cli.Type.Layout)
			assert.Equal(t, "debug", cli.Log.Level)
		})
	}
}

func TestConfigFlagOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autotyper.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rate": 0.5, "layout": "fr-azerty"}`), 0o600))

	var cli config.CLI
	parser, err := kong.New(&cli, kong.Configuration(kong.JSON, path))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"type", "--rate", "0.1"})
	require.NoError(t, err)

	assert.Equal(t, 0.1, cli.Type.Rate)
	assert.Equal(t, "fr-azerty", cli.Type.Layout)
}
