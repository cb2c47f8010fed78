package typer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Alia5/autotyper/internal/typer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrideJSON(t *testing.T) {
	type testCase struct {
		name        string
		input       string
		expected    map[rune]string
		expectedErr string
	}

	testCases := []testCase{
		{
			name:     "string entries",
			input:    `{"@": "KEY_0+altgr", "é": "KEY_2"}`,
			expected: map[rune]string{'@': "KEY_0+altgr", 'é': "KEY_2"},
		},
		{
			name:     "object entry",
			input:    `{"|": {"key": "KEY_6", "shift": false, "altgr": true, "ctrl": true}}`,
			expected: map[rune]string{'|': "KEY_6+altgr+ctrl"},
		},
		{
			name:     "malformed spec is not a document error",
			input:    `{"a": "bogus!!"}`,
			expected: map[rune]string{'a': "bogus!!"},
		},
		{
			name:     "empty object",
			input:    `{}`,
			expected: map[rune]string{},
		},
		{
			name:        "not JSON",
			input:       `{"a": `,
			expectedErr: "override JSON",
		},
		{
			name:        "not an object",
			input:       `["KEY_A"]`,
			expectedErr: "invalid override document",
		},
		{
			name:        "multi-character key",
			input:       `{"ab": "KEY_A"}`,
			expectedErr: "invalid override document",
		},
		{
			name:        "number value",
			input:       `{"a": 30}`,
			expectedErr: "invalid override document",
		},
		{
			name:        "object without key",
			input:       `{"a": {"shift": true}}`,
			expectedErr: "invalid override document",
		},
		{
			name:        "unknown object field",
			input:       `{"a": {"key": "KEY_A", "meta": true}}`,
			expectedErr: "invalid override document",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := typer.ParseOverrideJSON(tc.input)
			if tc.expectedErr != "" {
				var ce *typer.ConfigError
				require.ErrorAs(t, err, &ce)
				assert.Contains(t, err.Error(), tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLoadOverrideFile(t *testing.T) {
	dir := t.TempDir()
	expected := map[rune]string{'@': "KEY_0+altgr", '|': "KEY_6+altgr"}

	files := map[string]string{
		"over.json": `{"@": "KEY_0+altgr", "|": {"key": "KEY_6", "altgr": true}}`,
		"over.yaml": "\"@\": KEY_0+altgr\n\"|\":\n  key: KEY_6\n  altgr: true\n",
		"over.yml":  "\"@\": KEY_0+altgr\n\"|\": {key: KEY_6, altgr: true}\n",
		"over.toml": "\"@\" = \"KEY_0+altgr\"\n\n[\"|\"]\nkey = \"KEY_6\"\naltgr = true\n",
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			got, err := typer.LoadOverrideFile(path)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}
}

func TestLoadOverrideFileErrors(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "over.txt")
	require.NoError(t, os.WriteFile(txt, []byte("a=KEY_A"), 0o600))
	_, err := typer.LoadOverrideFile(txt)
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = typer.LoadOverrideFile(filepath.Join(dir, "missing.json"))
	var ce *typer.ConfigError
	assert.ErrorAs(t, err, &ce)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("a: [1, 2]\n"), 0o600))
	_, err = typer.LoadOverrideFile(bad)
	assert.ErrorContains(t, err, "invalid override document")
}
