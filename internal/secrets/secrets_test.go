// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "search-api-key", "  brv_abc123  \n")
				writeFile(t, dir, "openai-api-key", "sk_xyz789")
				return dir
			},
			want: map[string]string{
				"search-api-key": "brv_abc123",
				"openai-api-key": "sk_xyz789",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openai-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"openai-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				writeFile(t, dir, "search-api-key", "brv_real")
				return dir
			},
			want: map[string]string{
				"search-api-key": "brv_real",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	loaded := map[string]string{SearchAPIKey: "from-file"}

	t.Run("override wins", func(t *testing.T) {
		t.Setenv("SOURCECHECK_TEST_KEY", "from-env")
		got := Resolve(loaded, "from-flag", "SOURCECHECK_TEST_KEY", SearchAPIKey)
		assert.Equal(t, "from-flag", got)
	})

	t.Run("environment beats secrets file", func(t *testing.T) {
		t.Setenv("SOURCECHECK_TEST_KEY", "from-env")
		got := Resolve(loaded, "", "SOURCECHECK_TEST_KEY", SearchAPIKey)
		assert.Equal(t, "from-env", got)
	})

	t.Run("falls back to secrets file", func(t *testing.T) {
		got := Resolve(loaded, "", "SOURCECHECK_UNSET_KEY", SearchAPIKey)
		assert.Equal(t, "from-file", got)
	})

	t.Run("empty when nothing set", func(t *testing.T) {
		got := Resolve(loaded, "", "SOURCECHECK_UNSET_KEY", "missing")
		assert.Empty(t, got)
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
