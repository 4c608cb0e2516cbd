package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_LoadFilterKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter_keywords.toml")
	err := os.WriteFile(path, []byte(`
exclude = ["mlm"]
override = ["developer"]
high_priority = ["urgent"]
`), 0o644)
	require.NoError(t, err)

	keywords, err := LoadFilterKeywords(path)
	require.NoError(t, err)
	require.Equal(t, []string{"mlm"}, keywords.Exclude)
	require.Equal(t, []string{"developer"}, keywords.Override)
	require.Equal(t, []string{"urgent"}, keywords.HighPriority)

	_, err = LoadFilterKeywords(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
