package readability

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig().Build()
	require.NoError(t, err)

	require.True(t, cfg.stripUnlikely)
	require.True(t, cfg.weightClasses)
	require.True(t, cfg.cleanConditionally)
	require.Equal(t, 5, cfg.nTopCandidates)
	require.Equal(t, 500, cfg.charThreshold)
	require.Equal(t, []string{"page"}, cfg.classesToPreserve)
}

func TestConfigBuilderChaining(t *testing.T) {
	base, err := url.Parse("https://example.test/")
	require.NoError(t, err)

	cfg, err := NewConfig().
		WithStripUnlikely(false).
		WithWeightClasses(false).
		WithCleanConditionally(false).
		WithBaseURL(base).
		WithURLOverride(true).
		WithNTopCandidates(3).
		WithCharThreshold(100).
		WithClassesToPreserve([]string{"keep-me"}).
		Build()
	require.NoError(t, err)

	require.False(t, cfg.stripUnlikely)
	require.False(t, cfg.weightClasses)
	require.False(t, cfg.cleanConditionally)
	require.Equal(t, base, cfg.baseURL)
	require.True(t, cfg.urlOverride)
	require.Equal(t, 3, cfg.nTopCandidates)
	require.Equal(t, 100, cfg.charThreshold)
	require.Equal(t, []string{"keep-me"}, cfg.classesToPreserve)
}

func TestWithConfigFileLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	contents := `{"stripUnlikely": false, "charThreshold": 42, "baseUrl": "https://example.test/a/"}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := WithConfigFile(path)
	require.NoError(t, err)

	require.False(t, cfg.stripUnlikely)
	require.True(t, cfg.weightClasses) // untouched default
	require.Equal(t, 42, cfg.charThreshold)
	require.NotNil(t, cfg.baseURL)
	require.Equal(t, "https://example.test/a/", cfg.baseURL.String())
}

func TestWithConfigFileMissingFile(t *testing.T) {
	_, err := WithConfigFile("/nonexistent/path/config.json")
	require.Error(t, err)
}

func TestWithConfigFileInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := WithConfigFile(path)
	require.Error(t, err)
}
