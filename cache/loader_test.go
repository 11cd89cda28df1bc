package cache

import (
	"context"
	"debug/buildinfo"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginLoader_LoadFailure(t *testing.T) {
	executable, err := os.Executable()
	require.Nil(t, err)
	binary, err := os.ReadFile(executable)
	require.Nil(t, err)
	var testifyBuilt bool
	if built, err := buildinfo.ReadFile(executable); err == nil {
		for _, dep := range built.Deps {
			testifyBuilt = testifyBuilt || dep.Path == "github.com/stretchr/testify"
		}
	}
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "Outdated_1.so"), binary, 0o644))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "Outdated_1.pinf"), []byte(`{"Name":"Outdated_1","Runtime":{"Version":"1.0.1"}}`), 0o644))

	var testCases = []struct {
		description       string
		infoURL           string
		running           []string
		expectDifferences bool
	}{
		{
			description:       "incompatible runtime with dependency difference",
			infoURL:           filepath.Join(dir, "Outdated_1.pinf"),
			running:           []string{"github.com/stretchr/testify@v0.0.1"},
			expectDifferences: true,
		},
		{
			description: "incompatible runtime with the same dependencies",
			infoURL:     filepath.Join(dir, "Outdated_1.pinf"),
		},
		{
			description: "missing plugin info",
			infoURL:     filepath.Join(dir, "Missing_1.pinf"),
			running:     []string{"github.com/stretchr/testify@v0.0.1"},
		},
	}
	for _, testCase := range testCases {
		loader := NewPluginLoader()
		loader.running = func() []string { return testCase.running }
		_, err := loader.Load(context.Background(), testCase.infoURL)
		loadErr := &LoadError{}
		if !assert.True(t, errors.As(err, &loadErr), testCase.description) {
			continue
		}
		if testCase.expectDifferences && !testifyBuilt {
			continue
		}
		if !testCase.expectDifferences {
			assert.Empty(t, loadErr.Differences, testCase.description)
			continue
		}
		require.Len(t, loadErr.Differences, 1, testCase.description)
		assert.True(t, strings.HasPrefix(loadErr.Differences[0], "github.com/stretchr/testify: "), testCase.description)
		assert.True(t, strings.HasSuffix(loadErr.Differences[0], " <-> v0.0.1"), testCase.description)
		assert.Contains(t, err.Error(), "dependency difference", testCase.description)
	}
}
