package driver

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scilla/internal/format"
)

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestCollectSources(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/work/a.scilla":            "",
		"/work/lib/b.scillib":       "",
		"/work/lib/deep/c.scilla":   "",
		"/work/notes.txt":           "",
		"/work/lib/deep/d.scilla.x": "",
		"/other/e.scilla":           "",
	})

	files, err := CollectSources(context.Background(), fs, []string{"/work", "/other/e.scilla", "/work/a.scilla", "/work/notes.txt"})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"/other/e.scilla",
		"/work/a.scilla",
		"/work/lib/b.scillib",
		"/work/lib/deep/c.scilla",
	}, files)
}

func TestCollectSourcesMissingPath(t *testing.T) {
	_, err := CollectSources(context.Background(), afero.NewMemMapFs(), []string{"/nope"})
	assert.Error(t, err)
}

func TestFormatPathsRewrites(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/work/a.scilla":   "scilla_version   0\n",
		"/work/ok.scilla":  "scilla_version 0 ",
		"/work/bad.scilla": "x end",
	})

	results, err := FormatPaths(context.Background(), fs, []string{"/work"}, FormatOptions{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "/work/a.scilla", results[0].Path)
	assert.True(t, results[0].Changed)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, "/work/bad.scilla", results[1].Path)
	var unbalanced *format.UnbalancedError
	assert.ErrorAs(t, results[1].Err, &unbalanced)

	assert.Equal(t, "/work/ok.scilla", results[2].Path)
	assert.False(t, results[2].Changed)

	data, err := afero.ReadFile(fs, "/work/a.scilla")
	require.NoError(t, err)
	assert.Equal(t, "scilla_version 0 ", string(data))

	data, err = afero.ReadFile(fs, "/work/bad.scilla")
	require.NoError(t, err)
	assert.Equal(t, "x end", string(data))
}

func TestFormatPathsCheck(t *testing.T) {
	fs := memFS(t, map[string]string{"/a.scilla": "scilla_version\t0"})

	results, err := FormatPaths(context.Background(), fs, []string{"/a.scilla"}, FormatOptions{Check: true})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)
	assert.Nil(t, results[0].Formatted)

	data, _ := afero.ReadFile(fs, "/a.scilla")
	assert.Equal(t, "scilla_version\t0", string(data))
}

func TestFormatPathsStdout(t *testing.T) {
	fs := memFS(t, map[string]string{"/a.scilla": "scilla_version\t0"})

	results, err := FormatPaths(context.Background(), fs, []string{"/a.scilla"}, FormatOptions{Stdout: true})

	require.NoError(t, err)
	assert.Equal(t, "scilla_version 0 ", string(results[0].Formatted))

	data, _ := afero.ReadFile(fs, "/a.scilla")
	assert.Equal(t, "scilla_version\t0", string(data))
}

func TestFormatPathsNoSources(t *testing.T) {
	fs := memFS(t, map[string]string{"/work/readme.md": "# hi"})

	_, err := FormatPaths(context.Background(), fs, []string{"/work"}, FormatOptions{})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestFormatPathsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FormatPaths(ctx, afero.NewMemMapFs(), []string{"/"}, FormatOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatPathsReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(memFS(t, map[string]string{"/a.scilla": "scilla_version  0"}))

	results, err := FormatPaths(context.Background(), fs, []string{"/a.scilla"}, FormatOptions{})

	require.NoError(t, err)
	assert.Error(t, results[0].Err)
	assert.False(t, results[0].Changed)
}
