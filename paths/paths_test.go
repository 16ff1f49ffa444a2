package paths_test

import (
	"path/filepath"
	"testing"

	vgrand "github.com/tezedge/tezedge-snapshots/libs/rand"
	vgtest "github.com/tezedge/tezedge-snapshots/libs/test"
	"github.com/tezedge/tezedge-snapshots/paths"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	t.Run("Joining config path succeeds", testJoiningConfigPathSucceeds)
	t.Run("Joining cache path succeeds", testJoiningCachePathSucceeds)
	t.Run("Joining data path succeeds", testJoiningDataPathSucceeds)
	t.Run("Joining state path succeeds", testJoiningStatePathSucceeds)
	t.Run("Custom paths nest homes under the custom root", testCustomPathsNestHomesUnderTheCustomRoot)
	t.Run("Creating config path ensures the parent directory", testCreatingConfigPathEnsuresTheParentDirectory)
	t.Run("Creating state dir ensures the directory itself", testCreatingStateDirEnsuresTheDirectoryItself)
	t.Run("Structured file round trip succeeds", testStructuredFileRoundTripSucceeds)
}

func testJoiningConfigPathSucceeds(t *testing.T) {
	// given
	pathElem1 := vgrand.RandomStr(5)
	pathElem2 := vgrand.RandomStr(5)

	// when
	builtPath := paths.JoinConfigPath(paths.ConfigPath(pathElem1), pathElem2)

	// then
	assert.Equal(t, paths.ConfigPath(filepath.Join(pathElem1, pathElem2)), builtPath)
}

func testJoiningCachePathSucceeds(t *testing.T) {
	// given
	pathElem1 := vgrand.RandomStr(5)
	pathElem2 := vgrand.RandomStr(5)

	// when
	builtPath := paths.JoinCachePath(paths.CachePath(pathElem1), pathElem2)

	// then
	assert.Equal(t, paths.CachePath(filepath.Join(pathElem1, pathElem2)), builtPath)
}

func testJoiningDataPathSucceeds(t *testing.T) {
	// given
	pathElem1 := vgrand.RandomStr(5)
	pathElem2 := vgrand.RandomStr(5)

	// when
	builtPath := paths.JoinDataPath(paths.DataPath(pathElem1), pathElem2)

	// then
	assert.Equal(t, paths.DataPath(filepath.Join(pathElem1, pathElem2)), builtPath)
}

func testJoiningStatePathSucceeds(t *testing.T) {
	// given
	pathElem1 := vgrand.RandomStr(5)
	pathElem2 := vgrand.RandomStr(5)

	// when
	builtPath := paths.JoinStatePath(paths.LogsStateHome, pathElem1, pathElem2)

	// then
	assert.Equal(t, paths.StatePath(filepath.Join("logs", pathElem1, pathElem2)), builtPath)
}

func testCustomPathsNestHomesUnderTheCustomRoot(t *testing.T) {
	// given
	home := t.TempDir()
	customPaths := &paths.CustomPaths{CustomHome: home}

	// then
	assert.Equal(t, filepath.Join(home, "config", "config.toml"), customPaths.ConfigPathFor(paths.DefaultConfigFile))
	assert.Equal(t, filepath.Join(home, "cache", "scratch"), customPaths.CachePathFor("scratch"))
	assert.Equal(t, filepath.Join(home, "data", "exports"), customPaths.DataPathFor("exports"))
	assert.Equal(t, filepath.Join(home, "state", "logs"), customPaths.StatePathFor(paths.LogsStateHome))
}

func testCreatingConfigPathEnsuresTheParentDirectory(t *testing.T) {
	// given
	home := t.TempDir()
	customPaths := &paths.CustomPaths{CustomHome: home}

	// when
	fullPath, err := customPaths.CreateConfigPathFor(paths.DefaultConfigFile)

	// then
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config", "config.toml"), fullPath)
	vgtest.AssertDirAccess(t, filepath.Join(home, "config"))
}

func testCreatingStateDirEnsuresTheDirectoryItself(t *testing.T) {
	// given
	home := t.TempDir()
	customPaths := &paths.CustomPaths{CustomHome: home}

	// when
	fullPath, err := customPaths.CreateStateDirFor(paths.LogsStateHome)

	// then
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "state", "logs"), fullPath)
	vgtest.AssertDirAccess(t, fullPath)
}

type structuredFixture struct {
	Name  string
	Count int
}

func testStructuredFileRoundTripSucceeds(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "fixture.toml")
	written := structuredFixture{Name: vgrand.RandomStr(5), Count: 42}

	// when
	err := paths.WriteStructuredFile(path, written)

	// then
	require.NoError(t, err)

	// when
	read := structuredFixture{}
	err = paths.ReadStructuredFile(path, &read)

	// then
	require.NoError(t, err)
	assert.Equal(t, written, read)
}
