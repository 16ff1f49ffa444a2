package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"

	vgfs "github.com/tezedge/tezedge-snapshots/libs/fs"
)

// AppHome is the name of the folder the application files are nested into,
// under the standard system paths.
const AppHome = "tezedge-snapshots"

// CachePath is a path to a file or directory holding disposable data, living
// under the cache home.
type CachePath string

func (p CachePath) String() string {
	return string(p)
}

// ConfigPath is a path to a file or directory holding configuration, living
// under the config home.
type ConfigPath string

func (p ConfigPath) String() string {
	return string(p)
}

// DataPath is a path to a file or directory holding valuable data, living
// under the data home.
type DataPath string

func (p DataPath) String() string {
	return string(p)
}

// StatePath is a path to a file or directory holding recoverable state, like
// logs, living under the state home.
type StatePath string

func (p StatePath) String() string {
	return string(p)
}

func JoinCachePath(p CachePath, elems ...string) CachePath {
	return CachePath(filepath.Join(append([]string{p.String()}, elems...)...))
}

func JoinConfigPath(p ConfigPath, elems ...string) ConfigPath {
	return ConfigPath(filepath.Join(append([]string{p.String()}, elems...)...))
}

func JoinDataPath(p DataPath, elems ...string) DataPath {
	return DataPath(filepath.Join(append([]string{p.String()}, elems...)...))
}

func JoinStatePath(p StatePath, elems ...string) StatePath {
	return StatePath(filepath.Join(append([]string{p.String()}, elems...)...))
}

// File and directory names used by the application.
var (
	// DefaultConfigFile is the location of the snapshotter configuration,
	// relative to the config home.
	DefaultConfigFile = ConfigPath("config.toml")

	// LogsStateHome is where process logs may be dumped, relative to the
	// state home.
	LogsStateHome = StatePath("logs")
)

// CustomPaths lays every file out under a single custom root, mirroring the
// standard homes as sub-folders. Handy for isolated or throwaway setups.
type CustomPaths struct {
	CustomHome string
}

func (p *CustomPaths) CachePathFor(relPath CachePath) string {
	return filepath.Join(p.CustomHome, "cache", relPath.String())
}

func (p *CustomPaths) ConfigPathFor(relPath ConfigPath) string {
	return filepath.Join(p.CustomHome, "config", relPath.String())
}

func (p *CustomPaths) DataPathFor(relPath DataPath) string {
	return filepath.Join(p.CustomHome, "data", relPath.String())
}

func (p *CustomPaths) StatePathFor(relPath StatePath) string {
	return filepath.Join(p.CustomHome, "state", relPath.String())
}

func (p *CustomPaths) CreateCachePathFor(relPath CachePath) (string, error) {
	return createFilePath(p.CachePathFor(relPath))
}

func (p *CustomPaths) CreateCacheDirFor(relPath CachePath) (string, error) {
	return createDirPath(p.CachePathFor(relPath))
}

func (p *CustomPaths) CreateConfigPathFor(relPath ConfigPath) (string, error) {
	return createFilePath(p.ConfigPathFor(relPath))
}

func (p *CustomPaths) CreateConfigDirFor(relPath ConfigPath) (string, error) {
	return createDirPath(p.ConfigPathFor(relPath))
}

func (p *CustomPaths) CreateDataPathFor(relPath DataPath) (string, error) {
	return createFilePath(p.DataPathFor(relPath))
}

func (p *CustomPaths) CreateDataDirFor(relPath DataPath) (string, error) {
	return createDirPath(p.DataPathFor(relPath))
}

func (p *CustomPaths) CreateStatePathFor(relPath StatePath) (string, error) {
	return createFilePath(p.StatePathFor(relPath))
}

func (p *CustomPaths) CreateStateDirFor(relPath StatePath) (string, error) {
	return createDirPath(p.StatePathFor(relPath))
}

// DefaultPaths resolves files against the standard XDG base directories.
type DefaultPaths struct{}

func (p *DefaultPaths) CachePathFor(relPath CachePath) string {
	return filepath.Join(xdg.CacheHome, AppHome, relPath.String())
}

func (p *DefaultPaths) ConfigPathFor(relPath ConfigPath) string {
	return filepath.Join(xdg.ConfigHome, AppHome, relPath.String())
}

func (p *DefaultPaths) DataPathFor(relPath DataPath) string {
	return filepath.Join(xdg.DataHome, AppHome, relPath.String())
}

func (p *DefaultPaths) StatePathFor(relPath StatePath) string {
	return filepath.Join(xdg.StateHome, AppHome, relPath.String())
}

func (p *DefaultPaths) CreateCachePathFor(relPath CachePath) (string, error) {
	return createFilePath(p.CachePathFor(relPath))
}

func (p *DefaultPaths) CreateCacheDirFor(relPath CachePath) (string, error) {
	return createDirPath(p.CachePathFor(relPath))
}

func (p *DefaultPaths) CreateConfigPathFor(relPath ConfigPath) (string, error) {
	return createFilePath(p.ConfigPathFor(relPath))
}

func (p *DefaultPaths) CreateConfigDirFor(relPath ConfigPath) (string, error) {
	return createDirPath(p.ConfigPathFor(relPath))
}

func (p *DefaultPaths) CreateDataPathFor(relPath DataPath) (string, error) {
	return createFilePath(p.DataPathFor(relPath))
}

func (p *DefaultPaths) CreateDataDirFor(relPath DataPath) (string, error) {
	return createDirPath(p.DataPathFor(relPath))
}

func (p *DefaultPaths) CreateStatePathFor(relPath StatePath) (string, error) {
	return createFilePath(p.StatePathFor(relPath))
}

func (p *DefaultPaths) CreateStateDirFor(relPath StatePath) (string, error) {
	return createDirPath(p.StatePathFor(relPath))
}

func createFilePath(fullPath string) (string, error) {
	if err := vgfs.EnsureDir(filepath.Dir(fullPath)); err != nil {
		return "", err
	}
	return fullPath, nil
}

func createDirPath(fullPath string) (string, error) {
	if err := vgfs.EnsureDir(fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}
