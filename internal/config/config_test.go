package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gpstime/internal/leapsec"
)

const smallTable = `GPS-UTC (SEC)  YYYY MM DD HH MM SS.SS

  17.          2015 07 01 00 00 00.00
  18.          2017 01 01 00 00 00.00
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newTestResolver isolates a resolver from the real user config dir and
// from any GPS_LEAP_SECOND_FILE set in the environment.
func newTestResolver(t *testing.T, opts ...Option) (*Resolver, string) {
	t.Helper()
	t.Setenv(EnvLeapSecondFile, "")
	dir := filepath.Join(t.TempDir(), AppDirName)
	return NewResolver(append([]Option{WithConfigDir(dir)}, opts...)...), dir
}

func TestResolve_FallsBackToBundled(t *testing.T) {
	r, _ := newTestResolver(t)

	src, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Source{Kind: SourceBundled}, src)
	assert.Equal(t, "bundled", src.String())

	table, src, err := r.Load()
	require.NoError(t, err)
	assert.Equal(t, SourceBundled, src.Kind)
	assert.Equal(t, leapsec.BundledSource, table.Source())
}

func TestResolve_Priority(t *testing.T) {
	r, dir := newTestResolver(t)
	other := t.TempDir()

	userFile := writeFile(t, filepath.Join(dir, TableFileName), smallTable)
	src, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Source{Kind: SourceUserFile, Path: userFile}, src)

	configured := writeFile(t, filepath.Join(other, "configured.BSW"), smallTable)
	writeFile(t, filepath.Join(dir, ConfigFileName), "leap_second_file: "+configured+"\n")
	src, err = r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Source{Kind: SourceConfig, Path: configured}, src)

	fromEnv := writeFile(t, filepath.Join(other, "env.BSW"), smallTable)
	t.Setenv(EnvLeapSecondFile, fromEnv)
	src, err = r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Source{Kind: SourceEnv, Path: fromEnv}, src)

	explicit := writeFile(t, filepath.Join(other, "flag.BSW"), smallTable)
	r = NewResolver(WithConfigDir(dir), WithExplicitPath(explicit))
	src, err = r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Source{Kind: SourceFlag, Path: explicit}, src)
	assert.Contains(t, src.String(), "(flag)")
}

func TestResolve_ConfigRelativePath(t *testing.T) {
	r, dir := newTestResolver(t)
	writeFile(t, filepath.Join(dir, "tables", "mine.BSW"), smallTable)
	writeFile(t, filepath.Join(dir, ConfigFileName), "leap_second_file: tables/mine.BSW\n")

	src, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tables", "mine.BSW"), src.Path)
}

func TestResolve_NamedPathMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.BSW")

	r, _ := newTestResolver(t, WithExplicitPath(missing))
	_, err := r.Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	r, _ = newTestResolver(t)
	t.Setenv(EnvLeapSecondFile, missing)
	_, err = r.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")

	r, dir := newTestResolver(t)
	writeFile(t, filepath.Join(dir, ConfigFileName), "leap_second_file: "+missing+"\n")
	_, err = r.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestResolve_RejectsDirectory(t *testing.T) {
	r, _ := newTestResolver(t, WithExplicitPath(t.TempDir()))
	_, err := r.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestResolve_MalformedConfigFile(t *testing.T) {
	r, dir := newTestResolver(t)
	writeFile(t, filepath.Join(dir, ConfigFileName), "leap_second_file: [unterminated\n")

	_, err := r.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestResolve_ConfigWithoutKeyFallsThrough(t *testing.T) {
	r, dir := newTestResolver(t)
	writeFile(t, filepath.Join(dir, ConfigFileName), "other_setting: true\n")

	src, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, SourceBundled, src.Kind)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "t.BSW"), smallTable)
	r, _ := newTestResolver(t, WithExplicitPath(path))

	table, src, err := r.Load()
	require.NoError(t, err)
	assert.Equal(t, SourceFlag, src.Kind)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, path, table.Source())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "bad.BSW"), "18. 2017 01 01 00 00\nnot a row\n")
	r, _ := newTestResolver(t, WithExplicitPath(path))

	table, _, err := r.Load()
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, leapsec.IsMalformedTable(err))
}

func TestInstall(t *testing.T) {
	r, dir := newTestResolver(t)

	path, err := r.Install(false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, TableFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, leapsec.BundledData(), data)

	src, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, SourceUserFile, src.Kind)

	_, err = r.Install(false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrExist))

	require.NoError(t, os.WriteFile(path, []byte("edited"), 0o644))
	_, err = r.Install(true)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, leapsec.BundledData(), data)
}

func TestInstall_NoConfigDir(t *testing.T) {
	r := NewResolver(WithConfigDir(""))
	_, err := r.Install(false)
	assert.Error(t, err)
}
