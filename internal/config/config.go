// Package config locates the leap-second table the converter should use.
//
// Resolution order, highest priority first:
//
//  1. an explicit path (the --leap-second-file flag)
//  2. the GPS_LEAP_SECOND_FILE environment variable
//  3. the leap_second_file key of <user config dir>/gps_time/config.yaml
//  4. <user config dir>/gps_time/GPSUTC.BSW
//  5. the copy bundled into the binary
//
// A path named by tiers 1 to 3 must exist; it never silently falls through
// to a lower tier.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/gpstime/internal/leapsec"
)

const (
	// EnvLeapSecondFile overrides the table path from the environment.
	EnvLeapSecondFile = "GPS_LEAP_SECOND_FILE"

	// KeyLeapSecondFile is the config-file key naming the table path.
	KeyLeapSecondFile = "leap_second_file"

	AppDirName     = "gps_time"
	ConfigFileName = "config.yaml"
	TableFileName  = "GPSUTC.BSW"
)

// SourceKind names the tier a table was resolved from.
type SourceKind string

const (
	SourceFlag     SourceKind = "flag"
	SourceEnv      SourceKind = "env"
	SourceConfig   SourceKind = "config"
	SourceUserFile SourceKind = "user-file"
	SourceBundled  SourceKind = "bundled"
)

// Source is the outcome of resolution. Path is empty for SourceBundled.
type Source struct {
	Kind SourceKind
	Path string
}

// String renders the source for logs and the table path command.
func (s Source) String() string {
	if s.Kind == SourceBundled {
		return string(SourceBundled)
	}
	return fmt.Sprintf("%s (%s)", s.Path, s.Kind)
}

// Resolver resolves and loads the leap-second table.
type Resolver struct {
	explicit  string
	configDir string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExplicitPath sets the highest-priority path, usually from a flag.
// An empty path is ignored.
func WithExplicitPath(path string) Option {
	return func(r *Resolver) {
		r.explicit = path
	}
}

// WithConfigDir replaces <user config dir>/gps_time.
func WithConfigDir(dir string) Option {
	return func(r *Resolver) {
		r.configDir = dir
	}
}

// NewResolver returns a Resolver. Without WithConfigDir the directory is
// derived from os.UserConfigDir; if that is unavailable the config-file and
// user-file tiers are skipped.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	if base, err := os.UserConfigDir(); err == nil {
		r.configDir = filepath.Join(base, AppDirName)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ConfigDir returns the per-user directory, or "" when none is known.
func (r *Resolver) ConfigDir() string {
	return r.configDir
}

// Resolve picks the table source without reading the table itself.
func (r *Resolver) Resolve() (Source, error) {
	if r.explicit != "" {
		return existing(SourceFlag, r.explicit)
	}

	env := viper.New()
	if err := env.BindEnv(KeyLeapSecondFile, EnvLeapSecondFile); err != nil {
		return Source{}, fmt.Errorf("bind %s: %w", EnvLeapSecondFile, err)
	}
	if path := strings.TrimSpace(env.GetString(KeyLeapSecondFile)); path != "" {
		return existing(SourceEnv, expandHome(path))
	}

	if r.configDir == "" {
		return Source{Kind: SourceBundled}, nil
	}

	path, err := r.configFileValue()
	if err != nil {
		return Source{}, err
	}
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.configDir, path)
		}
		return existing(SourceConfig, path)
	}

	userFile := filepath.Join(r.configDir, TableFileName)
	if _, err := os.Stat(userFile); err == nil {
		return Source{Kind: SourceUserFile, Path: userFile}, nil
	}
	return Source{Kind: SourceBundled}, nil
}

// Load resolves the source and parses the table from it.
func (r *Resolver) Load() (*leapsec.Table, Source, error) {
	src, err := r.Resolve()
	if err != nil {
		return nil, Source{}, err
	}
	if src.Kind == SourceBundled {
		table, err := leapsec.Bundled()
		return table, src, err
	}
	table, err := leapsec.LoadFile(src.Path)
	if err != nil {
		return nil, src, err
	}
	return table, src, nil
}

// Install writes the bundled table to <config dir>/GPSUTC.BSW. An existing
// file is only replaced when overwrite is set.
func (r *Resolver) Install(overwrite bool) (string, error) {
	if r.configDir == "" {
		return "", errors.New("no user config directory available")
	}
	if err := os.MkdirAll(r.configDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", r.configDir, err)
	}

	path := filepath.Join(r.configDir, TableFileName)
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return "", fmt.Errorf("install leap-second table: %w", err)
	}
	if _, err := f.Write(leapsec.BundledData()); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// configFileValue reads leap_second_file from config.yaml. A missing file
// is not an error; an unreadable or malformed one is.
func (r *Resolver) configFileValue() (string, error) {
	file := filepath.Join(r.configDir, ConfigFileName)
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read config %s: %w", file, err)
	}
	return expandHome(strings.TrimSpace(v.GetString(KeyLeapSecondFile))), nil
}

func existing(kind SourceKind, path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("leap-second file from %s: %w", kind, err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("leap-second file from %s: %s is a directory", kind, path)
	}
	return Source{Kind: kind, Path: path}, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
