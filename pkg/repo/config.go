package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/odvcencio/gitlet/internal/fsutil"
	"github.com/odvcencio/gitlet/pkg/object"
	"github.com/spf13/afero"
)

const (
	configFile           = "config.toml"
	defaultBranchName    = "master"
	initialCommitMessage = "initial commit"
)

// Config stores repository-local settings.
type Config struct {
	Core CoreConfig `toml:"core"`
	User UserConfig `toml:"user"`
}

type CoreConfig struct {
	Hash          string `toml:"hash"`
	DefaultBranch string `toml:"default_branch"`
	CacheSize     int    `toml:"cache_size"`
}

type UserConfig struct {
	Name string `toml:"name,omitempty"`
}

// DefaultConfig returns the settings used when config.toml is missing or
// leaves a key out.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Hash:          string(object.DefaultAlgorithm),
			DefaultBranch: defaultBranchName,
			CacheSize:     object.DefaultCacheSize,
		},
	}
}

// Algorithm returns the configured object-ID algorithm.
func (c *Config) Algorithm() (object.Algorithm, error) {
	return object.ParseAlgorithm(c.Core.Hash)
}

func configPath(gitletDir string) string {
	return filepath.Join(gitletDir, configFile)
}

func loadConfig(fs afero.Fs, gitletDir string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := afero.ReadFile(fs, configPath(gitletDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	if _, err := cfg.Algorithm(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

func storeConfig(fs afero.Fs, gitletDir string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := fsutil.WriteFileAtomic(fs, configPath(gitletDir), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ReadConfig reads .gitlet/config.toml. Missing config returns the defaults.
func (r *Repo) ReadConfig() (*Config, error) {
	return loadConfig(r.fs, r.GitletDir)
}

// WriteConfig atomically writes .gitlet/config.toml. The hash algorithm is
// fixed at init and cannot be changed.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	algo, err := cfg.Algorithm()
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if algo != r.Store.Algorithm() {
		return fmt.Errorf("write config: hash algorithm is fixed to %s", r.Store.Algorithm())
	}
	if err := storeConfig(r.fs, r.GitletDir, cfg); err != nil {
		return err
	}
	r.Config = cfg
	return nil
}
