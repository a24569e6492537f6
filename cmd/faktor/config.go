package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyLogLevel     = "log_level"
	cfgKeySyncStrategy = "sync_strategy"

	defaultLogLevel = "warn"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# faktor configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir and FAKTOR_DATA_DIR)
# data_dir:

# trace, debug, info, warn or error
log_level: warn

# immediate rewrites data files on every change; on_close once per command
sync_strategy: immediate
`

// settings are the values read from config.yaml.
type settings struct {
	Backend      string
	DataDir      string
	LogLevel     string
	SyncStrategy string
}

// loadConfig reads config.yaml from configDir with Viper, creating the
// directory and a default file on first run.
func loadConfig(configDir string) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return settings{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("FAKTOR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}
	return settings{
		Backend:      v.GetString(cfgKeyBackend),
		DataDir:      v.GetString(cfgKeyDataDir),
		LogLevel:     v.GetString(cfgKeyLogLevel),
		SyncStrategy: v.GetString(cfgKeySyncStrategy),
	}, nil
}

// ensureDefaultConfigFile creates config.yaml when it does not exist.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// repoConfig builds the repository configuration for dataDir.
func (s settings) repoConfig(dataDir string) types.Config {
	return types.Config{
		Backend:      s.Backend,
		DataDir:      dataDir,
		SyncStrategy: s.SyncStrategy,
	}
}
