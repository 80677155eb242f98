package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

var configDir string
var configFilePath string

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\supernova
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "supernova"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/supernova
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "supernova"), nil
}

// getSystemConfigPaths returns platform-specific system config paths
func getSystemConfigPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(os.Getenv("ProgramFiles"), "SuperNova", "config.toml")}
	}
	return []string{
		"/etc/supernova/config.toml",
		"/usr/local/etc/supernova/config.toml",
	}
}

// Init initializes the configuration. An empty configPath uses the platform config dir.
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	viper.SetConfigType("toml")
	setDefaults()

	// System config first, user config overrides it
	for _, sysConfigPath := range getSystemConfigPaths() {
		if _, err := os.Stat(sysConfigPath); err == nil {
			viper.SetConfigFile(sysConfigPath)
			_ = viper.MergeInConfig()
			break
		}
	}

	viper.SetConfigFile(configFilePath)
	_ = viper.MergeInConfig()

	viper.SetEnvPrefix("SUPERNOVA")
	viper.AutomaticEnv()

	return nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:8000")
	viper.SetDefault("api.timeout", 30)

	viper.SetDefault("backend.mode", "rest")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", filepath.Join(configDir, "supernova.db"))

	viper.SetDefault("storage.driver", "remote")
	viper.SetDefault("storage.s3.region", "us-east-1")
	viper.SetDefault("storage.s3.bucket", "")
	viper.SetDefault("storage.base_url", "")
	viper.SetDefault("storage.local_dir", filepath.Join(configDir, "uploads"))

	viper.SetDefault("demo.seed", 2177)
	viper.SetDefault("demo.count", 12)

	viper.SetDefault("output.format", "text")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "supernova.log"))
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	switch key {
	case "log.file", "storage.local_dir", "database.dsn":
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Override sets a value for the current run without writing it
func Override(key string, value interface{}) {
	viper.Set(key, value)
}

// SetString sets a string configuration value and writes the user config
func SetString(key string, value string) error {
	viper.Set(key, value)
	return viper.WriteConfigAs(configFilePath)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFile returns the user config file path
func GetConfigFile() string {
	return configFilePath
}
