// Package configpaths locates autotyper configuration files.
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the config directories.
const AppName = "autotyper"

// EnvConfig names a config file to load before the default candidates.
const EnvConfig = "AUTOTYPER_CONFIG"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, AppName), nil
		}
		return "", errors.New("AppData not set")
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support", AppName), nil
		}
		return "", errors.New("HOME not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", AppName), nil
		}
		return "", errors.New("HOME not set")
	}
}

// Ext returns the file extension for a config format.
func Ext(format string) string {
	switch format {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

// DefaultConfigPath returns the per-user config file path for format.
func DefaultConfigPath(format string) (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config."+Ext(format)), nil
}

// EnsureDir creates the parent directory of filePath.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// ConfigCandidatePaths builds candidate paths for config files per format.
// userPath, if set, comes first and is routed to the loader matching its
// extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	addBase := func(dir, base string) {
		p := filepath.Join(dir, base)
		jsonPaths = append(jsonPaths, p+".json")
		yamlPaths = append(yamlPaths, p+".yaml", p+".yml")
		tomlPaths = append(tomlPaths, p+".toml")
	}

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userPath)
		case ".toml":
			tomlPaths = append(tomlPaths, userPath)
		default:
			jsonPaths = append(jsonPaths, userPath)
		}
	}

	if wd, err := os.Getwd(); err == nil {
		addBase(wd, AppName)
	}
	if dir, err := DefaultConfigDir(); err == nil {
		addBase(dir, "config")
	}
	if runtime.GOOS != "windows" {
		addBase(filepath.Join("/etc", AppName), "config")
	}
	return
}
