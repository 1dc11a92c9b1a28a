// Package configpaths resolves where NetPad looks for configuration files.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

const baseName = "netpad"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, baseName), nil
}

// ConfigCandidatePaths returns the configuration files to try, grouped by
// format and ordered by priority. An explicit userCfg is only placed in the
// group matching its extension; files without a known extension are tried
// as JSON.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch strings.ToLower(filepath.Ext(userCfg)) {
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, userCfg)
		case ".toml":
			tomlPaths = append(tomlPaths, userCfg)
		default:
			jsonPaths = append(jsonPaths, userCfg)
		}
	}

	var dirs []string
	if d, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, d)
	}
	if d, err := SystemConfigDir(); err == nil {
		dirs = append(dirs, d)
	}

	for _, d := range dirs {
		base := filepath.Join(d, baseName)
		jsonPaths = append(jsonPaths, base+".json")
		yamlPaths = append(yamlPaths, base+".yaml", base+".yml")
		tomlPaths = append(tomlPaths, base+".toml")
	}
	return jsonPaths, yamlPaths, tomlPaths
}
