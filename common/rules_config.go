package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// configCandidates are searched in precedence order by DiscoverConfigFile;
// TOML is listed first since it's what dvl's own docs and the rules table
// examples use, but YAML and JSON are honored too.
var configCandidates = []string{"config.toml", "config.yaml", "config.yml", "config.json"}

// Rule is one user config entry mapping a data file's base name to the
// schema that should validate it.
type Rule struct {
	Filename string `koanf:"filename"`
	Schema   string `koanf:"schema"`
}

// RulesConfig is the shape of dvl's on-disk user config, whichever of
// TOML/YAML/JSON it's written in: a file whose only recognized key is
// `rules`. Unknown keys are ignored, matching koanf's default unmarshal
// behavior.
type RulesConfig struct {
	Rules []Rule `koanf:"rules"`
}

// LoadRulesConfig reads and parses the user config file at its
// platform-specific well-known location (DVL_CONFIG_HOME, or the XDG config
// home), trying config.toml, config.yaml, config.yml, and config.json in
// that precedence order via DiscoverConfigFile. A missing file is not an
// error: it yields an empty RulesConfig, since having no rules configured is
// the common case for a fresh install.
func LoadRulesConfig() (RulesConfig, error) {
	configHome, err := GetDvlConfigHome()
	if err != nil {
		return RulesConfig{}, err
	}

	found := DiscoverConfigFile(configHome, configCandidates)
	if found.ChosenPath == "" {
		return RulesConfig{}, nil
	}
	return LoadRulesConfigFrom(found.ChosenPath)
}

// LoadRulesConfigFrom parses the user config file at an explicit path,
// picking its koanf parser from the file extension via GetParserForExtension
// so tests and callers can point it at a TOML, YAML, or JSON file alike. A
// missing file or an unrecognized extension both yield an empty RulesConfig
// rather than an error.
func LoadRulesConfigFrom(path string) (RulesConfig, error) {
	parser := GetParserForExtension(path)
	if parser == nil {
		return RulesConfig{}, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		if isMissingFileErr(err) {
			return RulesConfig{}, nil
		}
		return RulesConfig{}, fmt.Errorf("failed to parse user config %s: %w", path, err)
	}

	var cfg RulesConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return RulesConfig{}, fmt.Errorf("failed to decode user config %s: %w", path, err)
	}
	return cfg, nil
}

func isMissingFileErr(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// SchemaForFile returns the schema path configured for a data file's base
// name, per the `rules` table, or "" if no rule matches.
func (c RulesConfig) SchemaForFile(dataFilePath string) string {
	base := filepath.Base(dataFilePath)
	for _, rule := range c.Rules {
		if rule.Filename == base {
			return rule.Schema
		}
	}
	return ""
}
