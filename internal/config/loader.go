package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, checked in order.
const (
	ConfigFileName    = "lakeline.yaml"
	ConfigFileNameAlt = "lakeline.yml"
)

// findConfigFile finds the config file to use.
// Priority: explicit path > lakeline.yaml > lakeline.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"sources_dir": DefaultSourcesDir,
		"output_dir":  DefaultOutputDir,
		"database":    "",
		"state_path":  DefaultStateFile,
		"environment": DefaultEnv,
		"verbose":     false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file (optional)
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment variables: LAKELINE_OUTPUT_DIR -> output_dir
	if err := k.Load(env.Provider("LAKELINE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LAKELINE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")

			// Short flag names map onto longer config keys.
			switch key {
			case "state":
				key = "state_path"
			case "env":
				key = "environment"
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}
