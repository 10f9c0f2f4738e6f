package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the project config file name, looked up in the working directory.
const File = "epc.yaml"

// Config holds project settings for the epc CLI.
type Config struct {
	// ProtocolsDir is where .ep scripts live.
	ProtocolsDir string `yaml:"protocols_dir"`
	// OutDir is where compiled JSON documents are written.
	OutDir string `yaml:"out_dir"`
	// Pretty selects indented JSON output.
	Pretty bool `yaml:"pretty"`
	// Jobs caps concurrent builds; 0 means one per CPU.
	Jobs int `yaml:"jobs"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		ProtocolsDir: "protocols",
		OutDir:       "compiled",
		Pretty:       true,
		Jobs:         0,
	}
}

// Load reads the config file at path, layering it over the defaults. A
// missing file is not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
