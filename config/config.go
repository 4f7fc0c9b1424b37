package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings is the optional yaml tool configuration. Zero values fall back
// to the defaults below.
type Settings struct {
	// Address the model viewer server listens on.
	ListenAddr string `yaml:"listen_addr"`
	// Suffix of the artifact directory created next to the input file.
	ExtractSuffix string `yaml:"extract_suffix"`
	// Dump full document structures in reports.
	VerboseReport bool `yaml:"verbose_report"`
}

var current = defaults()

func defaults() Settings {
	return Settings{
		ListenAddr:    ":8000",
		ExtractSuffix: "extracted",
	}
}

// Load reads a yaml settings file over the defaults.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read config %q", path)
	}
	settings := defaults()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return errors.Wrapf(err, "Failed to parse config %q", path)
	}
	if settings.ListenAddr == "" {
		settings.ListenAddr = defaults().ListenAddr
	}
	if settings.ExtractSuffix == "" {
		settings.ExtractSuffix = defaults().ExtractSuffix
	}
	current = settings
	return nil
}

func Current() Settings { return current }
