// Package config loads the settings of the record viewer service.
package config

import (
	"bytes"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/zeebo/errs/v2"
	"gopkg.in/yaml.v3"
)

var Error = errs.Tag("config")

var validate = validator.New()

type Config struct {
	// Listen is the address of the HTTP bridge.
	Listen string `yaml:"listen" validate:"required,hostname_port"`
	// AppID names the root node when the input does not.
	AppID string `yaml:"app_id" validate:"required"`
	// Format of the watched file.
	Format string `yaml:"format" validate:"oneof=trulens jaeger monkit"`
	// Watch is a record file reloaded whenever it changes.
	Watch string `yaml:"watch"`

	Log       Log       `yaml:"log"`
	Selection Selection `yaml:"selection"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

type Selection struct {
	// Buffer is the number of selections queued per subscriber.
	Buffer int `yaml:"buffer" validate:"gte=1,lte=1024"`
}

func Default() Config {
	return Config{
		Listen: ":7080",
		AppID:  "app",
		Format: "trulens",
		Log: Log{
			Level: "info",
		},
		Selection: Selection{
			Buffer: 16,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Parse(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, Error.Wrap(err)
	}
	return Parse(data)
}

// Parse decodes yaml over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, Error.Wrap(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return Error.Wrap(err)
	}
	return nil
}
