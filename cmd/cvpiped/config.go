// CLAUDE:SUMMARY YAML configuration loader for the cvpiped binary.
package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/cvpipe/delivery"
)

// AppConfig holds all cvpiped configuration.
type AppConfig struct {
	DBPath    string                    `yaml:"db_path"`
	UploadDir string                    `yaml:"upload_dir"`
	Delivery  delivery.Config           `yaml:"delivery"`
	Mailer    delivery.HTTPMailerConfig `yaml:"mailer"`
}

func (c *AppConfig) defaults() {
	if c.DBPath == "" {
		c.DBPath = "db/cvpipe.db"
	}
	if c.UploadDir == "" {
		c.UploadDir = "data/uploads"
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &AppConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
