package core

import (
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	OutputDir    string `yaml:"outputDir" env:"RICHTEXT_OUTPUT_DIR"`
	CacheEnabled bool   `yaml:"cache" env:"RICHTEXT_CACHE"`
	DebugHeaders bool   `yaml:"debugHeaders" env:"RICHTEXT_DEBUG_HEADERS"`
	DebugLogs    bool   `yaml:"debugLogs" env:"RICHTEXT_DEBUG_LOGS"`
	TemplateDir  string `yaml:"templateDir" env:"RICHTEXT_TEMPLATE_DIR"`
	PublicDir    string `yaml:"publicDir" env:"RICHTEXT_PUBLIC_DIR"`
}

var LoadConfig = func(path string) *Config {
	cfg := &Config{}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
			*cfg = Config{}
		}
	}

	if err := env.Parse(cfg); err != nil {
		log.Printf("config: ignoring environment: %v", err)
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./cache"
	}
	if cfg.TemplateDir == "" {
		cfg.TemplateDir = "."
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = "public"
	}

	return cfg
}
