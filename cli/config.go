package cli

// This file resolves the import configuration from the three supported
// sources: positional arguments, flags/environment variables, and an
// optional YAML config file. Positional arguments win over flags, flags
// win over the file.

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const usageMessage = "usage: " + AppName + " INPUT_DIR URL TOKEN PROJECT_ID CONFIGURATION_ID TEST_RUN_NAME"

// Config is everything one invocation needs to reach the service.
type Config struct {
	InputDir        string `yaml:"inputDir"`
	URL             string `yaml:"url"`
	Token           string `yaml:"token"`
	ProjectID       string `yaml:"projectId"`
	ConfigurationID string `yaml:"configurationId"`
	TestRunName     string `yaml:"testRunName"`
	Insecure        bool   `yaml:"insecure"`
}

func resolveConfig(ctx *cli.Context) (Config, error) {
	var cfg Config

	if path := ctx.String("config"); path != "" {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	applyFlags(ctx, &cfg)

	if ctx.Args().Present() {
		if ctx.Args().Len() < 6 {
			return Config{}, fmt.Errorf("%s", usageMessage)
		}
		args := ctx.Args().Slice()
		cfg.InputDir = args[0]
		cfg.URL = args[1]
		cfg.Token = args[2]
		cfg.ProjectID = args[3]
		cfg.ConfigurationID = args[4]
		cfg.TestRunName = args[5]
	}

	if cfg.InputDir == "" || cfg.URL == "" || cfg.Token == "" || cfg.ProjectID == "" || cfg.ConfigurationID == "" {
		return Config{}, fmt.Errorf("%s", usageMessage)
	}
	if cfg.TestRunName == "" {
		cfg.TestRunName = fmt.Sprintf("Allure import %s", uuid.NewString()[:8])
	}

	return cfg, nil
}

func applyFlags(ctx *cli.Context, cfg *Config) {
	if v := ctx.String("input-dir"); v != "" {
		cfg.InputDir = v
	}
	if v := ctx.String("url"); v != "" {
		cfg.URL = v
	}
	if v := ctx.String("token"); v != "" {
		cfg.Token = v
	}
	if v := ctx.String("project-id"); v != "" {
		cfg.ProjectID = v
	}
	if v := ctx.String("configuration-id"); v != "" {
		cfg.ConfigurationID = v
	}
	if v := ctx.String("test-run-name"); v != "" {
		cfg.TestRunName = v
	}
	if ctx.Bool("insecure") {
		cfg.Insecure = true
	}
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
