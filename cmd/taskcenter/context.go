package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"taskcenter/internal/config"
)

type commandContext struct {
	configFlag *string
	envFlag    *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	envFile    string
	configErr  error
}

func newCommandContext(configFlag, envFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		envFlag:    envFlag,
	}
}

// ensureConfig loads the .env file before the config so that
// OPENAI_API_KEY and TASK_DASHBOARD_PORT from it override file values.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		envFile, err := c.loadEnv()
		if err != nil {
			c.configErr = err
			return
		}
		c.envFile = envFile

		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) loadEnv() (string, error) {
	if c.envFlag != nil {
		if explicit := strings.TrimSpace(*c.envFlag); explicit != "" {
			loaded, err := config.LoadEnvFile(explicit)
			if err != nil {
				return "", err
			}
			if loaded == "" {
				return "", fmt.Errorf("env file %s not found", explicit)
			}
			return loaded, nil
		}
	}
	return config.LoadEnvFile(config.DefaultEnvFiles...)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
