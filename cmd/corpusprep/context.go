package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"corpusprep/internal/config"
)

type commandContext struct {
	configFlag   *string
	dataRootFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, dataRootFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		dataRootFlag: dataRootFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.dataRootFlag != nil && strings.TrimSpace(*c.dataRootFlag) != "" {
			if err := cfg.SetDataRoot(*c.dataRootFlag); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
