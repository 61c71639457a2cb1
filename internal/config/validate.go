package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOpenAI(); err != nil {
		return err
	}
	if err := c.validateBaseURL("heygen.base_url", c.HeyGen.BaseURL); err != nil {
		return err
	}
	if err := c.validateBaseURL("pictory.base_url", c.Pictory.BaseURL); err != nil {
		return err
	}
	if err := c.validateBaseURL("autocontent.base_url", c.AutoContent.BaseURL); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/storyforge/config.toml"
		}
		return fmt.Errorf("openai.api_key is required. Set OPENAI_API_KEY env var or edit %s (create with 'storyforge config init')", defaultPath)
	}
	return c.validateBaseURL("openai.base_url", c.OpenAI.BaseURL)
}

func (c *Config) validateBaseURL(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%s must be set", field)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be a valid http(s) URL", field)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.PollIntervalSeconds >= c.Workflow.PollTimeoutSeconds {
		return errors.New("workflow.poll_interval_seconds must be below workflow.poll_timeout_seconds")
	}
	return nil
}
