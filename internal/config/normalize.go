package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeHeyGen()
	c.normalizePictory()
	c.normalizeAutoContent()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("STORYFORGE_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	c.Paths.BaseURL = strings.TrimRight(strings.TrimSpace(c.Paths.BaseURL), "/")
	if c.Paths.BaseURL == "" {
		c.Paths.BaseURL = "http://" + c.Paths.APIBind
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeout
	}
}

func (c *Config) normalizeHeyGen() {
	c.HeyGen.APIKey = strings.TrimSpace(c.HeyGen.APIKey)
	if c.HeyGen.APIKey == "" {
		if value, ok := os.LookupEnv("HEYGEN_API_KEY"); ok {
			c.HeyGen.APIKey = strings.TrimSpace(value)
		}
	}
	c.HeyGen.BaseURL = strings.TrimRight(strings.TrimSpace(c.HeyGen.BaseURL), "/")
	if c.HeyGen.BaseURL == "" {
		c.HeyGen.BaseURL = defaultHeyGenBaseURL
	}
	c.HeyGen.AvatarID = strings.TrimSpace(c.HeyGen.AvatarID)
	if c.HeyGen.AvatarID == "" {
		c.HeyGen.AvatarID = defaultHeyGenAvatarID
	}
	c.HeyGen.VoiceID = strings.TrimSpace(c.HeyGen.VoiceID)
	if c.HeyGen.VoiceID == "" {
		c.HeyGen.VoiceID = defaultHeyGenVoiceID
	}
	c.HeyGen.BackgroundColor = strings.TrimSpace(c.HeyGen.BackgroundColor)
	if c.HeyGen.BackgroundColor == "" {
		c.HeyGen.BackgroundColor = defaultHeyGenBackground
	}
	if c.HeyGen.TimeoutSeconds <= 0 {
		c.HeyGen.TimeoutSeconds = defaultHeyGenTimeout
	}
}

func (c *Config) normalizePictory() {
	c.Pictory.ClientID = strings.TrimSpace(c.Pictory.ClientID)
	if c.Pictory.ClientID == "" {
		if value, ok := os.LookupEnv("PICTORY_CLIENT_ID"); ok {
			c.Pictory.ClientID = strings.TrimSpace(value)
		}
	}
	c.Pictory.ClientSecret = strings.TrimSpace(c.Pictory.ClientSecret)
	if c.Pictory.ClientSecret == "" {
		if value, ok := os.LookupEnv("PICTORY_CLIENT_SECRET"); ok {
			c.Pictory.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.Pictory.UserID = strings.TrimSpace(c.Pictory.UserID)
	if c.Pictory.UserID == "" {
		if value, ok := os.LookupEnv("PICTORY_USER_ID"); ok {
			c.Pictory.UserID = strings.TrimSpace(value)
		}
	}
	c.Pictory.BaseURL = strings.TrimRight(strings.TrimSpace(c.Pictory.BaseURL), "/")
	if c.Pictory.BaseURL == "" {
		c.Pictory.BaseURL = defaultPictoryBaseURL
	}
	if c.Pictory.TimeoutSeconds <= 0 {
		c.Pictory.TimeoutSeconds = defaultPictoryTimeout
	}
}

func (c *Config) normalizeAutoContent() {
	c.AutoContent.APIKey = strings.TrimSpace(c.AutoContent.APIKey)
	if c.AutoContent.APIKey == "" {
		if value, ok := os.LookupEnv("AUTOCONTENT_API_KEY"); ok {
			c.AutoContent.APIKey = strings.TrimSpace(value)
		}
	}
	c.AutoContent.BaseURL = strings.TrimRight(strings.TrimSpace(c.AutoContent.BaseURL), "/")
	if c.AutoContent.BaseURL == "" {
		c.AutoContent.BaseURL = defaultAutoContentBaseURL
	}
	if c.AutoContent.TimeoutSeconds <= 0 {
		c.AutoContent.TimeoutSeconds = defaultAutoContentTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.PollIntervalSeconds <= 0 {
		c.Workflow.PollIntervalSeconds = defaultUpstreamPoll
	}
	if c.Workflow.PollTimeoutSeconds <= 0 {
		c.Workflow.PollTimeoutSeconds = defaultUpstreamWindow
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
