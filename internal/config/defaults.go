package config

const (
	defaultDataDir          = "~/.local/share/storyforge/data"
	defaultAssetsDir        = "~/.local/share/storyforge/assets"
	defaultLogDir           = "~/.local/share/storyforge/logs"
	defaultAPIBind          = "127.0.0.1:8480"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60

	defaultOpenAIBaseURL  = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel    = "gpt-4"
	defaultOpenAITimeout  = 45
	defaultUpstreamPoll   = 5
	defaultUpstreamWindow = 600

	defaultHeyGenBaseURL    = "https://api.heygen.com"
	defaultHeyGenAvatarID   = "Juan_standing_office_front"
	defaultHeyGenVoiceID    = "1edc5e7338eb4e37b26dc8eb3f9b7e9c"
	defaultHeyGenBackground = "#f6f6fc"
	defaultHeyGenTimeout    = 60

	defaultPictoryBaseURL = "https://api.pictory.ai"
	defaultPictoryTimeout = 60

	defaultAutoContentBaseURL = "https://api.autocontentapi.com"
	defaultAutoContentTimeout = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			AssetsDir: defaultAssetsDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		OpenAI: OpenAI{
			BaseURL:        defaultOpenAIBaseURL,
			Model:          defaultOpenAIModel,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		HeyGen: HeyGen{
			BaseURL:         defaultHeyGenBaseURL,
			AvatarID:        defaultHeyGenAvatarID,
			VoiceID:         defaultHeyGenVoiceID,
			BackgroundColor: defaultHeyGenBackground,
			TimeoutSeconds:  defaultHeyGenTimeout,
		},
		Pictory: Pictory{
			BaseURL:        defaultPictoryBaseURL,
			TimeoutSeconds: defaultPictoryTimeout,
		},
		AutoContent: AutoContent{
			BaseURL:        defaultAutoContentBaseURL,
			TimeoutSeconds: defaultAutoContentTimeout,
		},
		Workflow: Workflow{
			PollIntervalSeconds: defaultUpstreamPoll,
			PollTimeoutSeconds:  defaultUpstreamWindow,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
