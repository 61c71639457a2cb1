// Package api exposes the application-facing operations of the case-study
// pipeline: provider interview intake, client invites, merge, and artifact
// fan-out. HTTP handlers and CLI commands call through this layer; it owns
// no transport concerns.
package api

import (
	"log/slog"
	"time"

	"storyforge/internal/artifacts"
	"storyforge/internal/casestudy"
	"storyforge/internal/config"
	"storyforge/internal/entities"
	"storyforge/internal/language"
	"storyforge/internal/merge"
	"storyforge/internal/metadata"
	"storyforge/internal/narrative"
	"storyforge/internal/pdfrender"
	"storyforge/internal/sentiment"
	"storyforge/internal/services"
	"storyforge/internal/services/autocontent"
	"storyforge/internal/services/heygen"
	"storyforge/internal/services/openai"
	"storyforge/internal/services/pictory"
)

// Deps are the external collaborators a Service needs. Tests substitute
// fakes; production wiring comes from DefaultDeps.
type Deps struct {
	Completer narrative.Completer
	Documents artifacts.DocumentRenderer
	Avatar    artifacts.AvatarService
	ShortForm artifacts.ShortFormService
	Podcast   artifacts.PodcastService
}

// DefaultDeps builds the production service clients from configuration.
func DefaultDeps(cfg *config.Config) Deps {
	return Deps{
		Completer: openai.NewClient(openai.Config{
			APIKey:         cfg.OpenAI.APIKey,
			BaseURL:        cfg.OpenAI.BaseURL,
			Model:          cfg.OpenAI.Model,
			TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
		}),
		Documents: pdfrender.NewRenderer(cfg.Paths.AssetsDir),
		Avatar: heygen.NewClient(heygen.Config{
			APIKey:          cfg.HeyGen.APIKey,
			BaseURL:         cfg.HeyGen.BaseURL,
			AvatarID:        cfg.HeyGen.AvatarID,
			VoiceID:         cfg.HeyGen.VoiceID,
			BackgroundColor: cfg.HeyGen.BackgroundColor,
			TimeoutSeconds:  cfg.HeyGen.TimeoutSeconds,
		}),
		ShortForm: pictory.NewClient(pictory.Config{
			ClientID:       cfg.Pictory.ClientID,
			ClientSecret:   cfg.Pictory.ClientSecret,
			UserID:         cfg.Pictory.UserID,
			BaseURL:        cfg.Pictory.BaseURL,
			TimeoutSeconds: cfg.Pictory.TimeoutSeconds,
		}),
		Podcast: autocontent.NewClient(autocontent.Config{
			APIKey:         cfg.AutoContent.APIKey,
			BaseURL:        cfg.AutoContent.BaseURL,
			TimeoutSeconds: cfg.AutoContent.TimeoutSeconds,
		}),
	}
}

// Service composes the pipeline stages behind the exposed operations.
type Service struct {
	cfg       *config.Config
	store     *casestudy.Store
	generator *narrative.Generator
	extractor *entities.Extractor
	detector  *language.Detector
	merger    *merge.Engine
	metadata  *metadata.Builder
	documents artifacts.DocumentRenderer
	artifacts *artifacts.Manager
	logger    *slog.Logger
}

// NewService wires the pipeline. The completer is the only dependency that
// must be present; channels whose service is nil reject submissions.
func NewService(cfg *config.Config, store *casestudy.Store, deps Deps, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrInput, "api", "new", "config required", nil)
	}
	if store == nil {
		return nil, services.Wrap(services.ErrInput, "api", "new", "store required", nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	generator, err := narrative.NewGenerator(deps.Completer, logger)
	if err != nil {
		return nil, err
	}
	analyzer := sentiment.NewAnalyzer(cfg.Paths.AssetsDir, logger)
	policy := artifacts.PollPolicy{
		RetryInterval: time.Duration(cfg.Workflow.PollIntervalSeconds) * time.Second,
		RetryWindow:   time.Duration(cfg.Workflow.PollTimeoutSeconds) * time.Second,
	}
	manager := artifacts.NewManager(store, generator, deps.Documents, deps.Avatar, deps.ShortForm, deps.Podcast, policy, logger)

	return &Service{
		cfg:       cfg,
		store:     store,
		generator: generator,
		extractor: entities.NewExtractor(deps.Completer, logger),
		detector:  language.NewDetector(),
		merger:    merge.NewEngine(generator, logger),
		metadata:  metadata.NewBuilder(generator, analyzer, logger),
		documents: deps.Documents,
		artifacts: manager,
		logger:    logger,
	}, nil
}
