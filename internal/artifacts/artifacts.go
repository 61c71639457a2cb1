// Package artifacts orchestrates the downstream generation channels of a
// case study: PDF, LinkedIn post, avatar video, short-form video, and
// podcast. Each channel turns the merged story into a channel-specific
// request, claims its job slot, submits, and advances the job state on
// caller-driven polls. The store's unique (case study, channel) constraint is
// the atomicity point; a per-key mutex keeps the submit round trip from
// racing itself in-process.
package artifacts

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"storyforge/internal/casestudy"
	"storyforge/internal/narrative"
	"storyforge/internal/services"
	"storyforge/internal/services/autocontent"
	"storyforge/internal/services/heygen"
	"storyforge/internal/services/pictory"
)

// Avatar script ceiling enforced after generation; overlong model output is
// truncated with an ellipsis rather than rejected.
const avatarScriptLimit = 1300

// Short-form videos always carry the eight-scene narrative arc.
const sceneCount = 8

// Phase labels for the two-step short-form pipeline.
const (
	phaseStoryboard = "storyboard"
	phaseRender     = "render"
)

// Generator is the narrative surface the orchestrators need.
type Generator interface {
	Generate(ctx context.Context, req narrative.Request) (string, error)
}

// DocumentRenderer produces the PDF artifact synchronously.
type DocumentRenderer interface {
	Render(story string) (string, error)
}

// AvatarService submits avatar video jobs and reports their status.
type AvatarService interface {
	Generate(ctx context.Context, title, script string) (string, error)
	GetStatus(ctx context.Context, videoID string) (heygen.Status, error)
}

// ShortFormService drives the storyboard-then-render video pipeline.
type ShortFormService interface {
	CreateStoryboard(ctx context.Context, videoName string, scenes []pictory.Scene) (string, error)
	Render(ctx context.Context, storyboardJobID string) (string, error)
	GetJob(ctx context.Context, jobID string) (pictory.Job, error)
}

// PodcastService submits episode briefs and reports finished/error flags.
type PodcastService interface {
	Submit(ctx context.Context, brief string) (string, error)
	GetJob(ctx context.Context, requestID string) (autocontent.Job, error)
}

// PollPolicy bounds the transient-failure retries inside one poll cycle.
// Zero fields fall back to the defaults below.
type PollPolicy struct {
	RetryInterval time.Duration
	RetryWindow   time.Duration
}

const (
	defaultRetryInterval = 200 * time.Millisecond
	defaultRetryWindow   = 5 * time.Second
)

func (p PollPolicy) withDefaults() PollPolicy {
	if p.RetryInterval <= 0 {
		p.RetryInterval = defaultRetryInterval
	}
	if p.RetryWindow <= 0 {
		p.RetryWindow = defaultRetryWindow
	}
	return p
}

type lockKey struct {
	caseStudyID int64
	channel     casestudy.Channel
}

// Manager owns the channel orchestrators and their shared job bookkeeping.
type Manager struct {
	store     *casestudy.Store
	generator Generator
	documents DocumentRenderer
	avatar    AvatarService
	shortForm ShortFormService
	podcast   PodcastService
	policy    PollPolicy
	logger    *slog.Logger

	mu    sync.Mutex
	locks map[lockKey]*sync.Mutex
}

// NewManager wires the orchestrators. Any nil service disables its channel;
// submitting to a disabled channel fails with an input error.
func NewManager(store *casestudy.Store, generator Generator, documents DocumentRenderer, avatar AvatarService, shortForm ShortFormService, podcast PodcastService, policy PollPolicy, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		store:     store,
		generator: generator,
		documents: documents,
		avatar:    avatar,
		shortForm: shortForm,
		podcast:   podcast,
		policy:    policy.withDefaults(),
		logger:    logger,
		locks:     make(map[lockKey]*sync.Mutex),
	}
}

func (m *Manager) channelLock(caseStudyID int64, channel casestudy.Channel) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := lockKey{caseStudyID: caseStudyID, channel: channel}
	lock, ok := m.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[key] = lock
	}
	return lock
}

// Submit claims the channel slot for the case study and runs the channel's
// submission. A non-failed existing job rejects the call; a failed job may be
// resubmitted. Submission failures release the slot so the caller can try
// again.
func (m *Manager) Submit(ctx context.Context, cs *casestudy.CaseStudy, channel casestudy.Channel) (*casestudy.ArtifactJob, error) {
	if cs == nil {
		return nil, services.Wrap(services.ErrInput, "artifacts", "submit", "case study required", nil)
	}
	if strings.TrimSpace(cs.Story) == "" {
		return nil, services.Wrap(services.ErrStateConflict, "artifacts", "submit", "case study has no merged story", nil)
	}

	lock := m.channelLock(cs.ID, channel)
	lock.Lock()
	defer lock.Unlock()

	job, began, err := m.store.BeginJob(ctx, cs.ID, channel, true)
	if err != nil {
		return nil, err
	}
	if !began {
		return nil, services.Wrap(services.ErrStateConflict, "artifacts", "submit",
			"artifact generation already "+string(job.Status)+" for channel "+string(channel), nil)
	}

	if err := m.runSubmit(ctx, cs, channel, job); err != nil {
		// The submit round trip itself failed; no upstream job exists, so the
		// slot must stay re-submittable.
		if removeErr := m.store.RemoveJob(ctx, job.ID); removeErr != nil {
			m.logger.Error("release artifact slot after failed submit",
				slog.Int64("case_study", cs.ID),
				slog.String("channel", string(channel)),
				slog.String("error", removeErr.Error()))
		}
		return nil, err
	}

	job, err = m.store.GetJob(ctx, cs.ID, channel)
	if err != nil {
		return nil, err
	}
	m.logger.Info("artifact submitted",
		slog.Int64("case_study", cs.ID),
		slog.String("channel", string(channel)),
		slog.String("status", string(job.Status)))
	return job, nil
}

func (m *Manager) runSubmit(ctx context.Context, cs *casestudy.CaseStudy, channel casestudy.Channel, job *casestudy.ArtifactJob) error {
	switch channel {
	case casestudy.ChannelPDF:
		return m.submitPDF(ctx, cs, job)
	case casestudy.ChannelSocial:
		return m.submitSocial(ctx, cs, job)
	case casestudy.ChannelAvatarVideo:
		return m.submitAvatarVideo(ctx, cs, job)
	case casestudy.ChannelShortFormVideo:
		return m.submitShortFormVideo(ctx, cs, job)
	case casestudy.ChannelPodcast:
		return m.submitPodcast(ctx, cs, job)
	default:
		return services.Wrap(services.ErrInput, "artifacts", "submit", "unknown channel "+string(channel), nil)
	}
}

// Poll advances the channel's job by querying its current upstream handle and
// returns the refreshed job. Polling is idempotent; transient upstream
// failures leave the job untouched.
func (m *Manager) Poll(ctx context.Context, cs *casestudy.CaseStudy, channel casestudy.Channel) (*casestudy.ArtifactJob, error) {
	if cs == nil {
		return nil, services.Wrap(services.ErrInput, "artifacts", "poll", "case study required", nil)
	}
	job, err := m.store.GetJob(ctx, cs.ID, channel)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, services.Wrap(services.ErrNotFound, "artifacts", "poll",
			"no artifact job for channel "+string(channel), nil)
	}
	if job.Status != casestudy.JobProcessing {
		return job, nil
	}

	switch channel {
	case casestudy.ChannelAvatarVideo:
		err = m.pollAvatarVideo(ctx, job)
	case casestudy.ChannelShortFormVideo:
		err = m.pollShortFormVideo(ctx, cs, job)
	case casestudy.ChannelPodcast:
		err = m.pollPodcast(ctx, job)
	default:
		// PDF and social complete during submit; a processing row for them
		// cannot advance further.
		return job, nil
	}
	if err != nil {
		return nil, err
	}
	return m.store.GetJob(ctx, cs.ID, channel)
}

// withPollRetry retries a status fetch a few times on transient upstream
// failures before giving up for this poll cycle. Bounds come from the
// workflow configuration.
func (m *Manager) withPollRetry(ctx context.Context, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = m.policy.RetryInterval
	policy.MaxElapsedTime = m.policy.RetryWindow
	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !services.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, 3), ctx))
}
