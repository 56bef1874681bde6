package assistant

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/internal/domain"
	"github.com/seu-repo/dreamweaver/internal/observability/telemetry"
	"github.com/seu-repo/dreamweaver/internal/ports"
	"github.com/seu-repo/dreamweaver/pkg/config"
)

const tracerName = "github.com/seu-repo/dreamweaver/internal/service/assistant"

// DefaultConfig returns the canonical call parameters per intent.
func DefaultConfig() config.AssistantConfig {
	return config.AssistantConfig{
		Model:          "claude-sonnet-4-5",
		LLMTimeout:     60 * time.Second,
		SpeechTimeout:  30 * time.Second,
		AskMaxTokens:   500,
		DreamMaxTokens: 1000,
		TipMaxTokens:   200,
		StoryMaxTokens: 500,
		DefaultTheme:   "peaceful night sky",
	}
}

// Service turns inbound intents into vendor calls and normalizes whatever
// comes back into an envelope. It holds no per-request state.
type Service struct {
	llm    ports.CompletionClient
	speech ports.SpeechClient
	store  ports.AudioStore
	cfg    config.AssistantConfig
	tracer trace.Tracer
	log    *zap.Logger
}

// NewService wires the translator. speech and store may be nil, in which
// case stories are always returned without audio.
func NewService(
	llm ports.CompletionClient,
	speech ports.SpeechClient,
	store ports.AudioStore,
	cfg config.AssistantConfig,
	log *zap.Logger,
) *Service {
	return &Service{
		llm:    llm,
		speech: speech,
		store:  store,
		cfg:    withDefaults(cfg),
		tracer: otel.Tracer(tracerName),
		log:    log,
	}
}

func withDefaults(cfg config.AssistantConfig) config.AssistantConfig {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = def.LLMTimeout
	}
	if cfg.SpeechTimeout <= 0 {
		cfg.SpeechTimeout = def.SpeechTimeout
	}
	if cfg.AskMaxTokens <= 0 {
		cfg.AskMaxTokens = def.AskMaxTokens
	}
	if cfg.DreamMaxTokens <= 0 {
		cfg.DreamMaxTokens = def.DreamMaxTokens
	}
	if cfg.TipMaxTokens <= 0 {
		cfg.TipMaxTokens = def.TipMaxTokens
	}
	if cfg.StoryMaxTokens <= 0 {
		cfg.StoryMaxTokens = def.StoryMaxTokens
	}
	if strings.TrimSpace(cfg.DefaultTheme) == "" {
		cfg.DefaultTheme = def.DefaultTheme
	}
	return cfg
}

// AskRaw forwards prompt verbatim.
func (s *Service) AskRaw(ctx context.Context, prompt string) domain.Reply {
	return s.single(ctx, domain.IntentAsk, domain.FieldResponse, prompt, s.cfg.AskMaxTokens)
}

// AnalyzeDream rejects empty input with 400 before any vendor call.
func (s *Service) AnalyzeDream(ctx context.Context, dream string) domain.Reply {
	if dream == "" {
		telemetry.ObserveIntent(string(domain.IntentDream), http.StatusBadRequest, time.Now())
		return domain.Reply{
			Status:   http.StatusBadRequest,
			Envelope: domain.Failed(NoDreamMessage),
		}
	}
	return s.single(ctx, domain.IntentDream, domain.FieldAnalysis, dreamPrompt(dream), s.cfg.DreamMaxTokens)
}

func (s *Service) GetSleepTip(ctx context.Context) domain.Reply {
	return s.single(ctx, domain.IntentTip, domain.FieldTips, sleepTipPrompt, s.cfg.TipMaxTokens)
}

// GenerateBedtimeStory runs TellStory and renders its outcome. Only a failed
// story stage fails the request.
func (s *Service) GenerateBedtimeStory(ctx context.Context, theme string) domain.Reply {
	start := time.Now()

	result, err := s.TellStory(ctx, theme)
	if err != nil {
		reply := domain.Reply{
			Status:   http.StatusInternalServerError,
			Envelope: domain.Failed(err.Error()),
		}
		telemetry.ObserveIntent(string(domain.IntentStory), reply.Status, start)
		return reply
	}

	env := domain.Envelope{
		domain.FieldSuccess:  true,
		domain.FieldStory:    result.Story,
		domain.FieldAudioURL: nil,
	}
	switch result.Audio.Kind {
	case domain.AudioURLFound, domain.AudioFileSaved:
		env[domain.FieldAudioURL] = result.Audio.URL
	default:
		env[domain.FieldMessage] = audioUnavailableMessage
	}

	telemetry.ObserveIntent(string(domain.IntentStory), http.StatusOK, start)
	return domain.Reply{Status: http.StatusOK, Envelope: env}
}

// TellStory generates a story about theme (blank means the default theme)
// and then tries to narrate it. A returned error means the story itself
// failed and no speech call was made.
func (s *Service) TellStory(ctx context.Context, theme string) (*domain.StoryResult, error) {
	if strings.TrimSpace(theme) == "" {
		theme = s.cfg.DefaultTheme
	}

	ctx, span := s.tracer.Start(ctx, "assistant.bedtime_story",
		trace.WithAttributes(attribute.String("story.theme", theme)),
	)
	defer span.End()

	story, err := s.complete(ctx, storyPrompt(theme), s.cfg.StoryMaxTokens)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "story stage failed")
		s.log.Error("Bedtime story generation failed", zap.Error(err))
		return nil, err
	}

	audio := s.narrate(ctx, story)
	span.SetAttributes(attribute.String("story.audio", audio.Kind.String()))
	telemetry.AudioOutcomesTotal.WithLabelValues(audio.Kind.String()).Inc()

	if audio.Kind == domain.AudioUnavailable {
		s.log.Warn("Story audio unavailable", zap.String("reason", audio.Reason))
	}

	return &domain.StoryResult{Story: story, Audio: audio}, nil
}

// narrate is the best-effort speech stage; it never returns an error.
func (s *Service) narrate(ctx context.Context, story string) domain.AudioOutcome {
	if s.speech == nil {
		return domain.Unavailable("speech synthesis not configured")
	}

	ctx, span := s.tracer.Start(ctx, "assistant.narrate")
	defer span.End()

	resp, err := s.speech.Synthesize(ctx, domain.SpeechRequest{
		Text:    story,
		Timeout: s.cfg.SpeechTimeout,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Unavailable(err.Error())
	}
	if resp == nil {
		return domain.Unavailable("empty speech response")
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.String("http.content_type", resp.ContentType),
	)

	if resp.StatusCode != http.StatusOK {
		return domain.Unavailable(fmt.Sprintf("speech provider returned status %d", resp.StatusCode))
	}

	if !isAudio(resp.ContentType) {
		if url, ok := extractAudioURL(resp.Body); ok {
			return domain.URLFound(url)
		}
		return domain.Unavailable(fmt.Sprintf("unrecognized speech response (content-type %q)", resp.ContentType))
	}

	if s.store == nil {
		return domain.Unavailable("audio storage not configured")
	}
	if len(resp.Body) == 0 {
		return domain.Unavailable("speech provider returned no audio bytes")
	}

	name, err := s.store.Save(ctx, resp.Body, resp.ContentType)
	if err != nil {
		span.RecordError(err)
		return domain.Unavailable(err.Error())
	}
	return domain.FileSaved(name, s.store.PublicURL(name))
}

// single runs a one-call intent and normalizes its outcome.
func (s *Service) single(ctx context.Context, intent domain.Intent, field, content string, maxTokens int) domain.Reply {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "assistant."+string(intent))
	defer span.End()

	text, err := s.complete(ctx, content, maxTokens)

	var reply domain.Reply
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		s.log.Error("Completion failed",
			zap.String("intent", string(intent)),
			zap.Error(err),
		)
		reply = domain.Reply{
			Status:   http.StatusInternalServerError,
			Envelope: domain.Failed(err.Error()),
		}
	} else {
		reply = domain.Reply{
			Status:   http.StatusOK,
			Envelope: domain.Succeeded(field, text),
		}
	}

	telemetry.ObserveIntent(string(intent), reply.Status, start)
	return reply
}

func (s *Service) complete(ctx context.Context, content string, maxTokens int) (string, error) {
	return s.llm.Complete(ctx, domain.CompletionRequest{
		Model:     s.cfg.Model,
		MaxTokens: maxTokens,
		Messages: []domain.Message{
			{Role: domain.RoleUser, Content: content},
		},
		Timeout: s.cfg.LLMTimeout,
	})
}
