package ports

import (
	"context"

	"github.com/seu-repo/dreamweaver/internal/domain"
)

// CompletionClient sends a message list to an LLM and returns the text of the
// first content block of the reply.
type CompletionClient interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// SpeechClient turns text into speech. A non-nil error means no usable
// response was received at all.
type SpeechClient interface {
	Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResponse, error)
}

// AudioStore persists generated audio and returns the stored file name.
type AudioStore interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
	PublicURL(name string) string
}

// AssistantService is the request translator behind the HTTP handlers.
type AssistantService interface {
	AskRaw(ctx context.Context, prompt string) domain.Reply
	AnalyzeDream(ctx context.Context, dream string) domain.Reply
	GetSleepTip(ctx context.Context) domain.Reply
	GenerateBedtimeStory(ctx context.Context, theme string) domain.Reply
}
