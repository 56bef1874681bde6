package domain

import "time"

const RoleUser = "user"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one outbound LLM call.
type CompletionRequest struct {
	Model     string
	MaxTokens int
	Messages  []Message
	Timeout   time.Duration
}

// SpeechRequest is one outbound text-to-speech call.
type SpeechRequest struct {
	Text    string
	Timeout time.Duration
}

// SpeechResponse is the raw answer of the speech provider. Interpretation of
// the body is left to the caller.
type SpeechResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
