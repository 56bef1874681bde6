package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/seu-repo/dreamweaver/internal/domain"
)

// MockCompletionClient is a mock implementation of ports.CompletionClient.
// Calls are recorded in order.
type MockCompletionClient struct {
	CompleteFunc func(ctx context.Context, req domain.CompletionRequest) (string, error)

	mu    sync.Mutex
	calls []domain.CompletionRequest
}

func (m *MockCompletionClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", nil
}

func (m *MockCompletionClient) Calls() []domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CompletionRequest(nil), m.calls...)
}

func (m *MockCompletionClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MockSpeechClient is a mock implementation of ports.SpeechClient
type MockSpeechClient struct {
	SynthesizeFunc func(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResponse, error)

	mu    sync.Mutex
	calls []domain.SpeechRequest
}

func (m *MockSpeechClient) Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, req)
	}
	return nil, fmt.Errorf("speech not mocked")
}

func (m *MockSpeechClient) Calls() []domain.SpeechRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SpeechRequest(nil), m.calls...)
}

func (m *MockSpeechClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MockAudioStore keeps saved audio in memory.
type MockAudioStore struct {
	SaveFunc func(ctx context.Context, data []byte, contentType string) (string, error)

	mu    sync.Mutex
	files map[string][]byte
	seq   int
}

func NewMockAudioStore() *MockAudioStore {
	return &MockAudioStore{
		files: make(map[string][]byte),
	}
}

func (m *MockAudioStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, data, contentType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.seq++
	name := fmt.Sprintf("story_%d.mp3", m.seq)
	m.files[name] = append([]byte(nil), data...)
	return name, nil
}

func (m *MockAudioStore) PublicURL(name string) string {
	return "/static/" + name
}

func (m *MockAudioStore) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

func (m *MockAudioStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
