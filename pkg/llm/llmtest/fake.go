// Package llmtest provides a scriptable in-memory Client for service tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/autovista-ai/autovista-backend/pkg/llm"
)

// Call captures one ChatCompletion invocation.
type Call struct {
	Messages []llm.Message
	Opts     llm.Options
}

// Fake implements llm.Client with canned responses.
type Fake struct {
	mu sync.Mutex

	// Responses are returned in order; the last one repeats once exhausted.
	Responses []string
	// Err, when set, fails every call.
	Err error
	// EmbeddingVector is returned by Embedding.
	EmbeddingVector []float32

	Calls []Call
	next  int
}

// ChatCompletion implements llm.Client.
func (f *Fake) ChatCompletion(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Messages: messages, Opts: opts})
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Responses) == 0 {
		return "", nil
	}
	idx := f.next
	if idx >= len(f.Responses) {
		idx = len(f.Responses) - 1
	}
	f.next++
	return f.Responses[idx], nil
}

// Embedding implements llm.Client.
func (f *Fake) Embedding(ctx context.Context, text string) ([]float32, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.EmbeddingVector, nil
}

// TokenCount implements llm.Client with a length/4 estimate.
func (f *Fake) TokenCount(text string, model string) int {
	return len(text) / 4
}

// LastCall returns the most recent ChatCompletion call, or nil.
func (f *Fake) LastCall() *Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return nil
	}
	return &f.Calls[len(f.Calls)-1]
}
