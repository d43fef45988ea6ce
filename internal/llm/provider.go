package llm

import "context"

// Provider is a chat-completion backend for the Nexus oracle. The oracle
// treats every backend uniformly; credentials and transport belong to the
// implementation.
type Provider interface {
	// Complete runs one completion round-trip.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the backend in logs and warnings.
	Name() string
}
