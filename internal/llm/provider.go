package llm

import "context"

// Provider streams generated text for a request.
type Provider interface {
	// Stream calls emit for every chunk in order. It returns the first
	// error from the backend or from emit.
	Stream(ctx context.Context, req StreamRequest, emit func(chunk string) error) error
	// Name returns the name of this provider.
	Name() string
}
