package core

import "context"

// AIProvider is the opaque language-model collaborator. It may fail and
// is the only place where retry policy lives.
type AIProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Message, error)
}

// Retriever is the FAQ retrieval collaborator.
type Retriever interface {
	FetchContext(ctx context.Context, question string) (string, error)
}
