package ports

import "github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"

// EventPublisher is the narrow surface the engine needs to report progress.
// The events broker implements it; tests use a recording stub.
type EventPublisher interface {
	Publish(evt domain.Event)
}

// PublisherFunc adapts a function to EventPublisher.
type PublisherFunc func(evt domain.Event)

// Publish implements EventPublisher.
func (f PublisherFunc) Publish(evt domain.Event) { f(evt) }
