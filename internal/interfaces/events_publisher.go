package interfaces

// EventPublisher emits domain events to an external broker. Implementations
// serialize the event themselves; publishing failures must not affect the
// outcome of the operation that produced the event.
type EventPublisher interface {
	Publish(topic string, event any) error
}
