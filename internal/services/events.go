package services

// EventPublisher publishes domain events to the message broker. Implemented
// by pkg/rabbitmq.Client; services treat a nil publisher as disabled and
// never fail a request over a publish error.
type EventPublisher interface {
	Publish(event string, payload map[string]interface{}) error
}
