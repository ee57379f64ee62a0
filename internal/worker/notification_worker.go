// Package worker hooks event-consuming services into the dispatcher at
// startup, keeping registration order and nil-handling in one place instead
// of scattered through main.
package worker

// EventConsumer is implemented by services that subscribe themselves to
// dispatcher events, such as the staff-reply notification service.
type EventConsumer interface {
	RegisterHandlers()
}

// Start registers every event consumer. Nil entries are skipped so optional
// consumers can be wired conditionally by the caller.
func Start(consumers ...EventConsumer) {
	for _, consumer := range consumers {
		if consumer == nil {
			continue
		}
		consumer.RegisterHandlers()
	}
}
