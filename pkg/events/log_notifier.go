package events

import (
	"context"

	"portfolio-be/internal/pkg/logger"
)

// LogNotifier writes events to the application log. It is always wired so
// owner notifications survive a missing NATS connection.
type LogNotifier struct {
	logger logger.ILogger
}

func NewLogNotifier(log logger.ILogger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) {
	details := make(map[string]interface{}, len(event.Payload())+2)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["event"] = event.EventType()
	details["occurred_at"] = event.Timestamp()

	switch event.EventType() {
	case TypeBlogJobFailed, TypeBlogRejected, TypeSyncFailed, TypeSchedulerFailed:
		n.logger.Warn(logger.ModuleNotify, "Owner notification", details)
	default:
		n.logger.Info(logger.ModuleNotify, "Owner notification", details)
	}
}
