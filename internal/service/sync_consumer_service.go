package service

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/events"
	"portfolio-be/pkg/ingest"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Syncer is satisfied by *ingest.Syncer.
type Syncer interface {
	SyncPortfolio(ctx context.Context) (*ingest.Report, error)
	SyncProjects(ctx context.Context) (*ingest.Report, error)
	SyncBlogs(ctx context.Context) (*ingest.Report, error)
	SyncAll(ctx context.Context) ([]*ingest.Report, error)
}

type ISyncConsumerService interface {
	Consume(ctx context.Context) error
}

type syncConsumerService struct {
	subscriber message.Subscriber
	syncer     Syncer
	notifier   events.Notifier
	logger     logger.ILogger
}

func NewSyncConsumerService(subscriber message.Subscriber, syncer Syncer, notifier events.Notifier, log logger.ILogger) ISyncConsumerService {
	return &syncConsumerService{subscriber: subscriber, syncer: syncer, notifier: notifier, logger: log}
}

func (cs *syncConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, SyncTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()
	return nil
}

// RunSync runs one target synchronously. The CLI calls it directly.
func RunSync(ctx context.Context, syncer Syncer, target string) ([]*ingest.Report, error) {
	var r *ingest.Report
	var err error
	switch target {
	case SyncTargetPortfolio:
		r, err = syncer.SyncPortfolio(ctx)
	case SyncTargetProjects:
		r, err = syncer.SyncProjects(ctx)
	case SyncTargetBlogs:
		r, err = syncer.SyncBlogs(ctx)
	case SyncTargetAll:
		return syncer.SyncAll(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSyncTarget, target)
	}
	if err != nil {
		return nil, err
	}
	return []*ingest.Report{r}, nil
}

func (cs *syncConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SyncMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(logger.ModuleSync, "Failed to unmarshal sync message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // never retry garbage
		return
	}

	reports, err := RunSync(ctx, cs.syncer, payload.Target)
	if err != nil {
		cs.logger.Error(logger.ModuleSync, "Sync failed", map[string]interface{}{
			"job_id": payload.JobId,
			"target": payload.Target,
			"error":  err.Error(),
		})
		cs.notify(ctx, events.TypeSyncFailed, map[string]interface{}{
			"job_id": payload.JobId,
			"target": payload.Target,
			"class":  events.ClassifyError(err),
			"error":  err.Error(),
		})
		// gochannel redelivers a Nack immediately; a failed sync is reported and dropped.
		msg.Ack()
		return
	}

	summary := make(map[string]interface{}, len(reports))
	for _, r := range reports {
		summary[r.Collection] = r.Total
	}
	cs.notify(ctx, events.TypeSyncCompleted, map[string]interface{}{
		"job_id": payload.JobId,
		"target": payload.Target,
		"totals": summary,
	})
	msg.Ack()
}

func (cs *syncConsumerService) notify(ctx context.Context, eventType string, data map[string]interface{}) {
	if cs.notifier != nil {
		cs.notifier.Notify(ctx, events.New(eventType, data))
	}
}
