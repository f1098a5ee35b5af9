// ABOUTME: Change notifications for note mutations over gocloud.dev pubsub.
// ABOUTME: Publishes JSON change records and consumes them with Watch.

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

// DefaultTopic is an in-process topic; nothing leaves the process.
const DefaultTopic = "mem://pinboard"

type Kind string

const (
	Created  Kind = "created"
	Saved    Kind = "saved"
	Deleted  Kind = "deleted"
	Pinned   Kind = "pinned"
	Unpinned Kind = "unpinned"
	Imported Kind = "imported"
)

// Change describes one completed mutation of the collection.
type Change struct {
	Kind   Kind      `json:"kind"`
	NoteID string    `json:"note_id,omitempty"`
	Title  string    `json:"title,omitempty"`
	Count  int       `json:"count,omitempty"`
	At     time.Time `json:"at"`
}

type Publisher struct {
	topic *pubsub.Topic
}

// OpenPublisher opens the topic at url, e.g. mem://pinboard.
func OpenPublisher(ctx context.Context, url string) (*Publisher, error) {
	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open topic %s: %w", url, err)
	}
	return NewPublisher(topic), nil
}

func NewPublisher(topic *pubsub.Topic) *Publisher {
	return &Publisher{topic: topic}
}

// Notify publishes c; it satisfies repo.Notifier.
func (p *Publisher) Notify(ctx context.Context, c Change) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	return p.topic.Send(ctx, &pubsub.Message{
		Body:     body,
		Metadata: map[string]string{"kind": string(c.Kind)},
	})
}

func (p *Publisher) Shutdown(ctx context.Context) error {
	return p.topic.Shutdown(ctx)
}

// Watch receives changes from sub until ctx is done, calling fn for each.
// Undecodable messages are acked and skipped. It returns nil when ctx is
// cancelled.
func Watch(ctx context.Context, sub *pubsub.Subscription, fn func(Change)) error {
	for {
		msg, err := sub.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}

		var c Change
		if err := json.Unmarshal(msg.Body, &c); err == nil {
			fn(c)
		}
		msg.Ack()
	}
}
