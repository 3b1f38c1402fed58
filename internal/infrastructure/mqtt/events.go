package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/viahogar/viahogar-core/internal/contact"
	"github.com/viahogar/viahogar-core/internal/infrastructure/config"
)

// Publisher is the part of Client the Notifier needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Notifier publishes application events. It satisfies site.Notifier.
type Notifier struct {
	pub    Publisher
	topics Topics
	qos    byte
	now    func() time.Time
}

// NewNotifier creates a notifier publishing through pub.
func NewNotifier(pub Publisher, cfg config.MQTTConfig) *Notifier {
	return &Notifier{
		pub:    pub,
		topics: Topics{Prefix: cfg.TopicPrefix},
		qos:    byte(cfg.QoS),
		now:    time.Now,
	}
}

type submissionEvent struct {
	Event        string `json:"event"`
	SubmissionID string `json:"submission_id"`
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	SubmittedAt  string `json:"submitted_at"`
}

type propertyEvent struct {
	Event      string `json:"event"`
	PropertyID string `json:"property_id"`
	Change     string `json:"change"`
	Timestamp  string `json:"timestamp"`
}

// SubmissionReceived publishes a contact submission. The message body is
// left out; subscribers read it from the inbox.
func (n *Notifier) SubmissionReceived(ctx context.Context, sub contact.Submission) error {
	return n.publish(ctx, n.topics.SubmissionEvent(sub.PropertyID), submissionEvent{
		Event:        "submission",
		SubmissionID: sub.ID,
		PropertyID:   sub.PropertyID,
		PropertyName: sub.PropertyName,
		Name:         sub.Name,
		Email:        sub.Email,
		SubmittedAt:  sub.SubmittedAt,
	})
}

// PropertyChanged publishes a property change.
func (n *Notifier) PropertyChanged(ctx context.Context, propertyID, change string) error {
	return n.publish(ctx, n.topics.PropertyEvent(propertyID), propertyEvent{
		Event:      "property",
		PropertyID: propertyID,
		Change:     change,
		Timestamp:  n.now().UTC().Format(time.RFC3339),
	})
}

func (n *Notifier) publish(ctx context.Context, topic string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding event: %w", ErrPublishFailed, err)
	}
	return n.pub.Publish(topic, payload, n.qos, false)
}
