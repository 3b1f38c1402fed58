package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/viahogar/viahogar-core/internal/contact"
	"github.com/viahogar/viahogar-core/internal/infrastructure/config"
)

type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

type fakePublisher struct {
	messages []message
	err      error
}

func (f *fakePublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message{topic, payload, qos, retained})
	return nil
}

func TestTopics(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"default status", Topics{}.SystemStatus(), "viahogar/system/status"},
		{"custom prefix", Topics{Prefix: "staging"}.SystemStatus(), "staging/system/status"},
		{"submission", Topics{}.SubmissionEvent("prop-1"), "viahogar/events/submission/prop-1"},
		{"property", Topics{}.PropertyEvent("prop-2"), "viahogar/events/property/prop-2"},
		{"all events", Topics{}.AllEvents(), "viahogar/events/#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNotifier_SubmissionReceived(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, config.MQTTConfig{QoS: 1})

	sub := contact.Submission{
		ID:           "sub-1",
		PropertyID:   "prop-1",
		PropertyName: "Villa",
		SubmittedAt:  "2026-03-01T10:00:00.000Z",
		Form:         contact.Form{Name: "Ana", Email: "ana@example.com", Message: "secret"},
	}
	if err := n.SubmissionReceived(context.Background(), sub); err != nil {
		t.Fatalf("SubmissionReceived() error = %v", err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.topic != "viahogar/events/submission/prop-1" || msg.qos != 1 || msg.retained {
		t.Errorf("message = %+v", msg)
	}
	var ev submissionEvent
	if err := json.Unmarshal(msg.payload, &ev); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if ev.SubmissionID != "sub-1" || ev.Email != "ana@example.com" {
		t.Errorf("event = %+v", ev)
	}
	if strings.Contains(string(msg.payload), "secret") {
		t.Error("payload should not carry the message body")
	}
}

func TestNotifier_PropertyChanged(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, config.MQTTConfig{TopicPrefix: "vh"})
	n.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	if err := n.PropertyChanged(context.Background(), "prop-9", "deleted"); err != nil {
		t.Fatalf("PropertyChanged() error = %v", err)
	}
	want := `{"event":"property","property_id":"prop-9","change":"deleted","timestamp":"2026-03-01T09:00:00Z"}`
	if got := string(pub.messages[0].payload); got != want {
		t.Errorf("payload = %s, want %s", got, want)
	}
	if pub.messages[0].topic != "vh/events/property/prop-9" {
		t.Errorf("topic = %q", pub.messages[0].topic)
	}
}

func TestNotifier_Errors(t *testing.T) {
	pub := &fakePublisher{err: ErrNotConnected}
	n := NewNotifier(pub, config.MQTTConfig{})

	if err := n.PropertyChanged(context.Background(), "p", "updated"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("PropertyChanged() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewNotifier(&fakePublisher{}, config.MQTTConfig{}).PropertyChanged(ctx, "p", "updated"); !errors.Is(err, context.Canceled) {
		t.Errorf("PropertyChanged(cancelled) error = %v", err)
	}
}

func TestValidatePublish(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"valid", "a/b", []byte("{}"), 1, nil},
		{"empty topic", "", nil, 0, ErrInvalidTopic},
		{"bad qos", "a", nil, 3, ErrInvalidQoS},
		{"too large", "a", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePublish(tt.topic, tt.payload, tt.qos)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validatePublish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStatusPayload(t *testing.T) {
	var v map[string]string
	if err := json.Unmarshal([]byte(statusPayload("offline", "core", "graceful_shutdown")), &v); err != nil {
		t.Fatalf("statusPayload() not JSON: %v", err)
	}
	if v["status"] != "offline" || v["reason"] != "graceful_shutdown" || v["client_id"] != "core" {
		t.Errorf("statusPayload() = %v", v)
	}
	if strings.Contains(statusPayload("online", "core", ""), "reason") {
		t.Error("online payload should not carry a reason")
	}
}

func TestConnect_Disabled(t *testing.T) {
	if _, err := Connect(config.MQTTConfig{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_InvalidBroker(t *testing.T) {
	cfg := config.MQTTConfig{
		Enabled: true,
		Broker:  config.MQTTBrokerConfig{Host: "127.0.0.1", Port: 1, ClientID: "viahogar-test"},
	}
	if _, err := Connect(cfg); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

// brokerConfig returns a config for the broker named by VIAHOGAR_TEST_MQTT_HOST,
// skipping the test when it is not set.
func brokerConfig(t *testing.T) config.MQTTConfig {
	t.Helper()
	host := os.Getenv("VIAHOGAR_TEST_MQTT_HOST")
	if host == "" {
		t.Skip("VIAHOGAR_TEST_MQTT_HOST not set")
	}
	port := 1883
	if v := os.Getenv("VIAHOGAR_TEST_MQTT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	return config.MQTTConfig{
		Enabled: true,
		Broker:  config.MQTTBrokerConfig{Host: host, Port: port, ClientID: "viahogar-test"},
		QoS:     1,
	}
}

func TestClient_PublishAndClose(t *testing.T) {
	cfg := brokerConfig(t)

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	n := NewNotifier(client, cfg)
	if err := n.PropertyChanged(context.Background(), "prop-test", "updated"); err != nil {
		t.Errorf("PropertyChanged() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}
	if err := client.Publish("viahogar/test", []byte("x"), 0, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() after Close error = %v, want ErrNotConnected", err)
	}
}
