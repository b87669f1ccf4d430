package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/biomeddev/equipment-maintenance/internal/models"
)

const publishTimeout = 10 * time.Second

// MQTTPublisher mirrors reminder batches onto an MQTT topic so dashboards
// and ward displays can subscribe without polling the API.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to the broker and returns the publisher. An
// unreachable broker fails here, at wiring time, not on first publish.
func NewMQTTPublisher(brokerURL, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID("equipment-maintenance-reminders").
		SetConnectTimeout(publishTimeout).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", brokerURL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}
	return &MQTTPublisher{client: client, topic: topic}, nil
}

func (p *MQTTPublisher) Name() string { return "mqtt" }

// Notify publishes the batch as one JSON document at QoS 1.
func (p *MQTTPublisher) Notify(ctx context.Context, entries []models.UpcomingEntry) error {
	payload, err := json.Marshal(struct {
		GeneratedAt time.Time              `json:"generated_at"`
		Upcoming    []models.UpcomingEntry `json:"upcoming"`
	}{time.Now().UTC(), entries})
	if err != nil {
		return fmt.Errorf("encoding alert payload: %w", err)
	}

	token := p.client.Publish(p.topic, 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish to %s timed out", p.topic)
	}
	return token.Error()
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
