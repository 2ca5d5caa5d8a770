package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/banshee-data/presence.report/internal/csi"
	"github.com/banshee-data/presence.report/internal/csi/pipeline"
	"github.com/banshee-data/presence.report/internal/monitoring"
	"github.com/banshee-data/presence.report/internal/timeutil"
)

// DatasetPlaceholder in a topic template is replaced by the dataset slug.
const DatasetPlaceholder = "{dataset}"

// Publishing uses QoS 1 (at least once) and does not retain.
const qos = 1

// Publisher is the subset of mqtt.Client used to send messages.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Message is the JSON payload for one dataset.
type Message struct {
	RunID      string            `json:"run_id,omitempty"`
	Dataset    string            `json:"dataset"`
	Baseline   bool              `json:"baseline"`
	Label      string            `json:"label"`
	Confidence string            `json:"confidence"`
	ZEnergy    float64           `json:"z_energy"`
	ZMotion    float64           `json:"z_motion"`
	Features   csi.FeatureTriple `json:"features"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Notifier publishes one message per evaluation.
type Notifier struct {
	client  Publisher
	topic   string
	timeout time.Duration
	clock   timeutil.Clock
}

// NewNotifier returns a Notifier publishing to topic, a template that may
// contain DatasetPlaceholder. Each publish waits up to timeout for the
// broker's acknowledgement.
func NewNotifier(client Publisher, topic string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{client: client, topic: topic, timeout: timeout, clock: timeutil.RealClock{}}
}

// Publish sends every evaluation, stopping at the first failure or when ctx
// is done.
func (n *Notifier) Publish(ctx context.Context, runID string, evals []pipeline.Evaluation) error {
	for _, e := range evals {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := Message{
			RunID:      runID,
			Dataset:    e.Dataset.Name,
			Baseline:   e.Baseline,
			Label:      string(e.Result.Label),
			Confidence: string(e.Result.Confidence),
			ZEnergy:    e.Result.ZEnergy,
			ZMotion:    e.Result.ZMotion,
			Features:   e.Features,
			Timestamp:  n.clock.Now().UTC(),
		}
		if err := n.publish(FormatTopic(n.topic, e.Dataset.Slug()), msg); err != nil {
			return err
		}
	}
	return nil
}

func (n *Notifier) publish(topic string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	token := n.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(n.timeout) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	monitoring.Debugf("mqtt: published %s to %s", msg.Label, topic)
	return nil
}

// FormatTopic replaces DatasetPlaceholder with slug.
func FormatTopic(pattern, slug string) string {
	return strings.ReplaceAll(pattern, DatasetPlaceholder, slug)
}
