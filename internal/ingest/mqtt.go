package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/miradorstack/spectrum-engine/internal/config"
	"github.com/miradorstack/spectrum-engine/internal/metrics"
	"github.com/miradorstack/spectrum-engine/internal/utils"
)

// MQTTClient is a connected broker session used for both subscribing and publishing.
type MQTTClient struct {
	client  mqtt.Client
	cfg     config.MQTTConfig
	logger  *slog.Logger
	timeout time.Duration
}

// clientID suffixes the configured ID so several engines can share a broker.
func clientID(base string) string {
	if base == "" {
		base = "spectrum-engine"
	}
	return base + "-" + uuid.NewString()[:8]
}

// Connect opens a broker session.
func Connect(cfg config.MQTTConfig, logger *slog.Logger) (*MQTTClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID(cfg.ClientID))
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.Info("mqtt connected", slog.String("broker", cfg.Broker))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", slog.Any("error", err))
	})
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		logger.Info("mqtt reconnecting")
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, utils.NewAppError("mqtt.connect", fmt.Sprintf("timed out connecting to %s", cfg.Broker), nil)
	}
	if err := token.Error(); err != nil {
		return nil, utils.NewAppError("mqtt.connect", fmt.Sprintf("connect to %s", cfg.Broker), err)
	}

	return &MQTTClient{client: client, cfg: cfg, logger: logger, timeout: timeout}, nil
}

// Publish sends payload to topic and waits for the broker to acknowledge it.
func (c *MQTTClient) Publish(topic string, payload []byte) error {
	if c == nil || !c.client.IsConnected() {
		return fmt.Errorf("mqtt not connected")
	}
	token := c.client.Publish(topic, byte(c.cfg.QoS), false, payload)
	if !token.WaitTimeout(c.timeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// snapshotQueueSize bounds snapshots received but not yet analysed.
const snapshotQueueSize = 64

// snapshotQueue decouples paho's message router from analysis and publishing.
// Handlers registered with paho must not block.
type snapshotQueue struct {
	ch chan []byte
}

func newSnapshotQueue(size int) *snapshotQueue {
	if size <= 0 {
		size = snapshotQueueSize
	}
	return &snapshotQueue{ch: make(chan []byte, size)}
}

// offer enqueues payload without blocking and reports whether it was accepted.
func (q *snapshotQueue) offer(payload []byte) bool {
	select {
	case q.ch <- payload:
		return true
	default:
		return false
	}
}

// drain hands queued payloads to handle in arrival order until ctx is cancelled.
func (q *snapshotQueue) drain(ctx context.Context, handle func([]byte)) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-q.ch:
			handle(payload)
		}
	}
}

// Run subscribes the ingester to its snapshot topic and processes snapshots until ctx
// is cancelled. Analysis and publishing happen on the calling goroutine.
func (c *MQTTClient) Run(ctx context.Context, ingester *Ingester) error {
	topic := ingester.topics.Snapshots()
	queue := newSnapshotQueue(snapshotQueueSize)
	token := c.client.Subscribe(topic, byte(c.cfg.QoS), func(_ mqtt.Client, msg mqtt.Message) {
		if !queue.offer(msg.Payload()) {
			metrics.IncIngestErrors()
			c.logger.Warn("snapshot dropped, ingest queue full", slog.String("topic", msg.Topic()))
		}
	})
	if !token.WaitTimeout(c.timeout) {
		return utils.NewAppError("mqtt.subscribe", fmt.Sprintf("timed out subscribing to %s", topic), nil)
	}
	if err := token.Error(); err != nil {
		return utils.NewAppError("mqtt.subscribe", fmt.Sprintf("subscribe to %s", topic), err)
	}
	c.logger.Info("mqtt ingest subscribed", slog.String("topic", topic))

	queue.drain(ctx, func(payload []byte) {
		if err := ingester.HandleMessage(payload); err != nil {
			c.logger.Warn("snapshot rejected", slog.String("topic", topic), slog.String("op", utils.OpOf(err)), slog.Any("error", err))
		}
	})
	c.client.Unsubscribe(topic).WaitTimeout(c.timeout)
	return nil
}

// Disconnect closes the broker session.
func (c *MQTTClient) Disconnect() {
	if c != nil && c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
		c.logger.Info("mqtt disconnected")
	}
}
