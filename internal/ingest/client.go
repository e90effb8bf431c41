// Package ingest consumes sensor readings from MQTT, stores them and
// republishes the classified result.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
)

const (
	TopicProcessed = "aqi/processed"
	TopicAlerts    = "aqi/alerts"
)

// SensorTopics are subscribed on every (re)connect.
var SensorTopics = []string{"aqi/data", "sensors/air-quality", "iot/air-quality"}

var (
	ErrNotConnected   = errors.New("mqtt client not connected")
	ErrIgnoredTopic   = errors.New("topic is not an air quality topic")
	ErrNoMeasurements = errors.New("payload has no recognised measurement")
)

// ReadingCreator persists a reading; *service.AQIService satisfies it.
type ReadingCreator interface {
	CreateAQI(ctx context.Context, req domain.CreateRequest) (*domain.Reading, error)
	CalculateAQILevel(r domain.Reading) domain.Level
}

// Notifier receives alerts in addition to the aqi/alerts topic.
type Notifier interface {
	SendAQIAlert(ctx context.Context, alert domain.Alert) error
}

type Options struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
	// AlertMinLevel is the least severe level that raises an alert. Empty
	// disables automatic alerts.
	AlertMinLevel domain.Level
}

// ProcessedReading is published on aqi/processed.
type ProcessedReading struct {
	domain.ReadingWithLevel
	ProcessedAt string `json:"processedAt"`
}

type Client struct {
	client   mqtt.Client
	svc      ReadingCreator
	notifier Notifier
	qos      byte
	alertMin domain.Level
	now      func() time.Time
}

// New builds a client for opts.Broker. Call Connect to start receiving.
func New(opts Options, svc ReadingCreator) *Client {
	c := newClient(opts, svc)

	clientID := opts.ClientID
	if clientID == "" {
		clientID = "aqi-ingestor"
	}
	mopts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(clientID + "-" + uuid.New().String()[:8]).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetKeepAlive(30 * time.Second).
		SetOrderMatters(false).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Error().Err(err).Msg("MQTT connection lost")
		}).
		SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
			log.Warn().Msg("MQTT reconnecting")
		})
	if opts.Username != "" {
		mopts.SetUsername(opts.Username)
	}
	if opts.Password != "" {
		mopts.SetPassword(opts.Password)
	}

	c.client = mqtt.NewClient(mopts)
	return c
}

// NewWithClient wraps an already configured paho client. The caller must
// route messages to HandleMessage itself or call Subscribe.
func NewWithClient(client mqtt.Client, opts Options, svc ReadingCreator) *Client {
	c := newClient(opts, svc)
	c.client = client
	return c
}

func newClient(opts Options, svc ReadingCreator) *Client {
	return &Client{
		svc:      svc,
		qos:      opts.QoS,
		alertMin: opts.AlertMinLevel,
		now:      time.Now,
	}
}

func (c *Client) WithNotifier(n Notifier) *Client {
	c.notifier = n
	return c
}

func (c *Client) Connect() error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return nil
}

// Disconnect closes the MQTT connection gracefully
func (c *Client) Disconnect(quiesce uint) {
	c.client.Disconnect(quiesce)
	log.Info().Msg("MQTT client disconnected")
}

func (c *Client) onConnect(client mqtt.Client) {
	log.Info().Msg("MQTT connection established")
	c.Subscribe()
}

// Subscribe subscribes every sensor topic. A failure is logged for that
// topic only; the paho reconnect cycle retries on the next connect.
func (c *Client) Subscribe() {
	for _, topic := range SensorTopics {
		token := c.client.Subscribe(topic, c.qos, c.onMessage)
		if token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Str("topic", topic).Msg("subscribe failed")
			continue
		}
		log.Info().Str("topic", topic).Msg("subscribed")
	}
}

func (c *Client) onMessage(_ mqtt.Client, msg mqtt.Message) {
	if _, err := c.HandleMessage(msg.Topic(), msg.Payload()); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("message dropped")
	}
}

// HandleMessage validates, stores and republishes one sensor payload.
func (c *Client) HandleMessage(topic string, payload []byte) (*domain.ReadingWithLevel, error) {
	if !strings.Contains(topic, "aqi") && !strings.Contains(topic, "air-quality") {
		return nil, ErrIgnoredTopic
	}

	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}

	req, ok := Normalize(data)
	if !ok {
		return nil, ErrNoMeasurements
	}

	ctx := context.Background()
	reading, err := c.svc.CreateAQI(ctx, req.Normalized())
	if err != nil {
		return nil, err
	}

	level := c.svc.CalculateAQILevel(*reading)
	enriched := domain.ReadingWithLevel{Reading: *reading, Level: level}
	log.Info().
		Int64("id", reading.ID).
		Float64("pm2_5", domain.Value(reading.PM25)).
		Str("level", string(level)).
		Str("topic", topic).
		Msg("aqi reading stored")

	processed := ProcessedReading{
		ReadingWithLevel: enriched,
		ProcessedAt:      c.now().UTC().Format(time.RFC3339),
	}
	if err := c.PublishMessage(TopicProcessed, processed); err != nil && !errors.Is(err, ErrNotConnected) {
		log.Error().Err(err).Str("topic", TopicProcessed).Msg("publish failed")
	}

	if c.shouldAlert(level) {
		if err := c.PublishAQIAlert(*reading, level); err != nil && !errors.Is(err, ErrNotConnected) {
			log.Error().Err(err).Str("topic", TopicAlerts).Msg("alert publish failed")
		}
	}

	return &enriched, nil
}

func (c *Client) shouldAlert(l domain.Level) bool {
	threshold := c.alertMin.Severity()
	return threshold >= 0 && l.Severity() >= threshold
}

// PublishMessage encodes v as JSON and publishes it. The message is dropped
// when the client is offline.
func (c *Client) PublishMessage(topic string, v any) error {
	if !c.client.IsConnected() {
		log.Warn().Str("topic", topic).Msg("MQTT not connected, message dropped")
		return ErrNotConnected
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	token := c.client.Publish(topic, c.qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// PublishAQIAlert publishes the alert envelope on aqi/alerts and forwards it
// to the notifier, if any.
func (c *Client) PublishAQIAlert(r domain.Reading, level domain.Level) error {
	alert := domain.NewAlert(r, level, c.now())

	if c.notifier != nil {
		if err := c.notifier.SendAQIAlert(context.Background(), alert); err != nil {
			log.Error().Err(err).Str("level", string(level)).Msg("alert notification failed")
		}
	}

	if err := c.PublishMessage(TopicAlerts, alert); err != nil {
		return err
	}
	log.Info().Str("level", string(level)).Int64("id", r.ID).Msg("aqi alert published")
	return nil
}
