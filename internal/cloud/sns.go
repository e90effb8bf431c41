package cloud

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
)

// SNSAPI is the slice of the SNS client used for alerts.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient forwards air quality alerts to an SNS topic
type SNSClient struct {
	svc      SNSAPI
	topicArn string
}

// NewSNSClient creates a new SNS client instance
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return NewSNSClientWithAPI(sns.NewFromConfig(cfg), topicArn), nil
}

func NewSNSClientWithAPI(svc SNSAPI, topicArn string) *SNSClient {
	return &SNSClient{svc: svc, topicArn: topicArn}
}

// SendAlert publishes a plain message to the topic
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}

	result, err := c.svc.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}

	log.Debug().Str("message_id", aws.ToString(result.MessageId)).Msg("sns alert sent")
	return nil
}

// SendAQIAlert formats an alert envelope for email/SMS subscribers.
func (c *SNSClient) SendAQIAlert(ctx context.Context, alert domain.Alert) error {
	subject := fmt.Sprintf("Air Quality Alert: %s", alert.Level)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", alert.Message)
	fmt.Fprintf(&b, "Reading: #%d\n", alert.Data.ID)
	fmt.Fprintf(&b, "Time: %s\n\n", alert.Timestamp)
	fields := []struct {
		name string
		v    *float64
	}{
		{"PM2.5", alert.Data.PM25},
		{"PM10", alert.Data.PM10},
		{"NO2", alert.Data.NO2},
		{"O3", alert.Data.O3},
		{"CO", alert.Data.CO},
		{"SO2", alert.Data.SO2},
		{"NH3", alert.Data.NH3},
		{"Pb", alert.Data.PB},
	}
	for _, f := range fields {
		fmt.Fprintf(&b, "%-6s %.2f\n", f.name, domain.Value(f.v))
	}

	return c.SendAlert(ctx, subject, b.String())
}
