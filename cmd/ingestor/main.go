package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/cloud"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/config"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/database"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/ingest"
	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogger()

	ctx := context.Background()
	repo, closeRepo, err := database.OpenRepository(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer closeRepo()

	svc := service.New(repo)

	alertMin, ok := domain.ParseLevel(config.MQTTAlertMinLevel())
	if !ok && config.MQTTAlertMinLevel() != "" {
		log.Warn().Str("level", config.MQTTAlertMinLevel()).Msg("unknown alert level, automatic alerts disabled")
	}

	client := ingest.New(ingest.Options{
		Broker:        config.MQTTBroker(),
		ClientID:      config.MQTTClientID(),
		Username:      config.MQTTUsername(),
		Password:      config.MQTTPassword(),
		QoS:           config.MQTTQoS(),
		AlertMinLevel: alertMin,
	}, svc)

	if config.UseCloudServices() && config.SNSTopicArn() != "" {
		notifier, err := cloud.NewSNSClient(ctx, config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns client")
		}
		client.WithNotifier(notifier)
		log.Info().Str("topic_arn", config.SNSTopicArn()).Msg("sns alert notifications enabled")
	}

	if err := client.Connect(); err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	log.Info().Strs("topics", ingest.SensorTopics).Msg("ingestor running; Ctrl+C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down ingestor")
}
