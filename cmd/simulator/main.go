package main

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// reading builds a sensor payload. Odd sensors use the uppercase
// abbreviations some firmware sends.
func reading(upper bool) map[string]float64 {
	pm25 := 5 + rand.Float64()*120
	values := map[string]float64{
		"pm2_5": pm25,
		"pm10":  pm25*1.6 + rand.Float64()*10,
		"no2":   10 + rand.Float64()*40,
		"o3":    20 + rand.Float64()*60,
		"co":    0.2 + rand.Float64()*2,
		"so2":   1 + rand.Float64()*10,
		"nh3":   2 + rand.Float64()*20,
		"pb":    rand.Float64() * 0.5,
	}
	if !upper {
		return values
	}
	return map[string]float64{
		"PM25": values["pm2_5"],
		"PM10": values["pm10"],
		"NO2":  values["no2"],
		"O3":   values["o3"],
		"CO":   values["co"],
		"SO2":  values["so2"],
		"NH3":  values["nh3"],
		"PB":   values["pb"],
	}
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	config.SetupLogger()

	opts := mqtt.NewClientOptions().
		AddBroker(config.MQTTBroker()).
		SetClientID("aqi-simulator-" + uuid.New().String()[:8])
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	count, interval, topic := config.SimCount(), config.SimInterval(), config.SimTopic()

	for i := 0; i < count; i++ {
		payload, _ := json.Marshal(reading(i%2 == 1))
		token := client.Publish(topic, config.MQTTQoS(), false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Error().Err(token.Error()).Msg("publish failed")
		}
		time.Sleep(interval)
	}
	log.Info().Int("readings", count).Msg("simulation done")
}
