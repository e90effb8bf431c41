package domain

import "time"

// Alert is the envelope published on aqi/alerts and forwarded to notifiers.
type Alert struct {
	Timestamp string  `json:"timestamp"`
	Level     Level   `json:"level"`
	Data      Reading `json:"data"`
	Message   string  `json:"message"`
}

var alertMessages = map[Level]string{
	LevelGood:                        "Air quality is satisfactory and poses little or no risk.",
	LevelModerate:                    "Air quality is acceptable. Unusually sensitive people should consider reducing prolonged outdoor exertion.",
	LevelUnhealthyForSensitiveGroups: "Members of sensitive groups may experience health effects. Limit prolonged outdoor exertion.",
	LevelUnhealthy:                   "Everyone may begin to experience health effects. Avoid prolonged outdoor exertion.",
	LevelVeryUnhealthy:               "Health alert: everyone may experience more serious health effects. Avoid outdoor activity.",
	LevelHazardous:                   "Health warning of emergency conditions. Everyone should stay indoors.",
}

// AlertMessage returns the human readable text for a level.
func AlertMessage(l Level) string {
	if msg, ok := alertMessages[l]; ok {
		return msg
	}
	return "Unknown air quality level."
}

func NewAlert(r Reading, l Level, at time.Time) Alert {
	return Alert{
		Timestamp: at.UTC().Format(time.RFC3339),
		Level:     l,
		Data:      r,
		Message:   AlertMessage(l),
	}
}
