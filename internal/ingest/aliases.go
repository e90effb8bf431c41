package ingest

import "github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"

type alias struct {
	key   string
	field string
}

// fieldAliases maps every accepted payload key to its canonical field.
// Canonical keys come first so they win when a payload carries both.
var fieldAliases = []alias{
	{"pm2_5", "pm2_5"},
	{"pm10", "pm10"},
	{"no2", "no2"},
	{"o3", "o3"},
	{"co", "co"},
	{"so2", "so2"},
	{"nh3", "nh3"},
	{"pb", "pb"},
	{"PM25", "pm2_5"},
	{"PM10", "pm10"},
	{"NO2", "no2"},
	{"O3", "o3"},
	{"CO", "co"},
	{"SO2", "so2"},
	{"NH3", "nh3"},
	{"PB", "pb"},
}

// Normalize maps a decoded sensor payload onto a create request. ok is false
// when no recognised key holds a number; unrecognised keys are ignored.
func Normalize(payload map[string]any) (req domain.CreateRequest, ok bool) {
	seen := make(map[string]bool, len(domain.FieldNames))
	for _, a := range fieldAliases {
		if seen[a.field] {
			continue
		}
		raw, present := payload[a.key]
		if !present {
			continue
		}
		v, valid := domain.ParseNumber(raw)
		if !valid {
			continue
		}
		req.Set(a.field, v)
		seen[a.field] = true
		ok = true
	}
	return req, ok
}
