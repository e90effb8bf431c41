package domain

// Level is the air quality category derived from a reading.
type Level string

const (
	LevelGood                        Level = "Good"
	LevelModerate                    Level = "Moderate"
	LevelUnhealthyForSensitiveGroups Level = "Unhealthy for Sensitive Groups"
	LevelUnhealthy                   Level = "Unhealthy"
	LevelVeryUnhealthy               Level = "Very Unhealthy"
	LevelHazardous                   Level = "Hazardous"
)

type breakpoint struct {
	upper float64
	level Level
}

// PM2.5 upper bounds (µg/m³, inclusive), US EPA categories.
var pm25Breakpoints = []breakpoint{
	{12.0, LevelGood},
	{35.4, LevelModerate},
	{55.4, LevelUnhealthyForSensitiveGroups},
	{150.4, LevelUnhealthy},
	{250.4, LevelVeryUnhealthy},
}

// Levels lists every category from best to worst.
var Levels = []Level{
	LevelGood,
	LevelModerate,
	LevelUnhealthyForSensitiveGroups,
	LevelUnhealthy,
	LevelVeryUnhealthy,
	LevelHazardous,
}

// LevelFor classifies a PM2.5 concentration. Other pollutants do not
// contribute.
func LevelFor(pm25 float64) Level {
	for _, bp := range pm25Breakpoints {
		if pm25 <= bp.upper {
			return bp.level
		}
	}
	return LevelHazardous
}

// Severity returns the index of l in Levels, or -1 for an unknown label.
func (l Level) Severity() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// ParseLevel matches a label exactly.
func ParseLevel(s string) (Level, bool) {
	l := Level(s)
	return l, l.Severity() >= 0
}
