package domain

import "time"

// Reading is one stored air quality sample. Measurement fields are nullable
// in storage but are written as 0 when a create omits them.
type Reading struct {
	ID        int64     `db:"id" json:"id"`
	PM25      *float64  `db:"pm2_5" json:"pm2_5"`
	PM10      *float64  `db:"pm10" json:"pm10"`
	NO2       *float64  `db:"no2" json:"no2"`
	O3        *float64  `db:"o3" json:"o3"`
	CO        *float64  `db:"co" json:"co"`
	SO2       *float64  `db:"so2" json:"so2"`
	NH3       *float64  `db:"nh3" json:"nh3"`
	PB        *float64  `db:"pb" json:"pb"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// CreateRequest carries the measurements for a new reading. There is no
// timestamp: storage always stamps the insert time.
type CreateRequest struct {
	PM25 *float64 `json:"pm2_5,omitempty"`
	PM10 *float64 `json:"pm10,omitempty"`
	NO2  *float64 `json:"no2,omitempty"`
	O3   *float64 `json:"o3,omitempty"`
	CO   *float64 `json:"co,omitempty"`
	SO2  *float64 `json:"so2,omitempty"`
	NH3  *float64 `json:"nh3,omitempty"`
	PB   *float64 `json:"pb,omitempty"`
}

// FieldNames lists the canonical measurement names in wire order.
var FieldNames = []string{"pm2_5", "pm10", "no2", "o3", "co", "so2", "nh3", "pb"}

// Set assigns a measurement by canonical name. Unknown names are ignored and
// reported as false.
func (r *CreateRequest) Set(name string, v float64) bool {
	switch name {
	case "pm2_5":
		r.PM25 = &v
	case "pm10":
		r.PM10 = &v
	case "no2":
		r.NO2 = &v
	case "o3":
		r.O3 = &v
	case "co":
		r.CO = &v
	case "so2":
		r.SO2 = &v
	case "nh3":
		r.NH3 = &v
	case "pb":
		r.PB = &v
	default:
		return false
	}
	return true
}

// Normalized returns a copy where every missing measurement is 0.
func (r CreateRequest) Normalized() CreateRequest {
	return CreateRequest{
		PM25: orZero(r.PM25),
		PM10: orZero(r.PM10),
		NO2:  orZero(r.NO2),
		O3:   orZero(r.O3),
		CO:   orZero(r.CO),
		SO2:  orZero(r.SO2),
		NH3:  orZero(r.NH3),
		PB:   orZero(r.PB),
	}
}

func orZero(v *float64) *float64 {
	out := 0.0
	if v != nil {
		out = *v
	}
	return &out
}

// Value dereferences a nullable measurement, treating nil as 0.
func Value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float is a convenience for building requests in code.
func Float(v float64) *float64 { return &v }

// ReadingWithLevel is the read-side shape: the stored reading plus its
// derived classification.
type ReadingWithLevel struct {
	Reading
	Level Level `json:"level"`
}
