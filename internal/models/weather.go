package models

import "time"

// WeatherSnapshot holds conditions at request time. It lives for one
// request/response cycle; the suggestion log keeps a JSON copy.
type WeatherSnapshot struct {
	Current            string    `json:"current"`
	SuitableForOutdoor bool      `json:"suitable_for_outdoor"`
	Temperature        *float64  `json:"temperature,omitempty"`
	TemperatureC       *float64  `json:"temperature_c,omitempty"`
	Humidity           *int      `json:"humidity,omitempty"`
	Condition          string    `json:"condition,omitempty"`
	WindMPH            float64   `json:"wind_mph,omitempty"`
	Location           string    `json:"location,omitempty"`
	LocalTime          string    `json:"local_time,omitempty"`
	FetchedAt          time.Time `json:"-"`
}
