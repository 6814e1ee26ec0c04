package compose

import "github.com/raqiba/Weather-ChatBot/internal/provider"

// Kind tells callers which field of a Response carries the answer.
type Kind string

const (
	KindText     Kind = "text"
	KindCurrent  Kind = "current"
	KindForecast Kind = "forecast"
)

// Response is the outcome of one composition. Exactly one of Text, Current
// or Forecast is meaningful, as named by Kind.
type Response struct {
	Kind     Kind            `json:"kind"`
	Text     string          `json:"text,omitempty"`
	Current  *CurrentRecord  `json:"current,omitempty"`
	Forecast *ForecastRecord `json:"forecast,omitempty"`
}

// CurrentRecord is the structured current-conditions answer.
type CurrentRecord struct {
	Type      string  `json:"type"`
	City      string  `json:"city"`
	Units     string  `json:"units"`
	Temp      float64 `json:"temp"`
	Condition string  `json:"condition"`
	Humidity  float64 `json:"humidity"`
	WindSpeed float64 `json:"wind_speed"`
	Updated   int64   `json:"updated,omitempty"`
}

// ForecastRecord is the structured forecast answer.
type ForecastRecord struct {
	Type  string                   `json:"type"`
	City  string                   `json:"city"`
	Units string                   `json:"units"`
	Days  int                      `json:"days"`
	List  []provider.ForecastEntry `json:"list"`
}

func text(s string) Response { return Response{Kind: KindText, Text: s} }
