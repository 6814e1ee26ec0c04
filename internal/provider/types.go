package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

// LLM sends a single prompt to a hosted language model and returns its text.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Weather fetches raw payloads from an external weather API and decodes them
// against the provider's declared schema.
type Weather interface {
	Name() string
	FetchCurrent(ctx context.Context, location string) (json.RawMessage, error)
	FetchForecast(ctx context.Context, location string, days int) (json.RawMessage, error)
	DecodeCurrent(raw json.RawMessage) (*Observation, error)
	DecodeForecast(raw json.RawMessage) (*Forecast, error)
	MaxForecastDays() int
}

// Observation is a provider-neutral view of current conditions.
// Every field is optional; providers leave a field nil when the payload omits it.
type Observation struct {
	Temperature   *float64
	FeelsLike     *float64
	Humidity      *float64
	WindSpeed     *float64
	WindDirection *float64
	Visibility    *float64 // km
	Condition     *string
	Updated       *int64 // unix seconds
}

// MissingFieldError names a required field absent from a provider payload.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Complete is an Observation whose required numeric fields are all present.
type Complete struct {
	Temperature float64
	Humidity    float64
	WindSpeed   float64
	Condition   string
	Updated     int64
}

// Require validates the observation in one pass. Temperature, humidity and
// wind speed must be present; condition falls back to "Unknown".
func (o *Observation) Require() (Complete, error) {
	switch {
	case o.Temperature == nil:
		return Complete{}, &MissingFieldError{Field: "temperature"}
	case o.Humidity == nil:
		return Complete{}, &MissingFieldError{Field: "humidity"}
	case o.WindSpeed == nil:
		return Complete{}, &MissingFieldError{Field: "wind_speed"}
	}

	c := Complete{
		Temperature: *o.Temperature,
		Humidity:    *o.Humidity,
		WindSpeed:   *o.WindSpeed,
		Condition:   "Unknown",
	}
	if o.Condition != nil && *o.Condition != "" {
		c.Condition = *o.Condition
	}
	if o.Updated != nil {
		c.Updated = *o.Updated
	}
	return c, nil
}

// Granularity identifies a forecast timeline.
type Granularity string

const (
	Minutely Granularity = "minutely"
	Hourly   Granularity = "hourly"
	Daily    Granularity = "daily"
)

// TimelinePriority is the order in which timelines are consulted when only
// the finest-grained one is wanted, as in short text summaries.
var TimelinePriority = []Granularity{Minutely, Hourly, Daily}

// SpanPriority is the order in which timelines are consulted for a multi-day
// list. Minutely data covers about an hour, so it comes last.
var SpanPriority = []Granularity{Hourly, Daily, Minutely}

// ForecastEntry is one forecast point. Fields are optional.
type ForecastEntry struct {
	Time              int64    `json:"dt"`
	Temperature       *float64 `json:"temp,omitempty"`
	FeelsLike         *float64 `json:"feels_like,omitempty"`
	Humidity          *float64 `json:"humidity,omitempty"`
	PrecipProbability *float64 `json:"pop,omitempty"` // percent
	WindSpeed         *float64 `json:"wind_speed,omitempty"`
	Condition         string   `json:"condition,omitempty"`
}

// Forecast holds the timelines a provider returned.
type Forecast struct {
	Timelines map[Granularity][]ForecastEntry
}

// Primary returns the first non-empty timeline in TimelinePriority order.
func (f *Forecast) Primary() (Granularity, []ForecastEntry, bool) {
	return f.first(TimelinePriority)
}

// Span returns the first non-empty timeline in SpanPriority order.
func (f *Forecast) Span() (Granularity, []ForecastEntry, bool) {
	return f.first(SpanPriority)
}

func (f *Forecast) first(order []Granularity) (Granularity, []ForecastEntry, bool) {
	if f == nil {
		return "", nil, false
	}
	for _, g := range order {
		if entries := f.Timelines[g]; len(entries) > 0 {
			return g, entries, true
		}
	}
	return "", nil, false
}

// ClampDays bounds a requested day count to 1..w.MaxForecastDays().
func ClampDays(w Weather, days int) int {
	return max(1, min(days, w.MaxForecastDays()))
}
