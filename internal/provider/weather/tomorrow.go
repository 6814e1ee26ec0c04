package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

const (
	tomorrowBaseURL = "https://api.tomorrow.io/v4"
	// The daily timeline covers today plus five days.
	tomorrowMaxDays = 6
)

// Tomorrow implements provider.Weather for the Tomorrow.io v4 API.
type Tomorrow struct {
	apiKey  string
	baseURL string
	units   string
	core    *httpCore
}

var _ provider.Weather = (*Tomorrow)(nil)

// NewTomorrow returns a Tomorrow.io client.
func NewTomorrow(opts Options) *Tomorrow {
	base := opts.BaseURL
	if base == "" {
		base = tomorrowBaseURL
	}
	return &Tomorrow{
		apiKey:  opts.APIKey,
		baseURL: base,
		units:   unitsOrDefault(opts.Units),
		core:    newHTTPCore("tomorrow", opts),
	}
}

func (t *Tomorrow) Name() string { return "tomorrow" }

func (t *Tomorrow) MaxForecastDays() int { return tomorrowMaxDays }

// FetchCurrent returns the raw /weather/realtime payload.
func (t *Tomorrow) FetchCurrent(ctx context.Context, location string) (json.RawMessage, error) {
	loc, err := normalizeLocation(location)
	if err != nil {
		return nil, err
	}
	return t.core.get(ctx, t.baseURL+"/weather/realtime", t.params(loc), loc)
}

// FetchForecast returns the raw /weather/forecast payload. The endpoint always
// returns its full horizon, so days does not reach the wire.
func (t *Tomorrow) FetchForecast(ctx context.Context, location string, _ int) (json.RawMessage, error) {
	loc, err := normalizeLocation(location)
	if err != nil {
		return nil, err
	}
	return t.core.get(ctx, t.baseURL+"/weather/forecast", t.params(loc), loc)
}

func (t *Tomorrow) params(loc string) url.Values {
	values := url.Values{}
	values.Set("location", loc)
	values.Set("apikey", t.apiKey)
	values.Set("units", t.units)
	return values
}

type tomorrowValues struct {
	Temperature              *float64 `json:"temperature"`
	TemperatureAvg           *float64 `json:"temperatureAvg"`
	TemperatureApparent      *float64 `json:"temperatureApparent"`
	TemperatureApparentAvg   *float64 `json:"temperatureApparentAvg"`
	Humidity                 *float64 `json:"humidity"`
	HumidityAvg              *float64 `json:"humidityAvg"`
	WindSpeed                *float64 `json:"windSpeed"`
	WindSpeedAvg             *float64 `json:"windSpeedAvg"`
	WindDirection            *float64 `json:"windDirection"`
	Visibility               *float64 `json:"visibility"` // km
	PrecipitationProbability *float64 `json:"precipitationProbability"`
	PrecipitationProbAvg     *float64 `json:"precipitationProbabilityAvg"`
	WeatherCode              *int     `json:"weatherCode"`
	WeatherCodeMax           *int     `json:"weatherCodeMax"`
}

type tomorrowInterval struct {
	Time   string          `json:"time"`
	Values *tomorrowValues `json:"values"`
}

type tomorrowRealtime struct {
	Data *tomorrowInterval `json:"data"`
}

type tomorrowForecast struct {
	Timelines struct {
		Minutely []tomorrowInterval `json:"minutely"`
		Hourly   []tomorrowInterval `json:"hourly"`
		Daily    []tomorrowInterval `json:"daily"`
	} `json:"timelines"`
}

// DecodeCurrent extracts an Observation from a realtime payload.
func (t *Tomorrow) DecodeCurrent(raw json.RawMessage) (*provider.Observation, error) {
	var p tomorrowRealtime
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("tomorrow: decoding realtime weather: %w", err)
	}

	obs := &provider.Observation{}
	if p.Data == nil {
		return obs, nil
	}
	if ts, ok := parseTime(p.Data.Time); ok {
		obs.Updated = &ts
	}
	if v := p.Data.Values; v != nil {
		obs.Temperature = v.Temperature
		obs.FeelsLike = v.TemperatureApparent
		obs.Humidity = v.Humidity
		obs.WindSpeed = v.WindSpeed
		obs.WindDirection = v.WindDirection
		obs.Visibility = v.Visibility
		if cond, ok := weatherCodeText(v.WeatherCode); ok {
			obs.Condition = &cond
		}
	}
	return obs, nil
}

// DecodeForecast converts every timeline present in the payload.
func (t *Tomorrow) DecodeForecast(raw json.RawMessage) (*provider.Forecast, error) {
	var p tomorrowForecast
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("tomorrow: decoding forecast: %w", err)
	}

	return &provider.Forecast{Timelines: map[provider.Granularity][]provider.ForecastEntry{
		provider.Minutely: convertIntervals(p.Timelines.Minutely),
		provider.Hourly:   convertIntervals(p.Timelines.Hourly),
		provider.Daily:    convertIntervals(p.Timelines.Daily),
	}}, nil
}

func convertIntervals(in []tomorrowInterval) []provider.ForecastEntry {
	out := make([]provider.ForecastEntry, 0, len(in))
	for _, iv := range in {
		e := provider.ForecastEntry{}
		if ts, ok := parseTime(iv.Time); ok {
			e.Time = ts
		}
		if v := iv.Values; v != nil {
			e.Temperature = firstOf(v.Temperature, v.TemperatureAvg)
			e.FeelsLike = firstOf(v.TemperatureApparent, v.TemperatureApparentAvg)
			e.Humidity = firstOf(v.Humidity, v.HumidityAvg)
			e.PrecipProbability = firstOf(v.PrecipitationProbability, v.PrecipitationProbAvg)
			e.WindSpeed = firstOf(v.WindSpeed, v.WindSpeedAvg)
			code := v.WeatherCode
			if code == nil {
				code = v.WeatherCodeMax
			}
			if cond, ok := weatherCodeText(code); ok {
				e.Condition = cond
			}
		}
		out = append(out, e)
	}
	return out
}

func firstOf(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func parseTime(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, false
	}
	return ts.Unix(), true
}

var tomorrowCodes = map[int]string{
	1000: "clear, sunny",
	1100: "mostly clear",
	1101: "partly cloudy",
	1102: "mostly cloudy",
	1001: "cloudy",
	2000: "fog",
	2100: "light fog",
	4000: "drizzle",
	4001: "rain",
	4200: "light rain",
	4201: "heavy rain",
	5000: "snow",
	5001: "flurries",
	5100: "light snow",
	5101: "heavy snow",
	6000: "freezing drizzle",
	6001: "freezing rain",
	6200: "light freezing rain",
	6201: "heavy freezing rain",
	7000: "ice pellets",
	7101: "heavy ice pellets",
	7102: "light ice pellets",
	8000: "thunderstorm",
}

func weatherCodeText(code *int) (string, bool) {
	if code == nil {
		return "", false
	}
	s, ok := tomorrowCodes[*code]
	return s, ok
}
