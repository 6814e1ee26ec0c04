package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	openWeatherMaxDays = 5
	// The forecast endpoint returns 3-hourly points.
	openWeatherPointsPerDay = 8
)

// OpenWeather implements provider.Weather for OpenWeatherMap.
type OpenWeather struct {
	apiKey  string
	baseURL string
	units   string
	core    *httpCore
}

var _ provider.Weather = (*OpenWeather)(nil)

// NewOpenWeather returns an OpenWeatherMap client.
func NewOpenWeather(opts Options) *OpenWeather {
	base := opts.BaseURL
	if base == "" {
		base = openWeatherBaseURL
	}
	return &OpenWeather{
		apiKey:  opts.APIKey,
		baseURL: base,
		units:   unitsOrDefault(opts.Units),
		core:    newHTTPCore("openweathermap", opts),
	}
}

func (o *OpenWeather) Name() string { return "openweathermap" }

func (o *OpenWeather) MaxForecastDays() int { return openWeatherMaxDays }

// FetchCurrent returns the raw /weather payload for a city.
func (o *OpenWeather) FetchCurrent(ctx context.Context, location string) (json.RawMessage, error) {
	city, err := normalizeLocation(location)
	if err != nil {
		return nil, err
	}
	return o.core.get(ctx, o.baseURL+"/weather", o.params(city), city)
}

// FetchForecast returns the raw /forecast payload limited to days worth of points.
func (o *OpenWeather) FetchForecast(ctx context.Context, location string, days int) (json.RawMessage, error) {
	city, err := normalizeLocation(location)
	if err != nil {
		return nil, err
	}
	days = clampDays(days, openWeatherMaxDays)

	params := o.params(city)
	params.Set("cnt", strconv.Itoa(days*openWeatherPointsPerDay))
	return o.core.get(ctx, o.baseURL+"/forecast", params, city)
}

func (o *OpenWeather) params(city string) url.Values {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", o.apiKey)
	values.Set("units", o.units)
	return values
}

type owmMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Humidity  *float64 `json:"humidity"`
}

type owmWind struct {
	Speed *float64 `json:"speed"`
	Deg   *float64 `json:"deg"`
}

// owmCondition keeps description untyped so a non-string value degrades to "Unknown".
type owmCondition struct {
	Description any `json:"description"`
}

type owmCurrent struct {
	Dt         *int64         `json:"dt"`
	Main       *owmMain       `json:"main"`
	Weather    []owmCondition `json:"weather"`
	Wind       *owmWind       `json:"wind"`
	Visibility *float64       `json:"visibility"` // metres
}

type owmForecastItem struct {
	Dt      int64          `json:"dt"`
	Main    *owmMain       `json:"main"`
	Weather []owmCondition `json:"weather"`
	Wind    *owmWind       `json:"wind"`
	Pop     *float64       `json:"pop"` // 0..1
}

type owmForecast struct {
	List []owmForecastItem `json:"list"`
}

// DecodeCurrent extracts an Observation from a /weather payload.
func (o *OpenWeather) DecodeCurrent(raw json.RawMessage) (*provider.Observation, error) {
	var p owmCurrent
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("openweathermap: decoding current weather: %w", err)
	}

	obs := &provider.Observation{
		Updated:   p.Dt,
		Condition: firstDescription(p.Weather),
	}
	if p.Main != nil {
		obs.Temperature = p.Main.Temp
		obs.FeelsLike = p.Main.FeelsLike
		obs.Humidity = p.Main.Humidity
	}
	if p.Wind != nil {
		obs.WindSpeed = p.Wind.Speed
		obs.WindDirection = p.Wind.Deg
	}
	if p.Visibility != nil {
		km := *p.Visibility / 1000
		obs.Visibility = &km
	}
	return obs, nil
}

// DecodeForecast exposes the 3-hourly list as the hourly timeline.
func (o *OpenWeather) DecodeForecast(raw json.RawMessage) (*provider.Forecast, error) {
	var p owmForecast
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("openweathermap: decoding forecast: %w", err)
	}

	entries := make([]provider.ForecastEntry, 0, len(p.List))
	for _, item := range p.List {
		e := provider.ForecastEntry{Time: item.Dt}
		if item.Main != nil {
			e.Temperature = item.Main.Temp
			e.FeelsLike = item.Main.FeelsLike
			e.Humidity = item.Main.Humidity
		}
		if item.Wind != nil {
			e.WindSpeed = item.Wind.Speed
		}
		if item.Pop != nil {
			pct := *item.Pop * 100
			e.PrecipProbability = &pct
		}
		if cond := firstDescription(item.Weather); cond != nil {
			e.Condition = *cond
		}
		entries = append(entries, e)
	}

	return &provider.Forecast{Timelines: map[provider.Granularity][]provider.ForecastEntry{
		provider.Hourly: entries,
	}}, nil
}

func firstDescription(items []owmCondition) *string {
	if len(items) == 0 {
		return nil
	}
	s, ok := items[0].Description.(string)
	if !ok {
		return nil
	}
	return &s
}
