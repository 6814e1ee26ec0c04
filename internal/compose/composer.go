// Package compose turns a classified intent into an answer, fetching weather
// data and calling the LLM as the action requires.
package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/raqiba/Weather-ChatBot/internal/chat"
	"github.com/raqiba/Weather-ChatBot/internal/intent"
	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

// Strategy selects how weather actions are answered.
type Strategy string

const (
	// Structured returns typed records for external formatting.
	Structured Strategy = "structured"
	// Narrated asks the LLM to describe the raw payload.
	Narrated Strategy = "narrated"
)

const (
	defaultDays          = 5
	pointsPerDay         = 8
	defaultNarrateWindow = 3
	defaultGeneralWindow = 5
	maxFallbackEntries   = 10
	defaultUnits         = "metric"
)

// Options tunes a Composer. Zero values select the defaults.
type Options struct {
	Strategy      Strategy
	Units         string
	NarrateWindow int
	GeneralWindow int
}

// Composer answers one descriptor at a time. It holds no per-turn state.
type Composer struct {
	weather provider.Weather
	llm     provider.LLM
	opts    Options
	logger  *slog.Logger
}

// New returns a Composer over the given backends.
func New(weather provider.Weather, llm provider.LLM, opts Options, logger *slog.Logger) *Composer {
	if opts.Strategy == "" {
		opts.Strategy = Structured
	}
	if opts.Units == "" {
		opts.Units = defaultUnits
	}
	if opts.NarrateWindow <= 0 {
		opts.NarrateWindow = defaultNarrateWindow
	}
	if opts.GeneralWindow <= 0 {
		opts.GeneralWindow = defaultGeneralWindow
	}
	return &Composer{weather: weather, llm: llm, opts: opts, logger: logger}
}

// Compose never returns an error: every failure becomes user-facing text.
func (c *Composer) Compose(ctx context.Context, d intent.Descriptor, query string, history []chat.Message) Response {
	switch d.Action {
	case intent.ActionCurrentWeather:
		return c.current(ctx, d, query, history)
	case intent.ActionForecast:
		return c.forecast(ctx, d, query, history)
	default:
		return c.general(ctx, query, history)
	}
}

func (c *Composer) current(ctx context.Context, d intent.Descriptor, query string, history []chat.Message) Response {
	loc := d.Location()
	if loc == "" {
		return text("Please specify a city to get the current weather.")
	}

	raw, err := c.weather.FetchCurrent(ctx, loc)
	if err != nil {
		c.logger.Warn("fetching current weather failed", "location", loc, "error", err)
		return text(fmt.Sprintf("Sorry, I couldn't get the weather information for %s. Error: %s", loc, err.Error()))
	}

	if c.opts.Strategy == Narrated {
		return c.narrateCurrent(ctx, loc, raw, query, history)
	}

	obs, err := c.weather.DecodeCurrent(raw)
	if err != nil {
		return text(fmt.Sprintf("Sorry, I couldn't parse the weather data. Error: %v", err))
	}
	complete, err := obs.Require()
	if err != nil {
		c.logger.Debug("current weather payload incomplete", "location", loc, "error", err)
		return text("Sorry, some weather data is missing.")
	}

	return Response{Kind: KindCurrent, Current: &CurrentRecord{
		Type:      "current",
		City:      loc,
		Units:     c.opts.Units,
		Temp:      complete.Temperature,
		Condition: complete.Condition,
		Humidity:  complete.Humidity,
		WindSpeed: complete.WindSpeed,
		Updated:   complete.Updated,
	}}
}

func (c *Composer) narrateCurrent(ctx context.Context, loc string, raw json.RawMessage, query string, history []chat.Message) Response {
	prompt := currentNarrationPrompt(loc, raw, query, chat.Window(history, c.opts.NarrateWindow))
	out, err := c.llm.Generate(ctx, prompt)
	if err == nil {
		return text(out)
	}
	c.logger.Warn("narrating current weather failed, using fallback", "location", loc, "error", err)

	obs, derr := c.weather.DecodeCurrent(raw)
	if derr == nil {
		if summary := currentFallback(loc, c.opts.Units, obs); summary != "" {
			return text(summary)
		}
	}
	return text(fmt.Sprintf("Sorry, I was unable to extract the weather details for %s.", loc))
}

func (c *Composer) forecast(ctx context.Context, d intent.Descriptor, query string, history []chat.Message) Response {
	loc := d.Location()
	if loc == "" {
		return text("Please specify a city to get the weather forecast.")
	}

	days, ok := d.Days()
	if !ok {
		days = defaultDays
	}
	days = provider.ClampDays(c.weather, days)

	raw, err := c.weather.FetchForecast(ctx, loc, days)
	if err != nil {
		c.logger.Warn("fetching forecast failed", "location", loc, "error", err)
		return text(fmt.Sprintf("Sorry, I couldn't get the forecast for %s. Error: %s", loc, err.Error()))
	}

	if c.opts.Strategy == Narrated {
		return c.narrateForecast(ctx, loc, days, raw, query, history)
	}

	fc, err := c.weather.DecodeForecast(raw)
	if err != nil {
		return text(fmt.Sprintf("Sorry, I couldn't parse the forecast data. Error: %v", err))
	}

	_, entries, _ := fc.Span()
	list := spread(entries, days, days*pointsPerDay)

	return Response{Kind: KindForecast, Forecast: &ForecastRecord{
		Type:  "forecast",
		City:  loc,
		Units: c.opts.Units,
		Days:  days,
		List:  list,
	}}
}

func (c *Composer) narrateForecast(ctx context.Context, loc string, days int, raw json.RawMessage, query string, history []chat.Message) Response {
	prompt := forecastNarrationPrompt(loc, days, raw, query, chat.Window(history, c.opts.NarrateWindow))
	out, err := c.llm.Generate(ctx, prompt)
	if err == nil {
		return text(out)
	}
	c.logger.Warn("narrating forecast failed, using fallback", "location", loc, "error", err)

	fc, derr := c.weather.DecodeForecast(raw)
	if derr == nil {
		if summary := forecastFallback(loc, c.opts.Units, fc); summary != "" {
			return text(summary)
		}
	}
	return text(fmt.Sprintf("Sorry, I was unable to extract the forecast details for %s.", loc))
}

func (c *Composer) general(ctx context.Context, query string, history []chat.Message) Response {
	prompt := generalPrompt(query, chat.Window(history, c.opts.GeneralWindow))
	out, err := c.llm.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("general answer failed", "error", err)
		return text(fmt.Sprintf("Sorry, I'm having trouble processing your request right now. Error: %v", err))
	}
	return text(out)
}

// spread keeps the entries within days of the first one, thinned to every
// k-th point so that at most n remain. The result is a fresh slice.
func spread(entries []provider.ForecastEntry, days, n int) []provider.ForecastEntry {
	if len(entries) == 0 || n <= 0 {
		return []provider.ForecastEntry{}
	}

	end := entries[0].Time + int64(days)*24*60*60
	window := entries
	for i, e := range entries {
		if e.Time >= end {
			window = entries[:i]
			break
		}
	}

	stride := max(1, (len(window)+n-1)/n)
	out := make([]provider.ForecastEntry, 0, min(len(window), n))
	for i := 0; i < len(window) && len(out) < n; i += stride {
		out = append(out, window[i])
	}
	return out
}
