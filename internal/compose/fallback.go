package compose

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

// currentFallback renders whichever key fields are present. It returns ""
// when none are.
func currentFallback(loc, units string, obs *provider.Observation) string {
	var lines []string
	sym := provider.TemperatureSymbol(units)

	if obs.Temperature != nil {
		lines = append(lines, fmt.Sprintf("Temperature: %s%s", num(*obs.Temperature), sym))
	}
	if obs.FeelsLike != nil {
		lines = append(lines, fmt.Sprintf("Feels like: %s%s", num(*obs.FeelsLike), sym))
	}
	if obs.Humidity != nil {
		lines = append(lines, fmt.Sprintf("Humidity: %s%%", num(*obs.Humidity)))
	}
	if obs.WindSpeed != nil {
		wind := fmt.Sprintf("Wind: %s %s", num(*obs.WindSpeed), provider.WindUnit(units))
		if obs.WindDirection != nil {
			wind += fmt.Sprintf(" from %s°", num(*obs.WindDirection))
		}
		lines = append(lines, wind)
	}
	if obs.Visibility != nil {
		lines = append(lines, fmt.Sprintf("Visibility: %s km", num(*obs.Visibility)))
	}

	if len(lines) == 0 {
		return ""
	}
	return fmt.Sprintf("Current weather in %s:\n%s", loc, strings.Join(lines, "\n"))
}

// forecastFallback walks the first non-empty timeline and renders up to
// maxFallbackEntries entries. It returns "" when nothing is usable.
func forecastFallback(loc, units string, fc *provider.Forecast) string {
	g, entries, ok := fc.Primary()
	if !ok {
		return ""
	}
	entries = entries[:min(len(entries), maxFallbackEntries)]
	sym := provider.TemperatureSymbol(units)

	var lines []string
	for _, e := range entries {
		var parts []string
		if e.Temperature != nil {
			parts = append(parts, fmt.Sprintf("temperature %s%s", num(*e.Temperature), sym))
		}
		if e.Humidity != nil {
			parts = append(parts, fmt.Sprintf("humidity %s%%", num(*e.Humidity)))
		}
		if e.PrecipProbability != nil {
			parts = append(parts, fmt.Sprintf("precipitation %s%%", num(*e.PrecipProbability)))
		}
		if e.WindSpeed != nil {
			parts = append(parts, fmt.Sprintf("wind %s %s", num(*e.WindSpeed), provider.WindUnit(units)))
		}
		if len(parts) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", stamp(e.Time), strings.Join(parts, ", ")))
	}

	if len(lines) == 0 {
		return ""
	}
	return fmt.Sprintf("Forecast for %s (%s):\n%s", loc, g, strings.Join(lines, "\n"))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stamp(ts int64) string {
	if ts == 0 {
		return "Unknown time"
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04 UTC")
}
