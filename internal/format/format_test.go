package format

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raqiba/Weather-ChatBot/internal/compose"
	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

func ptr[T any](v T) *T { return &v }

const jan1 = int64(1704067200) // 2024-01-01 00:00 UTC

func TestCurrent(t *testing.T) {
	f := New(time.UTC)

	md := f.Current(&compose.CurrentRecord{
		Type: "current", City: "Paris", Units: "metric",
		Temp: 18.2, Condition: "clear sky", Humidity: 60, WindSpeed: 3.4, Updated: 1700000000,
	})

	assert.Contains(t, md, "**📍 Paris**")
	assert.Contains(t, md, "`18.2°C`")
	assert.Contains(t, md, "Clear Sky")
	assert.Contains(t, md, "**💧 Humidity:** 60%")
	assert.Contains(t, md, "**💨 Wind:** 3.4 m/s")
	assert.Contains(t, md, "_Updated:_ 2023-11-14 22:13")
}

func TestCurrent_UnitsAndMissingTimestamp(t *testing.T) {
	f := New(time.UTC)

	md := f.Current(&compose.CurrentRecord{City: "Denver", Units: "imperial", Temp: 41})
	assert.Contains(t, md, "`41.0°F`")
	assert.Contains(t, md, "mph")
	assert.Contains(t, md, "Unknown")
	assert.Contains(t, md, "_Updated:_ N/A")

	md = f.Current(&compose.CurrentRecord{City: "Lab", Units: "standard", Temp: 300})
	assert.Contains(t, md, "`300.0K`")
}

func TestForecast_Empty(t *testing.T) {
	assert.Equal(t, "No forecast available.", New(time.UTC).Forecast(&compose.ForecastRecord{City: "Paris"}))
}

func TestForecast_GroupsByDate(t *testing.T) {
	var list []provider.ForecastEntry
	for i := 0; i < 16; i++ {
		list = append(list, provider.ForecastEntry{
			Time:        jan1 + int64(i)*3600*3,
			Temperature: ptr(float64(i)),
			Condition:   "light rain",
		})
	}
	md := New(time.UTC).Forecast(&compose.ForecastRecord{City: "Paris", Units: "metric", Days: 2, List: list})

	assert.True(t, strings.HasPrefix(md, "**🌤 2-day forecast for Paris**"))
	assert.Contains(t, md, "**📅 2024-01-01** Min: 0.0°C, Max: 7.0°C")
	assert.Contains(t, md, "**📅 2024-01-02** Min: 8.0°C, Max: 15.0°C")
	assert.Contains(t, md, "- 00:00: 0.0°C, Light Rain")
	assert.Less(t, strings.Index(md, "2024-01-01"), strings.Index(md, "2024-01-02"))
	// Only the 00:00 slot matches on a 3-hourly grid.
	assert.NotContains(t, md, "- 03:00")
}

func TestForecast_FallsBackToFirstFour(t *testing.T) {
	var list []provider.ForecastEntry
	for i := 0; i < 6; i++ {
		list = append(list, provider.ForecastEntry{Time: jan1 + 3600 + int64(i)*3600, Temperature: ptr(5.0)})
	}
	md := New(time.UTC).Forecast(&compose.ForecastRecord{City: "Oslo", Units: "metric", Days: 1, List: list})

	for _, hh := range []string{"01:00", "02:00", "03:00", "04:00"} {
		assert.Contains(t, md, "- "+hh+": 5.0°C")
	}
	assert.NotContains(t, md, "- 05:00")
}

func TestForecast_MissingTemperature(t *testing.T) {
	md := New(time.UTC).Forecast(&compose.ForecastRecord{
		City: "Oslo", Units: "metric", Days: 1,
		List: []provider.ForecastEntry{{Time: jan1}},
	})
	assert.Contains(t, md, "Min: N/A, Max: N/A")
	assert.Contains(t, md, "- 00:00: N/A")
}

func TestRender(t *testing.T) {
	f := New(time.UTC)

	assert.Equal(t, "hello", f.Render(compose.Response{Kind: compose.KindText, Text: "hello"}))
	assert.Equal(t, "I didn't understand the request.", f.Render(compose.Response{Kind: compose.KindCurrent}))

	out := f.Render(compose.Response{Kind: compose.KindForecast, Forecast: &compose.ForecastRecord{City: "X"}})
	assert.Equal(t, "No forecast available.", out)

	out = f.Render(compose.Response{Kind: compose.KindCurrent, Current: &compose.CurrentRecord{City: "Paris", Units: "metric"}})
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "{")
}
