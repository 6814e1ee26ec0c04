// Package format renders composed responses as markdown text suitable for
// chat history and terminal output.
package format

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/raqiba/Weather-ChatBot/internal/compose"
	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

var showTimes = []string{"00:00", "08:00", "14:00", "20:00"}

// Formatter renders timestamps in Location. A nil Location means local time.
type Formatter struct {
	Location *time.Location
}

// New returns a Formatter for loc.
func New(loc *time.Location) *Formatter {
	return &Formatter{Location: loc}
}

func (f *Formatter) loc() *time.Location {
	if f == nil || f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Render collapses any response to text.
func (f *Formatter) Render(resp compose.Response) string {
	switch resp.Kind {
	case compose.KindCurrent:
		if resp.Current != nil {
			return f.Current(resp.Current)
		}
	case compose.KindForecast:
		if resp.Forecast != nil {
			return f.Forecast(resp.Forecast)
		}
	default:
		return resp.Text
	}
	return "I didn't understand the request."
}

// Current renders a current-conditions card.
func (f *Formatter) Current(rec *compose.CurrentRecord) string {
	sym := provider.TemperatureSymbol(rec.Units)

	updated := "N/A"
	if rec.Updated != 0 {
		updated = time.Unix(rec.Updated, 0).In(f.loc()).Format("2006-01-02 15:04")
	}

	condition := rec.Condition
	if condition == "" {
		condition = "Unknown"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**📍 %s**  \n", rec.City)
	fmt.Fprintf(&sb, "**🌡 Temperature:** `%.1f%s`  \n", rec.Temp, sym)
	fmt.Fprintf(&sb, "**☁ Condition:** %s  \n", title(condition))
	fmt.Fprintf(&sb, "**💧 Humidity:** %s%%  \n", trimFloat(rec.Humidity))
	fmt.Fprintf(&sb, "**💨 Wind:** %s %s  \n", trimFloat(rec.WindSpeed), provider.WindUnit(rec.Units))
	fmt.Fprintf(&sb, "> _Updated:_ %s\n", updated)
	return sb.String()
}

type row struct {
	time string
	temp *float64
	desc string
}

// Forecast renders entries grouped by local date with daily min/max and a
// few representative times per day.
func (f *Formatter) Forecast(rec *compose.ForecastRecord) string {
	if len(rec.List) == 0 {
		return "No forecast available."
	}
	sym := provider.TemperatureSymbol(rec.Units)

	byDate := map[string][]row{}
	for _, e := range rec.List {
		t := time.Unix(e.Time, 0).In(f.loc())
		date := t.Format("2006-01-02")
		byDate[date] = append(byDate[date], row{
			time: t.Format("15:04"),
			temp: e.Temperature,
			desc: title(e.Condition),
		})
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	slices.Sort(dates)

	var sb strings.Builder
	fmt.Fprintf(&sb, "**🌤 %d-day forecast for %s**\n\n", rec.Days, rec.City)
	for _, date := range dates {
		rows := byDate[date]
		lo, hi, ok := minMax(rows)
		if ok {
			fmt.Fprintf(&sb, "**📅 %s** Min: %.1f%s, Max: %.1f%s\n\n", date, lo, sym, hi, sym)
		} else {
			fmt.Fprintf(&sb, "**📅 %s** Min: N/A, Max: N/A\n\n", date)
		}

		shown := slices.DeleteFunc(slices.Clone(rows), func(r row) bool {
			return !slices.Contains(showTimes, r.time)
		})
		if len(shown) == 0 {
			shown = rows[:min(4, len(rows))]
		}
		for _, r := range shown {
			temp := "N/A"
			if r.temp != nil {
				temp = fmt.Sprintf("%.1f%s", *r.temp, sym)
			}
			line := fmt.Sprintf("- %s: %s", r.time, temp)
			if r.desc != "" {
				line += ", " + r.desc
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func minMax(rows []row) (lo, hi float64, ok bool) {
	for _, r := range rows {
		if r.temp == nil {
			continue
		}
		if !ok {
			lo, hi, ok = *r.temp, *r.temp, true
			continue
		}
		lo = min(lo, *r.temp)
		hi = max(hi, *r.temp)
	}
	return lo, hi, ok
}

// title upper-cases the first letter of each word. A Caser is stateful, so
// one is built per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
