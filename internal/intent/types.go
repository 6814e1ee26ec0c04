package intent

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Action is the routing decision for a query.
type Action string

const (
	ActionCurrentWeather Action = "current_weather"
	ActionForecast       Action = "forecast"
	ActionGeneral        Action = "general"
)

func (a Action) valid() bool {
	switch a {
	case ActionCurrentWeather, ActionForecast, ActionGeneral:
		return true
	}
	return false
}

// Descriptor is the classified intent of a query.
type Descriptor struct {
	Action Action         `json:"action"`
	Params map[string]any `json:"parameters"`
}

// Default is the safe fallback used whenever classification fails.
func Default() Descriptor {
	return Descriptor{Action: ActionGeneral, Params: map[string]any{}}
}

// Location returns the trimmed "city" or "location" parameter, preferring city.
func (d Descriptor) Location() string {
	for _, key := range []string{"city", "location"} {
		if s, ok := d.Params[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// Days returns the "days" parameter and whether it was present and numeric.
func (d Descriptor) Days() (int, bool) {
	switch v := d.Params["days"].(type) {
	case int:
		return v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// ErrDecode indicates the model's reply could not be read as a descriptor.
var ErrDecode = errors.New("intent: malformed classification")
