package weather

import (
	"fmt"

	"github.com/raqiba/Weather-ChatBot/internal/provider"
)

// New returns the weather client registered under name.
func New(name string, opts Options) (provider.Weather, error) {
	switch name {
	case "openweathermap", "":
		return NewOpenWeather(opts), nil
	case "tomorrow":
		return NewTomorrow(opts), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", name)
	}
}
