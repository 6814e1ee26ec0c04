package provider

// TemperatureSymbol returns the display suffix for a units system.
func TemperatureSymbol(units string) string {
	switch units {
	case "metric":
		return "°C"
	case "imperial":
		return "°F"
	default:
		return "K"
	}
}

// WindUnit returns the wind speed unit for a units system.
func WindUnit(units string) string {
	if units == "imperial" {
		return "mph"
	}
	return "m/s"
}
