package intent

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxQueryLen = 500

// BuildPrompt constructs the classification prompt for the LLM.
func BuildPrompt(query string) string {
	query = truncate(query, maxQueryLen)

	var sb strings.Builder

	sb.WriteString(`You are a weather assistant. Based on the user's query, determine what action to take.
Possible actions are:
1. "current_weather" - for current weather information
2. "forecast" - for weather forecast
3. "general" - for general weather questions

Also extract any relevant parameters like city name from the query.

`)

	fmt.Fprintf(&sb, "User query: \"%s\"\n\n", query)

	sb.WriteString(`Respond ONLY in JSON format with action and parameters:
{
    "action": "action_type",
    "parameters": {
        "city": "city_name_if_applicable",
        "days": number_of_days_if_applicable
    }
}

IMPORTANT: Respond ONLY with the JSON, no other text.
`)

	return sb.String()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
